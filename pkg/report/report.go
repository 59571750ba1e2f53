// Package report persists the outcome of a tcgopt run — a single
// optimization pass or a batch fuzz/bench sweep — the way the teacher's
// pkg/result persists discovered rewrite rules: JSON for a human-facing
// summary, gob for resumable checkpoints.
package report

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Finding records one fuzz-harness disagreement between the pre- and
// post-optimization interpretations of a generated program.
type Finding struct {
	Seed        int64
	OpsBefore   int
	OpsAfter    int
	Description string
}

// Run is the top-level report for one tcgopt invocation.
type Run struct {
	ID          uuid.UUID
	Command     string
	ProgramsRun int
	OpsRemoved  int
	ArgsRemoved int
	Findings    []Finding
}

// NewRun allocates a Run tagged with a fresh ID, so repeated `tcgopt
// fuzz` invocations can be told apart in saved reports.
func NewRun(command string) *Run {
	return &Run{ID: uuid.New(), Command: command}
}

// Summary is a short, stable string the CLI prints after a run.
func (r *Run) Summary() string {
	if len(r.Findings) > 0 {
		return "FAIL: semantic mismatch found"
	}
	return "OK"
}

// Table aggregates findings across a batch run, the same role the
// teacher's result.Table plays for discovered rewrite rules.
type Table struct {
	mu       sync.Mutex
	findings []Finding
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a finding into the table.
func (t *Table) Add(f Finding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.findings = append(t.findings, f)
}

// Findings returns a copy of all findings, sorted by seed.
func (t *Table) Findings() []Finding {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Finding, len(t.findings))
	copy(out, t.findings)
	sort.Slice(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out
}

// Len returns the number of findings recorded so far.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.findings)
}

// SaveJSON writes r to path as indented JSON, for human inspection.
func SaveJSON(path string, r *Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// LoadJSON reads a Run previously written by SaveJSON.
func LoadJSON(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r Run
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Checkpoint holds state for resuming a long fuzz sweep.
type Checkpoint struct {
	RunID          uuid.UUID
	Findings       []Finding
	CompletedSeeds int64
	NextSeed       int64
}

func init() {
	gob.Register(uuid.UUID{})
}

// SaveCheckpoint writes fuzz-sweep state to a file.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads fuzz-sweep state from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
