// Package fuzz drives pkg/optimize.Optimize against randomly generated
// programs and checks, via pkg/interp, that the rewritten stream computes
// the same results as the original — the semantic-equivalence role the
// teacher's pkg/search/verifier.go QuickCheck/ExhaustiveCheck pair plays
// for candidate instruction sequences, adapted from "replacement matches
// target" to "optimized matches unoptimized".
package fuzz

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbatuzov/tcgpeep/pkg/interp"
	"github.com/kbatuzov/tcgpeep/pkg/ir"
	"github.com/kbatuzov/tcgpeep/pkg/optimize"
	"github.com/kbatuzov/tcgpeep/pkg/report"
)

// Pool runs a batch of seeds across a fixed number of worker goroutines,
// the same shape as the teacher's search.WorkerPool.
type Pool struct {
	NumWorkers int
	Findings   *report.Table
	checked    atomic.Int64
	mismatches atomic.Int64
}

// NewPool creates a pool with the given worker count; numWorkers <= 0
// defaults to runtime.NumCPU(), matching search.NewWorkerPool.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, Findings: report.NewTable()}
}

// Stats returns the running totals.
func (p *Pool) Stats() (checked, mismatches int64) {
	return p.checked.Load(), p.mismatches.Load()
}

// Params bounds the generated programs and the seeds and initial states
// they are checked with.
type Params struct {
	Gen        Gen
	FirstSeed  int64
	NbSeeds    int64
	TempRounds int // number of random initial-state vectors tried per program
}

// Run checks NbSeeds generated programs, starting at FirstSeed, and
// reports progress on the cadence the teacher's worker.go uses (a ticker
// goroutine printing elapsed time, programs checked so far, and the
// mismatch count every 10 seconds).
func (p *Pool) Run(params Params) {
	seeds := make(chan int64, params.NbSeeds)
	for s := params.FirstSeed; s < params.FirstSeed+params.NbSeeds; s++ {
		seeds <- s
	}
	close(seeds)

	done := make(chan struct{})
	start := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				checked, mismatches := p.Stats()
				elapsed := time.Since(start).Round(time.Second)
				fmt.Printf("  [%s] %d/%d programs checked | %d mismatches\n",
					elapsed, checked, params.NbSeeds, mismatches)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				p.checkOne(seed, params)
			}
		}()
	}
	wg.Wait()
	close(done)
}

// checkOne generates one program from seed, optimizes a copy of it, and
// compares interpreted results across params.TempRounds random initial
// states.
func (p *Pool) checkOne(seed int64, params Params) {
	p.checked.Add(1)

	ctx, original := Generate(seed, params.Gen)

	optimized := &ir.Program{
		Opcodes: append([]ir.Opcode(nil), original.Opcodes...),
		Args:    append([]int64(nil), original.Args...),
	}
	optimized.Args = optimize.Optimize(ctx, optimized)

	r := rand.New(rand.NewSource(seed ^ 0x5151))
	rounds := params.TempRounds
	if rounds <= 0 {
		rounds = 1
	}
	for round := 0; round < rounds; round++ {
		init := make([]int64, ctx.NbTemps)
		for i := range init {
			init[i] = int64(r.Uint32())
		}

		before := interp.NewMachine(ctx.NbTemps)
		copy(before.Temps, init)
		interp.Run(ctx, original, before)

		after := interp.NewMachine(ctx.NbTemps)
		copy(after.Temps, init)
		interp.Run(ctx, optimized, after)

		for t := 0; t < ctx.NbTemps; t++ {
			if before.Temps[t] != after.Temps[t] {
				p.mismatches.Add(1)
				p.Findings.Add(report.Finding{
					Seed:        seed,
					OpsBefore:   len(original.Opcodes),
					OpsAfter:    countNonNop(optimized.Opcodes),
					Description: fmt.Sprintf("temp %d: before=%d after=%d (round %d)", t, before.Temps[t], after.Temps[t], round),
				})
				return
			}
		}
	}
}

func countNonNop(ops []ir.Opcode) int {
	n := 0
	for _, op := range ops {
		if op != ir.Nop {
			n++
		}
	}
	return n
}
