// Package state tracks, for every temporary in a single optimizer
// invocation, what the peephole pass currently knows about its value: no
// information, a known constant, or membership in a copy class. It owns
// the circular doubly-linked copy-class lists described in the design
// notes: two flat index arrays rather than pointers, so the whole table
// stays a plain struct-of-arrays the way a reusable per-pass context
// should.
package state

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// Kind is the lattice state of one temporary.
type Kind uint8

const (
	Undef Kind = iota
	Const
	CopyOf
)

// Table is the optimizer's side table, one entry per temporary. It is
// allocated once per optimizer invocation and zero-valued (all Undef)
// on construction.
type Table struct {
	kind []Kind
	val  []int64
	prev []int
	next []int
}

// New allocates a state table sized for nbTemps temporaries, all Undef.
func New(nbTemps int) *Table {
	return &Table{
		kind: make([]Kind, nbTemps),
		val:  make([]int64, nbTemps),
		prev: make([]int, nbTemps),
		next: make([]int, nbTemps),
	}
}

// Kind returns the current lattice state of t.
func (t *Table) Kind(i int) Kind {
	return t.kind[i]
}

// Value returns the constant value of i. Only meaningful when
// Kind(i) == Const.
func (t *Table) Value(i int) int64 {
	return t.val[i]
}

// Reset clears temp i back to Undef. If i was the sole link keeping a
// two-member copy class alive, the peer becomes Undef too (a singleton
// class reverts to no class at all); otherwise i is spliced out of its
// ring and the ring's remaining members are left intact.
func (t *Table) Reset(i int) {
	if t.kind[i] == CopyOf {
		if t.prev[i] == t.next[i] {
			// Singleton, or exactly two members: the remaining
			// peer (itself, if singleton) loses its class too,
			// since a lone CopyOf entry is never materialized.
			t.kind[t.next[i]] = Undef
		} else {
			t.next[t.prev[i]] = t.next[i]
			t.prev[t.next[i]] = t.prev[i]
		}
	}
	t.kind[i] = Undef
}

// MarkConst records that temp i now holds the constant value v.
func (t *Table) MarkConst(i int, v int64) {
	t.Reset(i)
	t.kind[i] = Const
	t.val[i] = v
}

// MarkCopy records that dst now holds the same value as src, splicing
// dst into src's copy class (promoting src to a singleton class first if
// it wasn't already in one). Panics if src currently holds a known
// constant: the caller must lower the constant to a movi form and call
// MarkConst instead (spec: "a copy relationship may not source a Const
// temp").
func (t *Table) MarkCopy(dst, src int) {
	t.Reset(dst)
	if t.kind[src] == Const {
		panic(fmt.Sprintf("state: MarkCopy(%d, %d): src holds a constant", dst, src))
	}
	if t.kind[src] != CopyOf {
		t.kind[src] = CopyOf
		t.next[src] = src
		t.prev[src] = src
	}
	t.kind[dst] = CopyOf
	t.next[dst] = t.next[src]
	t.prev[dst] = src
	t.prev[t.next[dst]] = dst
	t.next[src] = dst
}

// AreCopies reports whether a and b are known to hold the same value:
// trivially if they're the same temp, or if both are members of the same
// copy class.
func (t *Table) AreCopies(a, b int) bool {
	if a == b {
		return true
	}
	if t.kind[a] != CopyOf || t.kind[b] != CopyOf {
		return false
	}
	for i := t.next[a]; i != a; i = t.next[i] {
		if i == b {
			return true
		}
	}
	return false
}

// IsGlobal reports whether id i is a global, given the front end's
// global count (globals occupy the low ids by convention).
func IsGlobal(i, nbGlobals int) bool {
	return i < nbGlobals
}

// FindBetter returns the "most stable" member of t's copy class for use
// rewriting: a global if one is reachable, else a declared-local if t
// itself isn't already one, else t unchanged. isLocal reports whether a
// given temp id was declared `temp_local` by the front end.
func (t *Table) FindBetter(target int, nbGlobals int, isLocal func(int) bool) int {
	if IsGlobal(target, nbGlobals) {
		return target
	}
	for i := t.next[target]; i != target; i = t.next[i] {
		if IsGlobal(i, nbGlobals) {
			return i
		}
	}
	if !isLocal(target) {
		for i := t.next[target]; i != target; i = t.next[i] {
			if isLocal(i) {
				return i
			}
		}
	}
	return target
}

// ResetAll clears every temp back to Undef, used at a basic-block
// terminator where all tracked state may be invalidated by the join.
func (t *Table) ResetAll() {
	for i := range t.kind {
		t.kind[i] = Undef
	}
}

// ResetGlobals clears the first nbGlobals temps back to Undef, used at a
// call that is not declared NoWriteGlobals.
func (t *Table) ResetGlobals(nbGlobals int) {
	for i := 0; i < nbGlobals; i++ {
		t.Reset(i)
	}
}

// Dump renders the table's internal arrays for the CLI's trace
// subcommand.
func (t *Table) Dump() string {
	return spew.Sdump(struct {
		Kind []Kind
		Val  []int64
		Prev []int
		Next []int
	}{t.kind, t.val, t.prev, t.next})
}
