package fuzz

import (
	"testing"

	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

func TestGenerateIsReproducible(t *testing.T) {
	g := Gen{NbTemps: 6, NbOps: 20, ConstBias: 7}
	_, p1 := Generate(42, g)
	_, p2 := Generate(42, g)

	if len(p1.Opcodes) != len(p2.Opcodes) {
		t.Fatalf("same seed produced different program lengths: %d vs %d", len(p1.Opcodes), len(p2.Opcodes))
	}
	for i := range p1.Opcodes {
		if p1.Opcodes[i] != p2.Opcodes[i] {
			t.Fatalf("same seed diverged at opcode %d: %v vs %v", i, p1.Opcodes[i], p2.Opcodes[i])
		}
	}
	for i := range p1.Args {
		if p1.Args[i] != p2.Args[i] {
			t.Fatalf("same seed diverged at arg %d: %v vs %v", i, p1.Args[i], p2.Args[i])
		}
	}
}

func TestGenerateStraightLine(t *testing.T) {
	_, p := Generate(7, Gen{NbTemps: 4, NbOps: 50, ConstBias: 5})
	for _, op := range p.Opcodes {
		if op == ir.Br || op == ir.BrcondI32 || op == ir.BrcondI64 || op == ir.Call {
			t.Fatalf("generator produced a control-flow opcode %v, but the fuzz harness requires straight-line programs", op)
		}
	}
}

func TestPoolRunFindsNoMismatches(t *testing.T) {
	pool := NewPool(2)
	pool.Run(Params{
		Gen:        Gen{NbTemps: 5, NbOps: 12, ConstBias: 6},
		FirstSeed:  1,
		NbSeeds:    200,
		TempRounds: 3,
	})

	checked, mismatches := pool.Stats()
	if checked != 200 {
		t.Fatalf("checked = %d, want 200", checked)
	}
	if mismatches != 0 {
		t.Fatalf("optimizer disagreed with the reference interpreter on %d programs: %s",
			mismatches, pool.Findings.Findings()[0].Description)
	}
}

func TestCheckOneCountsEmptyProgram(t *testing.T) {
	// a program with zero ops can never mismatch; this only exercises that
	// checkOne advances the checked counter even on a trivial program.
	pool := NewPool(1)
	pool.checkOne(99, Params{Gen: Gen{NbTemps: 2, NbOps: 0}, TempRounds: 1})

	checked, mismatches := pool.Stats()
	if checked != 1 {
		t.Fatalf("checked = %d, want 1", checked)
	}
	if mismatches != 0 {
		t.Fatalf("empty program should never mismatch, got %d", mismatches)
	}
}
