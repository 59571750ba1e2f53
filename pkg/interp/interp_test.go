package interp

import (
	"testing"

	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

func newCtx(nbTemps int) *ir.Context {
	ctx := &ir.Context{NbGlobals: 0, NbTemps: nbTemps, Temps: make([]ir.TempDesc, nbTemps)}
	for i := range ctx.Temps {
		ctx.Temps[i] = ir.TempDesc{Kind: ir.TempAnon, Width: ir.W32}
	}
	return ctx
}

func TestRunAddConstants(t *testing.T) {
	ctx := newCtx(3)
	prog := &ir.Program{
		Opcodes: []ir.Opcode{ir.MoviI32, ir.MoviI32, ir.AddI32},
		Args:    []int64{0, 3, 1, 4, 2, 0, 1},
	}
	m := NewMachine(3)
	Run(ctx, prog, m)

	if m.Temps[2] != 7 {
		t.Fatalf("t2 = %d, want 7", m.Temps[2])
	}
}

func TestRunBranch(t *testing.T) {
	ctx := newCtx(1)
	// nop(0); br(3)(1); movi t0,99(2, skipped); nop(3)
	prog := &ir.Program{
		Opcodes: []ir.Opcode{ir.Nop, ir.Br, ir.MoviI32, ir.Nop},
		Args:    []int64{3, 0, 99},
	}
	m := NewMachine(1)
	Run(ctx, prog, m)

	if m.Temps[0] != 0 {
		t.Fatalf("branch should have skipped the movi, t0 = %d", m.Temps[0])
	}
}

func TestRunBrcondTaken(t *testing.T) {
	ctx := newCtx(2)
	// movi t0,5; movi t1,5; brcond t0,t1,EQ,4; movi t0,99 (skipped, label
	// points one past the last opcode so the program ends there)
	prog := &ir.Program{
		Opcodes: []ir.Opcode{ir.MoviI32, ir.MoviI32, ir.BrcondI32, ir.MoviI32},
		Args:    []int64{0, 5, 1, 5, 0, 1, int64(ir.CondEQ), 4, 0, 99},
	}
	m := NewMachine(2)
	Run(ctx, prog, m)

	if m.Temps[0] != 5 {
		t.Fatalf("branch should have been taken, t0 = %d", m.Temps[0])
	}
}

func TestRunMovcond(t *testing.T) {
	ctx := newCtx(5)
	// movi t0,1(false path won't matter); movi t1,2; movi t2,10; movi t3,20
	// movcond t4, t0, t1, t2, t3, LT  (1 < 2 is true -> select t2=10)
	prog := &ir.Program{
		Opcodes: []ir.Opcode{ir.MoviI32, ir.MoviI32, ir.MoviI32, ir.MoviI32, ir.MovcondI32},
		Args: []int64{
			0, 1,
			1, 2,
			2, 10,
			3, 20,
			4, 0, 1, 2, 3, int64(ir.CondLT),
		},
	}
	m := NewMachine(5)
	Run(ctx, prog, m)

	if m.Temps[4] != 10 {
		t.Fatalf("movcond should have selected the true value, t4 = %d", m.Temps[4])
	}
}

func TestRunDeposit(t *testing.T) {
	ctx := newCtx(3)
	prog := &ir.Program{
		Opcodes: []ir.Opcode{ir.MoviI32, ir.MoviI32, ir.DepositI32},
		Args:    []int64{0, int64(0xffffffff), 1, 0x3, 2, 0, 1, 4, 4},
	}
	m := NewMachine(3)
	Run(ctx, prog, m)

	if m.Temps[2] != int64(0xffffff3f) {
		t.Fatalf("t2 = %#x, want 0xffffff3f", m.Temps[2])
	}
}
