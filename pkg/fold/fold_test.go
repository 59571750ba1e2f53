package fold

import (
	"testing"

	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

func TestBinaryTruncatesTo32(t *testing.T) {
	got := Binary(ir.AddI32, 0x7fffffff, 1)
	if got != 0x80000000 {
		t.Fatalf("add_i32 overflow: got %#x", got)
	}
}

func TestBinaryKeeps64(t *testing.T) {
	got := Binary(ir.AddI64, 0x7fffffff, 1)
	if got != 0x80000000 {
		t.Fatalf("add_i64 should not truncate: got %#x", got)
	}
}

func TestBinaryLogic(t *testing.T) {
	cases := []struct {
		op   ir.Opcode
		x, y int64
		want int64
	}{
		{ir.AndI32, 0xff, 0x0f, 0x0f},
		{ir.OrI32, 0xf0, 0x0f, 0xff},
		{ir.XorI32, 0xff, 0x0f, 0xf0},
		{ir.AndcI32, 0xff, 0x0f, 0xf0},
		{ir.OrcI32, 0, 0, -1 & 0xffffffff},
		{ir.NandI32, 0xff, 0xff, 0xffffff00},
	}
	for _, c := range cases {
		if got := Binary(c.op, c.x, c.y); got != c.want {
			t.Errorf("%s(%#x,%#x) = %#x, want %#x", c.op, c.x, c.y, got, c.want)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	// rotl by k then rotr by k is the identity for in-range k.
	x := int64(0x12345678)
	for k := int64(0); k < 32; k++ {
		rotated := Binary(ir.RotlI32, x, k)
		back := Binary(ir.RotrI32, rotated, k)
		if back != x {
			t.Fatalf("rotl/rotr round trip broke at k=%d: got %#x", k, back)
		}
	}
}

func TestUnaryExtensions(t *testing.T) {
	if got := Unary(ir.Ext8sI32, 0xff); got != -1&0xffffffff {
		t.Fatalf("ext8s_i32(0xff) = %#x, want sign-extended -1", got)
	}
	if got := Unary(ir.Ext8uI32, 0xff); got != 0xff {
		t.Fatalf("ext8u_i32(0xff) = %#x, want 0xff", got)
	}
}

func TestDeposit(t *testing.T) {
	// deposit dst, a=0xffffffff, b=0x3, ofs=4, len=4 => replace bits [4,8) with 0x3
	got := Deposit(0xffffffff, 0x3, 4, 4)
	want := int64(0xffffff3f)
	if got != want {
		t.Fatalf("Deposit = %#x, want %#x", got, want)
	}
}

func TestCondConstFolds(t *testing.T) {
	cases := []struct {
		c    ir.Cond
		x, y int64
		want int64
	}{
		{ir.CondEQ, 3, 3, 1},
		{ir.CondEQ, 3, 4, 0},
		{ir.CondLT, -1, 0, 1},
		{ir.CondLTU, -1, 0, 0}, // -1 as u32 is huge
		{ir.CondGEU, -1, 0, 1},
	}
	for _, c := range cases {
		got := Cond(c.c, ir.W32, true, true, c.x, c.y, c.x == c.y)
		if got != c.want {
			t.Errorf("Cond(%v,%d,%d) = %d, want %d", c.c, c.x, c.y, got, c.want)
		}
	}
}

func TestCondEqualOperands(t *testing.T) {
	got := Cond(ir.CondGE, ir.W32, false, false, 0, 0, true)
	if got != 1 {
		t.Fatalf("GE on known-equal operands should fold to true, got %d", got)
	}
	got = Cond(ir.CondLT, ir.W32, false, false, 0, 0, true)
	if got != 0 {
		t.Fatalf("LT on known-equal operands should fold to false, got %d", got)
	}
}

func TestCondUnresolved(t *testing.T) {
	got := Cond(ir.CondEQ, ir.W32, false, false, 0, 0, false)
	if got != Unresolved {
		t.Fatalf("two unrelated unknown operands should not fold, got %d", got)
	}
}

func TestCondZeroRHSUnsigned(t *testing.T) {
	if got := Cond(ir.CondLTU, ir.W32, false, true, 0, 0, false); got != 0 {
		t.Fatalf("x <u 0 is always false, got %d", got)
	}
	if got := Cond(ir.CondGEU, ir.W32, false, true, 0, 0, false); got != 1 {
		t.Fatalf("x >=u 0 is always true, got %d", got)
	}
}

func TestCond2DelegatesToScalar(t *testing.T) {
	a := Pair{Lo: 1, Hi: 0, LoConst: true, HiConst: true}
	b := Pair{Lo: 2, Hi: 0, LoConst: true, HiConst: true}
	got := Cond2(ir.CondLT, a, b, func() bool { return false })
	if got != 1 {
		t.Fatalf("Cond2 LT(1,2) = %d, want 1", got)
	}
}

func TestCond2ZeroRHS(t *testing.T) {
	a := Pair{Lo: 5, Hi: 0, LoConst: false, HiConst: false}
	b := Pair{Lo: 0, Hi: 0, LoConst: true, HiConst: true}
	if got := Cond2(ir.CondLTU, a, b, func() bool { return false }); got != 0 {
		t.Fatalf("a <u 0 is always false, got %d", got)
	}
}

func TestCond2EqualPairs(t *testing.T) {
	a := Pair{Lo: 1, Hi: 2}
	b := Pair{Lo: 3, Hi: 4}
	got := Cond2(ir.CondEQ, a, b, func() bool { return true })
	if got != 1 {
		t.Fatalf("Cond2 EQ on known-equal pairs should fold true, got %d", got)
	}
}

func TestUnsupportedOpcodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("folding Nop should panic: it is not a computable opcode")
		}
	}()
	Binary(ir.Nop, 0, 0)
}
