package optimize

import (
	"github.com/kbatuzov/tcgpeep/pkg/ir"
	"github.com/kbatuzov/tcgpeep/pkg/state"
)

// isConstFn is a small closure type used throughout canonicalization and
// the driver to ask the state table whether a temp id currently holds a
// known constant.
type isConstFn func(t int) bool

// swapCommutative swaps *p1/*p2 in place so a known constant operand (if
// any) ends up second, with a tie-break preferring the form `op a, a, b`
// (dest equals the first operand) when neither side is constant — this
// helps non-RISC hosts that want a two-operand encoding. Reports whether
// it swapped.
func swapCommutative(dest int, p1, p2 *int, isConst isConstFn) bool {
	a1, a2 := *p1, *p2
	sum := 0
	if isConst(a1) {
		sum++
	}
	if isConst(a2) {
		sum--
	}
	if sum > 0 || (sum == 0 && dest == a2) {
		*p1, *p2 = a2, a1
		return true
	}
	return false
}

// swapCommutative2 swaps the two-word pairs p1=(p1[0],p1[1]) and
// p2=(p2[0],p2[1]) in place when the right pair holds strictly more
// constants than the left, for the pair-compare opcodes. Reports whether
// it swapped.
func swapCommutative2(p1, p2 []int, isConst isConstFn) bool {
	sum := 0
	if isConst(p1[0]) {
		sum++
	}
	if isConst(p1[1]) {
		sum++
	}
	if isConst(p2[0]) {
		sum--
	}
	if isConst(p2[1]) {
		sum--
	}
	if sum > 0 {
		p1[0], p2[0] = p2[0], p1[0]
		p1[1], p2[1] = p2[1], p1[1]
		return true
	}
	return false
}

// canonicalize reorders operands of commutative and comparator-carrying
// ops so a single constant operand is always second, per §4.3. args is
// mutated in place.
func canonicalize(op ir.Opcode, args []int64, isConst isConstFn) {
	c := func(i int) int { return int(args[i]) }
	set := func(i, v int) { args[i] = int64(v) }

	switch op {
	case ir.AddI32, ir.AddI64, ir.MulI32, ir.MulI64,
		ir.AndI32, ir.AndI64, ir.OrI32, ir.OrI64, ir.XorI32, ir.XorI64,
		ir.EqvI32, ir.EqvI64, ir.NandI32, ir.NandI64, ir.NorI32, ir.NorI64:
		a1, a2 := c(1), c(2)
		if swapCommutative(c(0), &a1, &a2, isConst) {
			set(1, a1)
			set(2, a2)
		}

	case ir.BrcondI32, ir.BrcondI64:
		a0, a1 := c(0), c(1)
		if swapCommutative(-1, &a0, &a1, isConst) {
			set(0, a0)
			set(1, a1)
			args[2] = int64(ir.SwapCond(ir.Cond(args[2])))
		}

	case ir.SetcondI32, ir.SetcondI64:
		a1, a2 := c(1), c(2)
		if swapCommutative(c(0), &a1, &a2, isConst) {
			set(1, a1)
			set(2, a2)
			args[3] = int64(ir.SwapCond(ir.Cond(args[3])))
		}

	case ir.MovcondI32, ir.MovcondI64:
		// First, canonicalize the comparison's own operand pair.
		a1, a2 := c(1), c(2)
		if swapCommutative(-1, &a1, &a2, isConst) {
			set(1, a1)
			set(2, a2)
			args[5] = int64(ir.SwapCond(ir.Cond(args[5])))
		}
		// Then canonicalize the true/false value pair toward the
		// destination register; a swap here inverts rather than
		// swaps the comparator, so the backend can implement this as
		// "move if true" with the false value pre-loaded into dst.
		a4, a3 := c(4), c(3)
		if swapCommutative(c(0), &a4, &a3, isConst) {
			set(4, a4)
			set(3, a3)
			args[5] = int64(ir.InvertCond(ir.Cond(args[5])))
		}

	case ir.Add2I32:
		al, bl := c(2), c(4)
		if swapCommutative(c(0), &al, &bl, isConst) {
			set(2, al)
			set(4, bl)
		}
		ah, bh := c(3), c(5)
		if swapCommutative(c(1), &ah, &bh, isConst) {
			set(3, ah)
			set(5, bh)
		}

	case ir.Mulu2I32:
		a, b := c(2), c(3)
		if swapCommutative(c(0), &a, &b, isConst) {
			set(2, a)
			set(3, b)
		}

	case ir.Brcond2I32:
		p1 := []int{c(0), c(1)}
		p2 := []int{c(2), c(3)}
		if swapCommutative2(p1, p2, isConst) {
			set(0, p1[0])
			set(1, p1[1])
			set(2, p2[0])
			set(3, p2[1])
			args[4] = int64(ir.SwapCond(ir.Cond(args[4])))
		}

	case ir.Setcond2I32:
		p1 := []int{c(1), c(2)}
		p2 := []int{c(3), c(4)}
		if swapCommutative2(p1, p2, isConst) {
			set(1, p1[0])
			set(2, p1[1])
			set(3, p2[0])
			set(4, p2[1])
			args[5] = int64(ir.SwapCond(ir.Cond(args[5])))
		}
	}
}

// constCheck builds an isConstFn bound to a specific state table.
func constCheck(tbl *state.Table) isConstFn {
	return func(t int) bool { return tbl.Kind(t) == state.Const }
}
