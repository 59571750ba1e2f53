package optimize

import (
	"github.com/kbatuzov/tcgpeep/pkg/fold"
	"github.com/kbatuzov/tcgpeep/pkg/ir"
	"github.com/kbatuzov/tcgpeep/pkg/state"
)

// foldMov implements the `mov` case: a self-copy becomes a nop; a
// constant source is rewritten to the equivalent `movi` (mirroring
// op_to_movi + tcg_opt_gen_movi in sequence); otherwise the move is kept
// and the copy class is updated.
func foldMov(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, src := int(a[0]), int(a[1])
	if tbl.AreCopies(dst, src) {
		opcodes[opIndex] = ir.Nop
		return genArgs
	}
	if tbl.Kind(src) != state.Const {
		tbl.MarkCopy(dst, src)
		return append(genArgs, a[0], a[1])
	}
	val := tbl.Value(src)
	opcodes[opIndex] = ir.MoviOf(op)
	tbl.MarkConst(dst, val)
	return append(genArgs, a[0], val)
}

func foldUnary(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, src := int(a[0]), int(a[1])
	if tbl.Kind(src) == state.Const {
		res := fold.Unary(op, tbl.Value(src))
		opcodes[opIndex] = ir.MoviOf(op)
		tbl.MarkConst(dst, res)
		return append(genArgs, a[0], res)
	}
	return doDefault(tbl, op, a, genArgs)
}

func foldBinary(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, x, y := int(a[0]), int(a[1]), int(a[2])
	if tbl.Kind(x) == state.Const && tbl.Kind(y) == state.Const {
		res := fold.Binary(op, tbl.Value(x), tbl.Value(y))
		opcodes[opIndex] = ir.MoviOf(op)
		tbl.MarkConst(dst, res)
		return append(genArgs, a[0], res)
	}
	return doDefault(tbl, op, a, genArgs)
}

func foldDeposit(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, x, y := int(a[0]), int(a[1]), int(a[2])
	if tbl.Kind(x) == state.Const && tbl.Kind(y) == state.Const {
		res := fold.Deposit(tbl.Value(x), tbl.Value(y), uint(a[3]), uint(a[4]))
		opcodes[opIndex] = ir.MoviOf(op)
		tbl.MarkConst(dst, res)
		return append(genArgs, a[0], res)
	}
	return doDefault(tbl, op, a, genArgs)
}

func foldSetcond(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, x, y := int(a[0]), int(a[1]), int(a[2])
	cond := ir.Cond(a[3])
	tmp := fold.Cond(cond, widthOf(op), tbl.Kind(x) == state.Const, tbl.Kind(y) == state.Const,
		tbl.Value(x), tbl.Value(y), tbl.AreCopies(x, y))
	if tmp != fold.Unresolved {
		opcodes[opIndex] = ir.MoviOf(op)
		tbl.MarkConst(dst, tmp)
		return append(genArgs, a[0], tmp)
	}
	return doDefault(tbl, op, a, genArgs)
}

func foldBrcond(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	x, y := int(a[0]), int(a[1])
	cond := ir.Cond(a[2])
	label := a[3]
	tmp := fold.Cond(cond, widthOf(op), tbl.Kind(x) == state.Const, tbl.Kind(y) == state.Const,
		tbl.Value(x), tbl.Value(y), tbl.AreCopies(x, y))
	if tmp != fold.Unresolved {
		if tmp == 1 {
			// The branch is always taken. The jump target may have
			// other predecessors, so everything tracked is now
			// stale.
			tbl.ResetAll()
			opcodes[opIndex] = ir.Br
			return append(genArgs, label)
		}
		opcodes[opIndex] = ir.Nop
		return genArgs
	}
	return doDefault(tbl, op, a, genArgs)
}

// selectOperand implements the `args[4-tmp]` indexing trick from the
// original source: tmp is the folded boolean (0 or 1), and the operand
// to keep is vtrue when the condition held, vfalse otherwise.
func selectOperand(tmp int64, vtrue, vfalse int64) int64 {
	if tmp == 1 {
		return vtrue
	}
	return vfalse
}

func foldMovcond(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst, x, y := int(a[0]), int(a[1]), int(a[2])
	vtrue, vfalse := a[3], a[4]
	cond := ir.Cond(a[5])
	tmp := fold.Cond(cond, widthOf(op), tbl.Kind(x) == state.Const, tbl.Kind(y) == state.Const,
		tbl.Value(x), tbl.Value(y), tbl.AreCopies(x, y))
	if tmp == fold.Unresolved {
		return doDefault(tbl, op, a, genArgs)
	}
	selected := int(selectOperand(tmp, vtrue, vfalse))
	switch {
	case tbl.AreCopies(dst, selected):
		opcodes[opIndex] = ir.Nop
	case tbl.Kind(selected) == state.Const:
		opcodes[opIndex] = ir.MoviOf(op)
		val := tbl.Value(selected)
		tbl.MarkConst(dst, val)
		return append(genArgs, a[0], val)
	default:
		opcodes[opIndex] = ir.MovOf(op)
		tbl.MarkCopy(dst, selected)
		return append(genArgs, a[0], int64(selected))
	}
	return genArgs
}

func foldAddSub2(tbl *state.Table, op ir.Opcode, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	rl, rh := a[0], a[1]
	al, ah, bl, bh := int(a[2]), int(a[3]), int(a[4]), int(a[5])
	if tbl.Kind(al) != state.Const || tbl.Kind(ah) != state.Const ||
		tbl.Kind(bl) != state.Const || tbl.Kind(bh) != state.Const {
		return doDefault(tbl, op, a, genArgs)
	}
	requireNopSlot(opcodes, opIndex)

	av := uint64(uint32(tbl.Value(al))) | uint64(uint32(tbl.Value(ah)))<<32
	bv := uint64(uint32(tbl.Value(bl))) | uint64(uint32(tbl.Value(bh)))<<32
	var r uint64
	if op == ir.Add2I32 {
		r = av + bv
	} else {
		r = av - bv
	}

	opcodes[opIndex] = ir.MoviI32
	opcodes[opIndex+1] = ir.MoviI32
	loVal := int64(uint32(r))
	hiVal := int64(uint32(r >> 32))
	tbl.MarkConst(int(rl), loVal)
	tbl.MarkConst(int(rh), hiVal)
	return append(genArgs, rl, loVal, rh, hiVal)
}

func foldMulu2(tbl *state.Table, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	rl, rh := a[0], a[1]
	x, y := int(a[2]), int(a[3])
	if tbl.Kind(x) != state.Const || tbl.Kind(y) != state.Const {
		return doDefault(tbl, ir.Mulu2I32, a, genArgs)
	}
	requireNopSlot(opcodes, opIndex)

	r := uint64(uint32(tbl.Value(x))) * uint64(uint32(tbl.Value(y)))
	opcodes[opIndex] = ir.MoviI32
	opcodes[opIndex+1] = ir.MoviI32
	loVal := int64(uint32(r))
	hiVal := int64(uint32(r >> 32))
	tbl.MarkConst(int(rl), loVal)
	tbl.MarkConst(int(rh), hiVal)
	return append(genArgs, rl, loVal, rh, hiVal)
}

func pairOf(tbl *state.Table, lo, hi int) fold.Pair {
	return fold.Pair{
		Lo: tbl.Value(lo), Hi: tbl.Value(hi),
		LoConst: tbl.Kind(lo) == state.Const, HiConst: tbl.Kind(hi) == state.Const,
	}
}

func foldBrcond2(tbl *state.Table, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	al, ah, bl, bh := int(a[0]), int(a[1]), int(a[2]), int(a[3])
	cond := ir.Cond(a[4])
	label := a[5]

	tmp := fold.Cond2(cond, pairOf(tbl, al, ah), pairOf(tbl, bl, bh), func() bool {
		return tbl.AreCopies(al, bl) && tbl.AreCopies(ah, bh)
	})
	switch {
	case tmp != fold.Unresolved:
		if tmp == 1 {
			tbl.ResetAll()
			opcodes[opIndex] = ir.Br
			return append(genArgs, label)
		}
		opcodes[opIndex] = ir.Nop
		return genArgs

	case (cond == ir.CondLT || cond == ir.CondGE) &&
		tbl.Kind(bl) == state.Const && tbl.Kind(bh) == state.Const &&
		tbl.Value(bl) == 0 && tbl.Value(bh) == 0:
		// Only the high word's sign matters for a signed
		// less-than/greater-or-equal compare against zero.
		tbl.ResetAll()
		opcodes[opIndex] = ir.BrcondI32
		return append(genArgs, int64(ah), int64(bh), int64(cond), label)

	default:
		return doDefault(tbl, ir.Brcond2I32, a, genArgs)
	}
}

func foldSetcond2(tbl *state.Table, a []int64, opcodes []ir.Opcode, opIndex int, genArgs []int64) []int64 {
	dst := a[0]
	al, ah, bl, bh := int(a[1]), int(a[2]), int(a[3]), int(a[4])
	cond := ir.Cond(a[5])

	tmp := fold.Cond2(cond, pairOf(tbl, al, ah), pairOf(tbl, bl, bh), func() bool {
		return tbl.AreCopies(al, bl) && tbl.AreCopies(ah, bh)
	})
	switch {
	case tmp != fold.Unresolved:
		opcodes[opIndex] = ir.MoviI32
		tbl.MarkConst(int(dst), tmp)
		return append(genArgs, dst, tmp)

	case (cond == ir.CondLT || cond == ir.CondGE) &&
		tbl.Kind(bl) == state.Const && tbl.Kind(bh) == state.Const &&
		tbl.Value(bl) == 0 && tbl.Value(bh) == 0:
		opcodes[opIndex] = ir.SetcondI32
		tbl.Reset(int(dst))
		return append(genArgs, dst, int64(ah), int64(bh), int64(cond))

	default:
		return doDefault(tbl, ir.Setcond2I32, a, genArgs)
	}
}

// foldCall invalidates globals (unless the call promises it never writes
// them) and all output temps, then copies the call's argument block
// through verbatim — the block is opaque to the optimizer.
func foldCall(ctx *ir.Context, tbl *state.Table, a []int64, genArgs []int64) []int64 {
	nbOuts, nbIns := ir.CallHeader(a[0])
	flags := ir.CallFlag(a[nbOuts+nbIns+1])

	if flags&ir.NoWriteGlobals == 0 {
		tbl.ResetGlobals(ctx.NbGlobals)
	}
	for i := 1; i <= nbOuts; i++ {
		tbl.Reset(int(a[i]))
	}
	return append(genArgs, a...)
}
