// Package optimize implements the peephole optimizer's single-pass
// driver: it walks an op/arg stream, rewrites uses toward the best copy
// representative, canonicalizes commutative operands, applies the
// identity simplifier, folds constant expressions, and invalidates
// tracked state at calls and basic-block terminators. See the package
// doc comments on Optimize for the external contract.
package optimize

import (
	"github.com/kbatuzov/tcgpeep/pkg/ir"
	"github.com/kbatuzov/tcgpeep/pkg/state"
)

// Optimize rewrites prog in place: prog.Opcodes keeps its length (nops
// replace removed ops so positions stay meaningful to the caller), and
// the returned argument slice is the compacted replacement for
// prog.Args — it is never longer, and the caller should use it in place
// of prog.Args afterward.
//
// ctx describes the temporary namespace prog runs over: globals occupy
// ids [0, ctx.NbGlobals), the rest of ctx.Temps describes locals and
// anonymous temps. The state table is allocated fresh for this call and
// discarded on return.
func Optimize(ctx *ir.Context, prog *ir.Program) []int64 {
	args, _ := OptimizeTrace(ctx, prog)
	return args
}

// OptimizeTrace behaves exactly like Optimize but also returns the state
// table as it stood at the end of the pass, for callers that want to
// render what the optimizer believed about every temp (the CLI's
// `trace` subcommand).
func OptimizeTrace(ctx *ir.Context, prog *ir.Program) ([]int64, *state.Table) {
	tbl := state.New(ctx.NbTemps)
	isConst := constCheck(tbl)
	isLocal := func(t int) bool { return ctx.Desc(t).IsLocal() }

	genArgs := make([]int64, 0, len(prog.Args))
	readPos := 0

	opcodes := prog.Opcodes
	args := prog.Args

	for opIndex := 0; opIndex < len(opcodes); opIndex++ {
		op := opcodes[opIndex]

		var nArgs int
		var nbOuts, nbIns int
		isCall := op == ir.Call
		if isCall {
			nbOuts, nbIns = ir.CallHeader(args[readPos])
			nArgs = ir.CallArgCount(nbOuts, nbIns)
		} else {
			nArgs = ir.Defs[op].NbArgs
		}
		a := args[readPos : readPos+nArgs]

		// Step 1: copy-propagate input uses toward the best
		// representative.
		if isCall {
			for i := nbOuts + 1; i < nbOuts+nbIns+1; i++ {
				if tbl.Kind(int(a[i])) == state.CopyOf {
					a[i] = int64(tbl.FindBetter(int(a[i]), ctx.NbGlobals, isLocal))
				}
			}
		} else {
			def := ir.Defs[op]
			for i := def.NbOArgs; i < def.NbOArgs+def.NbIArgs; i++ {
				if tbl.Kind(int(a[i])) == state.CopyOf {
					a[i] = int64(tbl.FindBetter(int(a[i]), ctx.NbGlobals, isLocal))
				}
			}
		}

		if !isCall {
			// Step 2: canonicalize commutative/comparator operands.
			canonicalize(op, a, isConst)

			// Step 3: shift/rotate by a known-zero amount.
			//
			// This inspects a[1], the shift's *value* operand in the
			// 3-operand (dst, value, amount) convention, not a[2]
			// (the amount) — preserved exactly as the rule the
			// original source implements; see DESIGN.md for why it
			// is kept rather than "corrected".
			if isShiftOrRotate(op) && tbl.Kind(int(a[1])) == state.Const && tbl.Value(int(a[1])) == 0 {
				dst := int(a[0])
				opcodes[opIndex] = ir.MoviOf(op)
				tbl.MarkConst(dst, 0)
				genArgs = append(genArgs, int64(dst), 0)
				readPos += nArgs
				continue
			}

			// Step 4: `op r, a, 0 => mov r, a` (or nop if r already
			// aliases a).
			if isAbsorbingRightZero(op) && tbl.Kind(int(a[1])) != state.Const {
				if tbl.Kind(int(a[2])) == state.Const && tbl.Value(int(a[2])) == 0 {
					dst, src := int(a[0]), int(a[1])
					if tbl.AreCopies(dst, src) {
						opcodes[opIndex] = ir.Nop
					} else {
						opcodes[opIndex] = ir.MovOf(op)
						genArgs = append(genArgs, int64(dst), int64(src))
						tbl.MarkCopy(dst, src)
					}
					readPos += nArgs
					continue
				}
			}

			// Step 5: `op r, a, 0 => movi r, 0`.
			if isRightZeroAnnihilator(op) && tbl.Kind(int(a[2])) == state.Const && tbl.Value(int(a[2])) == 0 {
				dst := int(a[0])
				opcodes[opIndex] = ir.MoviOf(op)
				tbl.MarkConst(dst, 0)
				genArgs = append(genArgs, int64(dst), 0)
				readPos += nArgs
				continue
			}

			// Step 6: `op r, a, a => mov r, a` (or nop). A constant a
			// is left to constant folding below, since MarkCopy may not
			// source a Const temp.
			if isIdempotent(op) && tbl.Kind(int(a[1])) != state.Const && tbl.AreCopies(int(a[1]), int(a[2])) {
				dst, src := int(a[0]), int(a[1])
				if tbl.AreCopies(dst, src) {
					opcodes[opIndex] = ir.Nop
				} else {
					opcodes[opIndex] = ir.MovOf(op)
					genArgs = append(genArgs, int64(dst), int64(src))
					tbl.MarkCopy(dst, src)
				}
				readPos += nArgs
				continue
			}

			// Step 7: `op r, a, a => movi r, 0`.
			if isSelfAnnihilating(op) && tbl.AreCopies(int(a[1]), int(a[2])) {
				dst := int(a[0])
				opcodes[opIndex] = ir.MoviOf(op)
				tbl.MarkConst(dst, 0)
				genArgs = append(genArgs, int64(dst), 0)
				readPos += nArgs
				continue
			}
		}

		// Step 8: fold and propagate, or invalidate state.
		switch {
		case isCall:
			genArgs = foldCall(ctx, tbl, a, genArgs)
			readPos += nArgs

		case op == ir.MovI32 || op == ir.MovI64:
			genArgs = foldMov(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.MoviI32 || op == ir.MoviI64:
			tbl.MarkConst(int(a[0]), a[1])
			genArgs = append(genArgs, a[0], a[1])
			readPos += nArgs

		case isUnaryComputable(op):
			genArgs = foldUnary(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case isBinaryComputable(op):
			genArgs = foldBinary(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.DepositI32 || op == ir.DepositI64:
			genArgs = foldDeposit(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.SetcondI32 || op == ir.SetcondI64:
			genArgs = foldSetcond(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.BrcondI32 || op == ir.BrcondI64:
			genArgs = foldBrcond(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.MovcondI32 || op == ir.MovcondI64:
			genArgs = foldMovcond(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.Add2I32 || op == ir.Sub2I32:
			genArgs = foldAddSub2(tbl, op, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.Mulu2I32:
			genArgs = foldMulu2(tbl, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.Brcond2I32:
			genArgs = foldBrcond2(tbl, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		case op == ir.Setcond2I32:
			genArgs = foldSetcond2(tbl, a, opcodes, opIndex, genArgs)
			readPos += nArgs

		default:
			genArgs = doDefault(tbl, op, a, genArgs)
			readPos += nArgs
		}

		// add2/sub2/mulu2 consume the trailing nop slot as their
		// second movi; skip re-processing it.
		if (op == ir.Add2I32 || op == ir.Sub2I32 || op == ir.Mulu2I32) && opcodes[opIndex] == ir.MoviI32 {
			opIndex++
		}
	}

	return genArgs, tbl
}

// doDefault implements the fallback case: the operation's effect on
// temp state is unknown (or was not computable), so no propagation
// happens. A basic-block terminator invalidates everything; anything
// else just invalidates its own outputs. The op and its arguments are
// copied through verbatim.
func doDefault(tbl *state.Table, op ir.Opcode, a []int64, genArgs []int64) []int64 {
	if ir.IsBBEnd(op) {
		tbl.ResetAll()
	} else {
		def := ir.Defs[op]
		for i := 0; i < def.NbOArgs; i++ {
			tbl.Reset(int(a[i]))
		}
	}
	return append(genArgs, a...)
}

func isUnaryComputable(op ir.Opcode) bool {
	switch op {
	case ir.NotI32, ir.NotI64, ir.NegI32, ir.NegI64,
		ir.Ext8sI32, ir.Ext8sI64, ir.Ext8uI32, ir.Ext8uI64,
		ir.Ext16sI32, ir.Ext16sI64, ir.Ext16uI32, ir.Ext16uI64,
		ir.Ext32sI64, ir.Ext32uI64:
		return true
	default:
		return false
	}
}

func isBinaryComputable(op ir.Opcode) bool {
	switch op {
	case ir.AddI32, ir.AddI64, ir.SubI32, ir.SubI64, ir.MulI32, ir.MulI64,
		ir.OrI32, ir.OrI64, ir.AndI32, ir.AndI64, ir.XorI32, ir.XorI64,
		ir.ShlI32, ir.ShlI64, ir.ShrI32, ir.ShrI64, ir.SarI32, ir.SarI64,
		ir.RotlI32, ir.RotlI64, ir.RotrI32, ir.RotrI64,
		ir.AndcI32, ir.AndcI64, ir.OrcI32, ir.OrcI64, ir.EqvI32, ir.EqvI64,
		ir.NandI32, ir.NandI64, ir.NorI32, ir.NorI64:
		return true
	default:
		return false
	}
}

func widthOf(op ir.Opcode) ir.Width {
	if ir.Is64(op) {
		return ir.W64
	}
	return ir.W32
}
