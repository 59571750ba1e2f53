// Package interp provides a reference interpreter for the optimizer's IR,
// used to check that a rewritten program still computes the same values
// as the one it replaced — the same role the teacher's pkg/cpu.Exec plays
// for verifying Z80 instruction-sequence equivalence.
package interp

import (
	"fmt"

	"github.com/kbatuzov/tcgpeep/pkg/fold"
	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

// Machine is the interpreter's mutable state: one int64 slot per temp.
type Machine struct {
	Temps []int64
}

// NewMachine allocates a machine with nbTemps temp slots, all zero.
func NewMachine(nbTemps int) *Machine {
	return &Machine{Temps: make([]int64, nbTemps)}
}

// Run executes prog to completion starting from m's current temp values.
// A branch target is already an op-stream position (the front end emits
// labels that way; there is no separate label-to-position resolution
// step here). Call is opaque: it sets each of its declared outputs to
// zero and has no other effect (the optimizer never sees what a real
// call computes, so neither does this reference interpreter — it only
// needs to agree with the optimizer about which temps are invalidated,
// not what they become).
func Run(ctx *ir.Context, prog *ir.Program, m *Machine) {
	pos := 0
	argPos := 0
	argPosOf := make([]int, len(prog.Opcodes)+1)
	argPosOf[0] = 0
	for i, op := range prog.Opcodes {
		n := argCount(prog, op, argPos)
		argPos += n
		argPosOf[i+1] = argPos
	}

	argPos = 0
	for pos < len(prog.Opcodes) {
		op := prog.Opcodes[pos]
		start := argPosOf[pos]
		end := argPosOf[pos+1]
		a := prog.Args[start:end]

		next := pos + 1
		switch {
		case op == ir.Nop:
		case op == ir.Br:
			next = int(a[0])
		case op == ir.Call:
			nbOuts, _ := ir.CallHeader(a[0])
			for i := 1; i <= nbOuts; i++ {
				m.Temps[a[i]] = 0
			}
		case op == ir.MovI32 || op == ir.MovI64:
			m.Temps[a[0]] = m.Temps[a[1]]
		case op == ir.MoviI32:
			m.Temps[a[0]] = ir.TruncTo32(a[1])
		case op == ir.MoviI64:
			m.Temps[a[0]] = a[1]
		case isUnary(op):
			m.Temps[a[0]] = fold.Unary(op, m.Temps[a[1]])
		case isBinary(op):
			m.Temps[a[0]] = fold.Binary(op, m.Temps[a[1]], m.Temps[a[2]])
		case op == ir.DepositI32 || op == ir.DepositI64:
			m.Temps[a[0]] = fold.Deposit(m.Temps[a[1]], m.Temps[a[2]], uint(a[3]), uint(a[4]))
		case op == ir.SetcondI32 || op == ir.SetcondI64:
			m.Temps[a[0]] = evalCond(ir.Cond(a[3]), widthOf(op), m.Temps[a[1]], m.Temps[a[2]])
		case op == ir.BrcondI32 || op == ir.BrcondI64:
			if evalCond(ir.Cond(a[2]), widthOf(op), m.Temps[a[0]], m.Temps[a[1]]) == 1 {
				next = int(a[3])
			}
		case op == ir.MovcondI32 || op == ir.MovcondI64:
			if evalCond(ir.Cond(a[5]), widthOf(op), m.Temps[a[1]], m.Temps[a[2]]) == 1 {
				m.Temps[a[0]] = m.Temps[a[3]]
			} else {
				m.Temps[a[0]] = m.Temps[a[4]]
			}
		case op == ir.Add2I32 || op == ir.Sub2I32:
			av := uint64(uint32(m.Temps[a[2]])) | uint64(uint32(m.Temps[a[3]]))<<32
			bv := uint64(uint32(m.Temps[a[4]])) | uint64(uint32(m.Temps[a[5]]))<<32
			var r uint64
			if op == ir.Add2I32 {
				r = av + bv
			} else {
				r = av - bv
			}
			m.Temps[a[0]] = int64(uint32(r))
			m.Temps[a[1]] = int64(uint32(r >> 32))
		case op == ir.Mulu2I32:
			r := uint64(uint32(m.Temps[a[2]])) * uint64(uint32(m.Temps[a[3]]))
			m.Temps[a[0]] = int64(uint32(r))
			m.Temps[a[1]] = int64(uint32(r >> 32))
		case op == ir.Brcond2I32:
			av := uint64(uint32(m.Temps[a[0]])) | uint64(uint32(m.Temps[a[1]]))<<32
			bv := uint64(uint32(m.Temps[a[2]])) | uint64(uint32(m.Temps[a[3]]))<<32
			if evalCond64(ir.Cond(a[4]), av, bv) {
				next = int(a[5])
			}
		case op == ir.Setcond2I32:
			av := uint64(uint32(m.Temps[a[1]])) | uint64(uint32(m.Temps[a[2]]))<<32
			bv := uint64(uint32(m.Temps[a[3]])) | uint64(uint32(m.Temps[a[4]]))<<32
			m.Temps[a[0]] = 0
			if evalCond64(ir.Cond(a[5]), av, bv) {
				m.Temps[a[0]] = 1
			}
		default:
			panic(fmt.Sprintf("interp: unhandled opcode %d", op))
		}
		pos = next
	}
}

func widthOf(op ir.Opcode) ir.Width {
	if ir.Is64(op) {
		return ir.W64
	}
	return ir.W32
}

func evalCond(c ir.Cond, width ir.Width, x, y int64) int64 {
	res := fold.Cond(c, width, true, true, x, y, x == y)
	if res == fold.Unresolved {
		panic("interp: condition unexpectedly unresolved with concrete operands")
	}
	return res
}

func evalCond64(c ir.Cond, a, b uint64) bool {
	res := fold.Cond(c, ir.W64, true, true, int64(a), int64(b), a == b)
	return res == 1
}

func isUnary(op ir.Opcode) bool {
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

func isBinary(op ir.Opcode) bool {
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

// argCount returns the number of argument slots op occupies, given the
// current cursor into args (needed only to decode Call's header).
func argCount(prog *ir.Program, op ir.Opcode, argPos int) int {
	if op == ir.Call {
		nbOuts, nbIns := ir.CallHeader(prog.Args[argPos])
		return ir.CallArgCount(nbOuts, nbIns)
	}
	return ir.Defs[op].NbArgs
}
