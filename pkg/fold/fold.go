// Package fold implements the optimizer's constant-folding kernel: pure
// functions computing the result of an arithmetic, logical, shift,
// rotate, extension, or comparison operation on known operands at 32 or
// 64-bit width. Nothing here touches temp state or the op stream; it is
// reused by the driver wherever all of an operation's inputs are known.
package fold

import (
	"fmt"

	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

// unsupported panics to report that folding was requested for an opcode
// the kernel does not recognize — per spec, a bug in the caller, not a
// recoverable condition.
func unsupported(op ir.Opcode) {
	panic(fmt.Sprintf("fold: unrecognized opcode %d for constant folding", op))
}

// Binary evaluates a two-operand opcode on known operands x, y, returning
// the width-truncated result (the low 32 bits are kept for 32-bit
// opcodes; a 64-bit opcode, per ir.Is64, keeps the full word).
func Binary(op ir.Opcode, x, y int64) int64 {
	res := binaryWide(op, x, y)
	if !ir.Is64(op) {
		return ir.TruncTo32(res)
	}
	return res
}

func binaryWide(op ir.Opcode, x, y int64) int64 {
	switch op {
	case ir.AddI32, ir.AddI64:
		return x + y
	case ir.SubI32, ir.SubI64:
		return x - y
	case ir.MulI32, ir.MulI64:
		return x * y
	case ir.AndI32, ir.AndI64:
		return x & y
	case ir.OrI32, ir.OrI64:
		return x | y
	case ir.XorI32, ir.XorI64:
		return x ^ y
	case ir.AndcI32, ir.AndcI64:
		return x &^ y
	case ir.OrcI32, ir.OrcI64:
		return x | ^y
	case ir.EqvI32, ir.EqvI64:
		return ^(x ^ y)
	case ir.NandI32, ir.NandI64:
		return ^(x & y)
	case ir.NorI32, ir.NorI64:
		return ^(x | y)

	case ir.ShlI32:
		return int64(uint32(x) << uint32(y))
	case ir.ShlI64:
		return int64(uint64(x) << uint64(y))
	case ir.ShrI32:
		return int64(uint32(x) >> uint32(y))
	case ir.ShrI64:
		return int64(uint64(x) >> uint64(y))
	case ir.SarI32:
		return int64(int32(x) >> uint32(y))
	case ir.SarI64:
		return int64(x) >> uint64(y)

	// Rotate amount is assumed in range [0, width) — the caller's
	// responsibility per the design notes; out-of-range input is a
	// malformed IR stream, not something this pure kernel guards
	// against.
	case ir.RotrI32:
		ux := uint32(x)
		uy := uint32(y)
		return int64(ux<<(32-uy) | ux>>uy)
	case ir.RotrI64:
		ux := uint64(x)
		uy := uint64(y)
		return int64(ux<<(64-uy) | ux>>uy)
	case ir.RotlI32:
		ux := uint32(x)
		uy := uint32(y)
		return int64(ux<<uy | ux>>(32-uy))
	case ir.RotlI64:
		ux := uint64(x)
		uy := uint64(y)
		return int64(ux<<uy | ux>>(64-uy))

	case ir.NotI32, ir.NotI64:
		return ^x
	case ir.NegI32, ir.NegI64:
		return -x

	case ir.Ext8sI32, ir.Ext8sI64:
		return int64(int8(x))
	case ir.Ext8uI32, ir.Ext8uI64:
		return int64(uint8(x))
	case ir.Ext16sI32, ir.Ext16sI64:
		return int64(int16(x))
	case ir.Ext16uI32, ir.Ext16uI64:
		return int64(uint16(x))
	case ir.Ext32sI64:
		return int64(int32(x))
	case ir.Ext32uI64:
		return int64(uint32(x))

	default:
		unsupported(op)
		return 0
	}
}

// Unary evaluates a single-operand opcode, a thin wrapper over Binary
// with y unused (the kernel below ignores it for unary opcodes).
func Unary(op ir.Opcode, x int64) int64 {
	return Binary(op, x, 0)
}

// Deposit computes `(a &^ (mask<<ofs)) | ((b & mask) << ofs)` where
// `mask = (1<<len)-1`, the value of `deposit dst, a, b, ofs, len`.
func Deposit(a, b int64, ofs, length uint) int64 {
	mask := int64((uint64(1) << length) - 1)
	return (a &^ (mask << ofs)) | ((b & mask) << ofs)
}
