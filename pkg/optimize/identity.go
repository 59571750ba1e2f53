package optimize

import "github.com/kbatuzov/tcgpeep/pkg/ir"

// The identity simplifier collapses algebraic identities — `x op 0`,
// `x op x`, shifts of a known-zero amount — into a move, a constant
// move, or a nop, without needing to evaluate the operation at all. The
// driver applies these in the fixed order below, after canonicalization,
// before falling through to general constant folding.

// isShiftOrRotate reports whether op is one of shl/shr/sar/rotl/rotr at
// either width.
func isShiftOrRotate(op ir.Opcode) bool {
	switch op {
	case ir.ShlI32, ir.ShlI64, ir.ShrI32, ir.ShrI64, ir.SarI32, ir.SarI64,
		ir.RotlI32, ir.RotlI64, ir.RotrI32, ir.RotrI64:
		return true
	default:
		return false
	}
}

// isAbsorbingRightZero reports whether op treats a known-zero *second*
// operand as a no-op identity (`r = a`): add/sub/shifts/rotates/or/xor.
func isAbsorbingRightZero(op ir.Opcode) bool {
	switch op {
	case ir.AddI32, ir.AddI64, ir.SubI32, ir.SubI64,
		ir.ShlI32, ir.ShlI64, ir.ShrI32, ir.ShrI64, ir.SarI32, ir.SarI64,
		ir.RotlI32, ir.RotlI64, ir.RotrI32, ir.RotrI64,
		ir.OrI32, ir.OrI64, ir.XorI32, ir.XorI64:
		return true
	default:
		return false
	}
}

// isRightZeroAnnihilator reports whether op treats a known-zero second
// operand as forcing the whole result to zero: and/mul.
func isRightZeroAnnihilator(op ir.Opcode) bool {
	switch op {
	case ir.AndI32, ir.AndI64, ir.MulI32, ir.MulI64:
		return true
	default:
		return false
	}
}

// isIdempotent reports whether op with equal operands reduces to the
// operand itself: or/and.
func isIdempotent(op ir.Opcode) bool {
	switch op {
	case ir.OrI32, ir.OrI64, ir.AndI32, ir.AndI64:
		return true
	default:
		return false
	}
}

// isSelfAnnihilating reports whether op with equal operands reduces to
// zero: sub/xor.
func isSelfAnnihilating(op ir.Opcode) bool {
	switch op {
	case ir.SubI32, ir.SubI64, ir.XorI32, ir.XorI64:
		return true
	default:
		return false
	}
}
