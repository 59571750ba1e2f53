package fold

import "github.com/kbatuzov/tcgpeep/pkg/ir"

// Unresolved is the sentinel returned by Cond/Cond2 when the comparison
// cannot be folded at compile time.
const Unresolved = 2

// scalar32 evaluates a comparator over two known 32-bit operands.
func scalar32(x, y uint32, c ir.Cond) bool {
	switch c {
	case ir.CondEQ:
		return x == y
	case ir.CondNE:
		return x != y
	case ir.CondLT:
		return int32(x) < int32(y)
	case ir.CondGE:
		return int32(x) >= int32(y)
	case ir.CondLE:
		return int32(x) <= int32(y)
	case ir.CondGT:
		return int32(x) > int32(y)
	case ir.CondLTU:
		return x < y
	case ir.CondGEU:
		return x >= y
	case ir.CondLEU:
		return x <= y
	case ir.CondGTU:
		return x > y
	default:
		panic("fold: invalid Cond")
	}
}

// scalar64 evaluates a comparator over two known 64-bit operands.
func scalar64(x, y uint64, c ir.Cond) bool {
	switch c {
	case ir.CondEQ:
		return x == y
	case ir.CondNE:
		return x != y
	case ir.CondLT:
		return int64(x) < int64(y)
	case ir.CondGE:
		return int64(x) >= int64(y)
	case ir.CondLE:
		return int64(x) <= int64(y)
	case ir.CondGT:
		return int64(x) > int64(y)
	case ir.CondLTU:
		return x < y
	case ir.CondGEU:
		return x >= y
	case ir.CondLEU:
		return x <= y
	case ir.CondGTU:
		return x > y
	default:
		panic("fold: invalid Cond")
	}
}

// boolInt converts a Go bool to the IR's 0/1 representation.
func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// CondEqualResult returns the value c takes when its two operands are
// known equal: EQ/LE/GE/LEU/GEU are satisfied, NE/LT/GT/LTU/GTU are not.
func CondEqualResult(c ir.Cond) int64 {
	switch c {
	case ir.CondGT, ir.CondLTU, ir.CondLT, ir.CondGTU, ir.CondNE:
		return 0
	case ir.CondGE, ir.CondGEU, ir.CondLE, ir.CondLEU, ir.CondEQ:
		return 1
	default:
		panic("fold: invalid Cond")
	}
}

// Cond folds `x c y` at the given width when possible. xConst/yConst
// report whether x/y are known constants (with xVal/yVal their values);
// xyEqual reports whether x and y are known to hold the same value
// (same temp or same copy class) regardless of constant-ness.
//
// Returns Unresolved if the comparison cannot be decided statically.
func Cond(c ir.Cond, width ir.Width, xConst, yConst bool, xVal, yVal int64, xyEqual bool) int64 {
	switch {
	case xConst && yConst:
		if width == ir.W64 {
			return boolInt(scalar64(uint64(xVal), uint64(yVal), c))
		}
		return boolInt(scalar32(uint32(xVal), uint32(yVal), c))
	case xyEqual:
		return CondEqualResult(c)
	case yConst && yVal == 0:
		switch c {
		case ir.CondLTU:
			return 0
		case ir.CondGEU:
			return 1
		default:
			return Unresolved
		}
	default:
		return Unresolved
	}
}

// Pair describes one 32-bit-halves operand to Cond2: the low and high
// words, and whether each half is a known constant.
type Pair struct {
	Lo, Hi         int64
	LoConst, HiConst bool
}

// Cond2 folds a 64-bit comparison expressed as two 32-bit-pair operands
// on a 32-bit host, per the pair-comparator rules: if b is fully
// constant, either delegate to the 64-bit scalar comparator (a also
// constant) or apply the zero rules (b == 0); otherwise, if both halves
// of a and b are pairwise known-equal, apply the equality rules.
func Cond2(c ir.Cond, a, b Pair, aEqualB func() bool) int64 {
	if b.LoConst && b.HiConst {
		bv := uint64(uint32(b.Hi))<<32 | uint64(uint32(b.Lo))
		if a.LoConst && a.HiConst {
			av := uint64(uint32(a.Hi))<<32 | uint64(uint32(a.Lo))
			return boolInt(scalar64(av, bv, c))
		}
		if bv == 0 {
			switch c {
			case ir.CondLTU:
				return 0
			case ir.CondGEU:
				return 1
			}
		}
	}
	if aEqualB() {
		return CondEqualResult(c)
	}
	return Unresolved
}
