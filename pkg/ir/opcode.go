// Package ir defines the three-address intermediate representation
// consumed by the peephole optimizer: opcodes, their argument shape, and
// the per-temporary descriptor table supplied by the front end.
package ir

// Opcode is a compact identifier for one IR operation. Unlike a raw
// front-end opcode, it already encodes the operand width (32 or 64-bit)
// where the operation is width-sensitive, mirroring how a real TCG-style
// IR keeps `_i32`/`_i64` as distinct opcodes rather than a single opcode
// plus a width field.
type Opcode uint16

const (
	// Control / bookkeeping.
	Nop Opcode = iota
	Br
	Call

	// Data movement.
	MovI32
	MovI64
	MoviI32
	MoviI64

	// Binary arithmetic.
	AddI32
	AddI64
	SubI32
	SubI64
	MulI32
	MulI64

	// Bitwise binary.
	AndI32
	AndI64
	OrI32
	OrI64
	XorI32
	XorI64
	AndcI32
	AndcI64
	OrcI32
	OrcI64
	EqvI32
	EqvI64
	NandI32
	NandI64
	NorI32
	NorI64

	// Shifts and rotates.
	ShlI32
	ShlI64
	ShrI32
	ShrI64
	SarI32
	SarI64
	RotlI32
	RotlI64
	RotrI32
	RotrI64

	// Unary.
	NotI32
	NotI64
	NegI32
	NegI64
	Ext8sI32
	Ext8sI64
	Ext8uI32
	Ext8uI64
	Ext16sI32
	Ext16sI64
	Ext16uI32
	Ext16uI64
	Ext32sI64
	Ext32uI64

	// Field extraction/insertion.
	DepositI32
	DepositI64

	// Comparisons.
	SetcondI32
	SetcondI64
	BrcondI32
	BrcondI64
	MovcondI32
	MovcondI64

	// 32-bit pairs simulating 64-bit operations on a 32-bit host.
	Add2I32
	Sub2I32
	Mulu2I32
	Brcond2I32
	Setcond2I32

	// OpcodeCount is a sentinel, one past the last valid opcode.
	OpcodeCount
)

// OpFlag is a bitmask of static properties of an opcode.
type OpFlag uint8

const (
	// BBEnd marks an opcode that terminates a basic block: all tracked
	// temp state is invalid past this point because the target of the
	// block may have other predecessors.
	BBEnd OpFlag = 1 << iota
	// Bits64 marks an opcode that operates at 64-bit width; absent, the
	// opcode operates at 32-bit width.
	Bits64
)

// OpDef is the static shape of one opcode: how many of its argument slots
// are outputs, how many are temp inputs, and the total slot count
// (outputs and inputs plus any trailing immediate/constant operands). Call is
// variadic and is not meaningfully described by a single OpDef; its
// shape is decoded from the IR at runtime (see CallHeader).
type OpDef struct {
	NbOArgs int
	NbIArgs int
	NbArgs  int
	Flags   OpFlag
}

// Defs indexes by Opcode and yields its static shape. Populated in
// defs.go.
var Defs [OpcodeCount]OpDef

// Is64 reports whether op operates at 64-bit width.
func Is64(op Opcode) bool {
	return Defs[op].Flags&Bits64 != 0
}

// IsBBEnd reports whether op unconditionally terminates a basic block.
func IsBBEnd(op Opcode) bool {
	return Defs[op].Flags&BBEnd != 0
}
