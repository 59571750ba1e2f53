package ir

// def is a small builder used only while populating Defs below; it keeps
// the table declarative instead of forty repeated struct literals.
func def(oargs, iargs, nargs int, flags OpFlag) OpDef {
	return OpDef{NbOArgs: oargs, NbIArgs: iargs, NbArgs: nargs, Flags: flags}
}

func init() {
	Defs[Nop] = def(0, 0, 0, 0)
	Defs[Br] = def(0, 0, 1, BBEnd)
	// Call's shape is variadic and decoded from its header word at
	// runtime (see CallHeader); the table entry exists only so callers
	// can range over Defs without a special case crashing.
	Defs[Call] = def(0, 0, 0, 0)

	Defs[MovI32] = def(1, 1, 2, 0)
	Defs[MovI64] = def(1, 1, 2, Bits64)
	Defs[MoviI32] = def(1, 0, 2, 0)
	Defs[MoviI64] = def(1, 0, 2, Bits64)

	for _, w := range []struct {
		op32, op64 Opcode
	}{
		{AddI32, AddI64}, {SubI32, SubI64}, {MulI32, MulI64},
		{AndI32, AndI64}, {OrI32, OrI64}, {XorI32, XorI64},
		{AndcI32, AndcI64}, {OrcI32, OrcI64}, {EqvI32, EqvI64},
		{NandI32, NandI64}, {NorI32, NorI64},
		{ShlI32, ShlI64}, {ShrI32, ShrI64}, {SarI32, SarI64},
		{RotlI32, RotlI64}, {RotrI32, RotrI64},
	} {
		Defs[w.op32] = def(1, 2, 3, 0)
		Defs[w.op64] = def(1, 2, 3, Bits64)
	}

	for _, w := range []struct {
		op32, op64 Opcode
	}{
		{NotI32, NotI64}, {NegI32, NegI64},
		{Ext8sI32, Ext8sI64}, {Ext8uI32, Ext8uI64},
		{Ext16sI32, Ext16sI64}, {Ext16uI32, Ext16uI64},
	} {
		Defs[w.op32] = def(1, 1, 2, 0)
		Defs[w.op64] = def(1, 1, 2, Bits64)
	}
	Defs[Ext32sI64] = def(1, 1, 2, Bits64)
	Defs[Ext32uI64] = def(1, 1, 2, Bits64)

	Defs[DepositI32] = def(1, 2, 5, 0) // dst, a, b, ofs, len
	Defs[DepositI64] = def(1, 2, 5, Bits64)

	Defs[SetcondI32] = def(1, 2, 4, 0) // dst, a, b, cond
	Defs[SetcondI64] = def(1, 2, 4, Bits64)
	Defs[BrcondI32] = def(0, 2, 4, BBEnd) // a, b, cond, label
	Defs[BrcondI64] = def(0, 2, 4, BBEnd|Bits64)
	Defs[MovcondI32] = def(1, 4, 6, 0) // dst, a, b, vtrue, vfalse, cond
	Defs[MovcondI64] = def(1, 4, 6, Bits64)

	Defs[Add2I32] = def(2, 4, 6, 0)    // rl, rh, al, ah, bl, bh
	Defs[Sub2I32] = def(2, 4, 6, 0)    // rl, rh, al, ah, bl, bh
	Defs[Mulu2I32] = def(2, 2, 4, 0)   // rl, rh, a, b
	Defs[Brcond2I32] = def(0, 4, 6, BBEnd) // al, ah, bl, bh, cond, label
	Defs[Setcond2I32] = def(1, 4, 6, 0)    // dst, al, ah, bl, bh, cond
}
