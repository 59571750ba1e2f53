package optimize

import (
	"fmt"

	"github.com/kbatuzov/tcgpeep/pkg/ir"
)

// OptimizerError reports a violated contract between the front end and
// the optimizer: a malformed input stream or a bug in the pass itself.
// Per spec there is no recovery path for these — they are always
// programmer errors, not user-facing failures — so they surface as
// panics carrying this type rather than returned errors.
type OptimizerError struct {
	Op  string
	Msg string
}

func (e *OptimizerError) Error() string {
	return fmt.Sprintf("optimize: %s: %s", e.Op, e.Msg)
}

func fail(op, format string, args ...any) {
	panic(&OptimizerError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// requireNopSlot panics if the opcode stream does not have a nop sitting
// in the slot immediately after op_index, the layout add2/sub2/mulu2
// rely on to stash their second result word.
func requireNopSlot(opcodes []ir.Opcode, opIndex int) {
	if opIndex+1 >= len(opcodes) || opcodes[opIndex+1] != ir.Nop {
		fail("pair-fold", "op %d expects a nop slot at %d to hold the second result", opIndex, opIndex+1)
	}
}
