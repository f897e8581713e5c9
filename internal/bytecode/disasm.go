package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a chunk (and its nested function chunks) in a
// human-readable listing for the compile --disasm path and debugging.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	lastLine := -1
	for idx, inst := range chunk.Code {
		line := 0
		if idx < len(chunk.Lines) {
			line = chunk.Lines[idx]
		}
		if line == lastLine {
			fmt.Fprintf(&sb, "%04d    | ", idx)
		} else {
			fmt.Fprintf(&sb, "%04d %4d ", idx, line)
			lastLine = line
		}

		if inst.Op.HasOperand() {
			fmt.Fprintf(&sb, "%-18s %4d", inst.Op, inst.Arg)
			if isConstantOp(inst.Op) && int(inst.Arg) < len(chunk.Constants) {
				fmt.Fprintf(&sb, " '%s'", chunk.Constants[inst.Arg].ToOutput())
			}
			sb.WriteByte('\n')
		} else {
			fmt.Fprintf(&sb, "%s\n", inst.Op)
		}
	}

	for _, c := range chunk.Constants {
		if c.Kind == VMFunctionKind {
			sb.WriteByte('\n')
			sb.WriteString(Disassemble(c.Fn.Chunk, c.Fn.Name))
		}
	}
	return sb.String()
}

func isConstantOp(op OpCode) bool {
	switch op {
	case OpConstant, OpGetGlobal, OpSetGlobal, OpGetPropertyIC:
		return true
	}
	return false
}
