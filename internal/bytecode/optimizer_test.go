package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-jsvm/internal/parser"
)

func TestConstantFoldReplacesTriple(t *testing.T) {
	chunk := NewChunk()
	a := chunk.AddConstant(VMNumberValue(2))
	b := chunk.AddConstant(VMNumberValue(3))
	chunk.Write(OpConstant, a, 1)
	chunk.Write(OpConstant, b, 1)
	chunk.Write(OpAdd, 0, 1)
	chunk.Write(OpPrint, 0, 1)

	ConstantFold(chunk)

	if chunk.Code[0].Op != OpConstant {
		t.Fatalf("first op = %s", chunk.Code[0].Op)
	}
	if chunk.Code[1].Op != OpNop || chunk.Code[2].Op != OpNop {
		t.Error("folded operands must become Nop")
	}
	folded := chunk.Constants[chunk.Code[0].Arg]
	if folded.Kind != VMNumber || folded.Num != 5 {
		t.Errorf("folded constant = %+v, want 5", folded)
	}
}

func TestConstantFoldSkipsDivisionByZero(t *testing.T) {
	chunk := NewChunk()
	a := chunk.AddConstant(VMNumberValue(1))
	b := chunk.AddConstant(VMNumberValue(0))
	chunk.Write(OpConstant, a, 1)
	chunk.Write(OpConstant, b, 1)
	chunk.Write(OpDiv, 0, 1)

	ConstantFold(chunk)
	if chunk.Code[2].Op != OpDiv {
		t.Error("division by zero must not fold")
	}
}

func TestDeadCodeEliminationStopsAtJumpTargets(t *testing.T) {
	chunk := NewChunk()
	chunk.Write(OpJump, 3, 1)  // 0: jump over dead code
	chunk.Write(OpTrue, 0, 1)  // 1: dead
	chunk.Write(OpPop, 0, 1)   // 2: dead
	chunk.Write(OpFalse, 0, 1) // 3: live jump target
	chunk.Write(OpPop, 0, 1)   // 4

	EliminateDeadCode(chunk)
	if chunk.Code[1].Op != OpNop || chunk.Code[2].Op != OpNop {
		t.Error("unreachable code must become Nop")
	}
	if chunk.Code[3].Op != OpFalse {
		t.Error("jump targets must stay live")
	}
}

func TestOptimizedChunkStillRuns(t *testing.T) {
	program, err := parser.Parse(`
		print(2 + 3 * 4);
		var x = 10 - 4;
		print(x);
	`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	chunk := Compile(program)
	Optimize(chunk)

	var buf bytes.Buffer
	vm := NewVM()
	vm.SetOutput(&buf)
	if err := vm.Run(chunk); err != nil {
		t.Fatalf("optimized chunk failed: %v", err)
	}
	out := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if out[0] != "14" || out[1] != "6" {
		t.Errorf("out = %v", out)
	}
}

func TestDisassembleListsOpcodes(t *testing.T) {
	program, err := parser.Parse(`
		function add(a, b) { return a + b; }
		print(add(1, 2));
	`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	chunk := Compile(program)
	listing := Disassemble(chunk, "test")

	for _, want := range []string{"== test ==", "== add ==", "CALL", "PRINT", "RETURN", "ADD"} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}
