package bytecode

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

const maxStack = 4096

// callFrame records one active function invocation: its chunk, its
// instruction pointer, and the stack index where its locals begin.
type callFrame struct {
	chunk *Chunk
	ip    int
	slot  int
}

// VM is the NaN-boxed stack machine for compiled chunks.
type VM struct {
	stack   []Boxed
	heap    *HeapStore
	frames  []callFrame
	globals map[string]Boxed
	output  io.Writer
}

// NewVM returns a VM writing print output to stdout.
func NewVM() *VM {
	return &VM{
		heap:    NewHeapStore(),
		globals: make(map[string]Boxed),
		output:  os.Stdout,
	}
}

// SetOutput routes print output to w.
func (vm *VM) SetOutput(w io.Writer) { vm.output = w }

func (vm *VM) push(b Boxed) error {
	if len(vm.stack) >= maxStack {
		return runtime.NewTypeError("VM stack overflow")
	}
	vm.stack = append(vm.stack, b)
	return nil
}

func (vm *VM) pop() (Boxed, error) {
	if len(vm.stack) == 0 {
		return 0, runtime.NewTypeError("VM stack underflow")
	}
	top := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return top, nil
}

func (vm *VM) pushValue(v VMValue) error {
	return vm.push(Encode(v, vm.heap))
}

func (vm *VM) popValue() (VMValue, error) {
	b, err := vm.pop()
	if err != nil {
		return VMValue{}, err
	}
	return b.DecodeValue(vm.heap), nil
}

func (vm *VM) frame() *callFrame {
	return &vm.frames[len(vm.frames)-1]
}

// Run executes a chunk to completion. Chunks flagged RequiresTreeWalk
// are rejected so the driver falls back to the interpreter.
func (vm *VM) Run(chunk *Chunk) error {
	if chunk.RequiresTreeWalk {
		return runtime.NewTypeError("chunk requires tree-walk execution")
	}
	vm.frames = append(vm.frames, callFrame{chunk: chunk})

	for len(vm.frames) > 0 {
		frame := vm.frame()
		if frame.ip >= len(frame.chunk.Code) {
			if err := vm.handleReturn(BoxUndefined()); err != nil {
				return err
			}
			continue
		}
		inst := frame.chunk.Code[frame.ip]
		frame.ip++

		if err := vm.exec(inst); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) exec(inst Instruction) error {
	switch inst.Op {
	case OpConstant:
		return vm.pushValue(vm.frame().chunk.Constants[inst.Arg])
	case OpNil:
		return vm.push(BoxNull())
	case OpUndefined:
		return vm.push(BoxUndefined())
	case OpTrue:
		return vm.push(BoxBool(true))
	case OpFalse:
		return vm.push(BoxBool(false))

	case OpAdd:
		return vm.execAdd()
	case OpSub, OpMul, OpDiv, OpMod:
		return vm.execNumericBinary(inst.Op)

	case OpNegate:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		return vm.push(BoxFloat(-v.ToFloat()))
	case OpNot:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		return vm.push(BoxBool(!v.ToBool()))

	case OpEqual, OpStrictEqual:
		rhs, err := vm.popValue()
		if err != nil {
			return err
		}
		lhs, err := vm.popValue()
		if err != nil {
			return err
		}
		return vm.push(BoxBool(vmEquals(lhs, rhs, inst.Op == OpStrictEqual)))

	case OpLess, OpGreater:
		return vm.execComparison(inst.Op)

	case OpTypeof:
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		return vm.pushValue(VMStringValue(v.TypeofString()))

	case OpPop:
		_, err := vm.pop()
		return err

	case OpPrint:
		v, err := vm.popValue()
		if err != nil {
			return err
		}
		fmt.Fprintln(vm.output, v.ToOutput())
		return nil

	case OpSetGlobal:
		name := vm.constantName(inst.Arg)
		v, err := vm.pop()
		if err != nil {
			return err
		}
		vm.globals[name] = v
		return nil

	case OpGetGlobal:
		name := vm.constantName(inst.Arg)
		v, ok := vm.globals[name]
		if !ok {
			v = BoxUndefined()
		}
		return vm.push(v)

	case OpSetLocal:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		idx := vm.frame().slot + int(inst.Arg)
		if idx >= len(vm.stack) {
			return runtime.NewTypeError("VM local slot out of range")
		}
		vm.stack[idx] = v
		return nil

	case OpGetLocal:
		idx := vm.frame().slot + int(inst.Arg)
		if idx >= len(vm.stack) {
			return runtime.NewTypeError("VM local slot out of range")
		}
		return vm.push(vm.stack[idx])

	case OpCall:
		return vm.execCall(int(inst.Arg))

	case OpReturn:
		result, err := vm.pop()
		if err != nil {
			result = BoxUndefined()
		}
		return vm.handleReturn(result)

	case OpJump, OpLoop:
		vm.frame().ip = int(inst.Arg)
		return nil

	case OpJumpIfFalse:
		cond, err := vm.pop()
		if err != nil {
			return err
		}
		if !cond.ToBool() {
			vm.frame().ip = int(inst.Arg)
		}
		return nil

	case OpNop:
		return nil

	case OpGetPropertyIC:
		name := vm.constantName(inst.Arg)
		obj, err := vm.popValue()
		if err != nil {
			return err
		}
		return vm.pushValue(vm.getProperty(obj, name))

	case OpRunTreeWalk:
		return runtime.NewTypeError("chunk requires tree-walk execution")

	default:
		return runtime.NewTypeError("unsupported opcode %s", inst.Op)
	}
}

// execAdd is type-dispatched: if either operand decodes to a heap string,
// concatenate string representations; else numeric add.
func (vm *VM) execAdd() error {
	rhs, err := vm.pop()
	if err != nil {
		return err
	}
	lhs, err := vm.pop()
	if err != nil {
		return err
	}
	if vm.isString(lhs) || vm.isString(rhs) {
		l := lhs.DecodeValue(vm.heap)
		r := rhs.DecodeValue(vm.heap)
		return vm.pushValue(VMStringValue(l.ToOutput() + r.ToOutput()))
	}
	return vm.push(BoxFloat(lhs.ToFloat() + rhs.ToFloat()))
}

func (vm *VM) isString(b Boxed) bool {
	d := b.Decode()
	return d.Kind == DecPointer && vm.heap.Get(d.Ptr).Kind == VMString
}

func (vm *VM) execNumericBinary(op OpCode) error {
	rhs, err := vm.pop()
	if err != nil {
		return err
	}
	lhs, err := vm.pop()
	if err != nil {
		return err
	}
	l := lhs.ToFloat()
	r := rhs.ToFloat()
	var result float64
	switch op {
	case OpSub:
		result = l - r
	case OpMul:
		result = l * r
	case OpDiv:
		result = l / r
	default:
		result = math.Mod(l, r)
	}
	return vm.push(BoxFloat(result))
}

func (vm *VM) execComparison(op OpCode) error {
	rhs, err := vm.pop()
	if err != nil {
		return err
	}
	lhs, err := vm.pop()
	if err != nil {
		return err
	}
	var result bool
	if vm.isString(lhs) && vm.isString(rhs) {
		l := lhs.DecodeValue(vm.heap).Str
		r := rhs.DecodeValue(vm.heap).Str
		if op == OpLess {
			result = l < r
		} else {
			result = l > r
		}
	} else if op == OpLess {
		result = lhs.ToFloat() < rhs.ToFloat()
	} else {
		result = lhs.ToFloat() > rhs.ToFloat()
	}
	return vm.push(BoxBool(result))
}

func vmEquals(a, b VMValue, strict bool) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case VMUndefined, VMNull:
			return true
		case VMBoolean:
			return a.Bool == b.Bool
		case VMNumber:
			return a.Num == b.Num
		case VMString:
			return a.Str == b.Str
		default:
			return a.Fn == b.Fn
		}
	}
	if strict {
		return false
	}
	if (a.Kind == VMNull && b.Kind == VMUndefined) || (a.Kind == VMUndefined && b.Kind == VMNull) {
		return true
	}
	return a.ToNumber() == b.ToNumber()
}

// execCall pops arg-count values, then the callee, and pushes a frame
// whose slot starts at the argument block.
func (vm *VM) execCall(argCount int) error {
	args := make([]Boxed, argCount)
	for idx := argCount - 1; idx >= 0; idx-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[idx] = v
	}
	callee, err := vm.popValue()
	if err != nil {
		return err
	}
	if callee.Kind != VMFunctionKind {
		return runtime.NewNotAFunctionError(callee.ToOutput())
	}
	if callee.Fn.Arity != argCount {
		return runtime.NewArityMismatchError(callee.Fn.Arity, argCount)
	}

	slot := len(vm.stack)
	for _, arg := range args {
		if err := vm.push(arg); err != nil {
			return err
		}
	}
	vm.frames = append(vm.frames, callFrame{chunk: callee.Fn.Chunk, slot: slot})
	return nil
}

// handleReturn pops the frame, truncates its locals, and pushes the
// return value for the caller.
func (vm *VM) handleReturn(value Boxed) error {
	if len(vm.frames) == 0 {
		return runtime.NewTypeError("return with empty frame stack")
	}
	frame := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.stack = vm.stack[:frame.slot]
	if len(vm.frames) == 0 {
		return nil
	}
	return vm.push(value)
}

func (vm *VM) constantName(idx uint16) string {
	return vm.frame().chunk.Constants[idx].Str
}

// getProperty is the degraded inline-cache path: a string-key lookup on
// the handful of VM value shapes.
func (vm *VM) getProperty(obj VMValue, name string) VMValue {
	switch obj.Kind {
	case VMString:
		if name == "length" {
			return VMNumberValue(float64(len([]rune(obj.Str))))
		}
	case VMFunctionKind:
		switch name {
		case "name":
			return VMStringValue(obj.Fn.Name)
		case "length":
			return VMNumberValue(float64(obj.Fn.Arity))
		}
	}
	return VMValue{Kind: VMUndefined}
}
