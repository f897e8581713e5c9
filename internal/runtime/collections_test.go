package runtime

import (
	"math"
	"testing"
)

func TestMapInsertionOrderPreservedUnderOverwrite(t *testing.T) {
	m := NewMap()
	m.Set(NewString("a"), NewNumber(1))
	m.Set(NewString("b"), NewNumber(2))
	m.Set(NewString("a"), NewNumber(3))

	if m.Size() != 2 {
		t.Fatalf("size = %d, want 2", m.Size())
	}
	if m.Entries[0].Key.(*StringValue).Value != "a" {
		t.Error("overwrite must keep the original insertion position")
	}
	if m.Get(NewString("a")).(*NumberValue).Value != 3 {
		t.Error("overwrite must update the value")
	}
}

func TestMapNaNCollapses(t *testing.T) {
	m := NewMap()
	m.Set(NewNumber(math.NaN()), NewString("first"))
	m.Set(NewNumber(math.NaN()), NewString("second"))
	if m.Size() != 1 {
		t.Fatalf("NaN keys must collapse, size = %d", m.Size())
	}
	if m.Get(NewNumber(math.NaN())).(*StringValue).Value != "second" {
		t.Error("NaN key must be retrievable")
	}
}

func TestMapObjectKeysByIdentity(t *testing.T) {
	m := NewMap()
	k1 := NewObject()
	k2 := NewObject()
	m.Set(k1, NewNumber(1))
	m.Set(k2, NewNumber(2))
	if m.Size() != 2 {
		t.Error("distinct objects are distinct keys")
	}
	if m.Get(k1).(*NumberValue).Value != 1 {
		t.Error("object key lookup failed")
	}
	if !m.Delete(k1) || m.Size() != 1 {
		t.Error("delete by identity failed")
	}
}

func TestSetSameValueZeroMembership(t *testing.T) {
	s := NewSet()
	s.Add(NewNumber(0))
	s.Add(NewNumber(math.Copysign(0, -1)))
	s.Add(NewNumber(math.NaN()))
	s.Add(NewNumber(math.NaN()))
	if s.Size() != 2 {
		t.Errorf("size = %d, want 2 (±0 and NaN collapse)", s.Size())
	}
	if !s.Has(NewNumber(math.NaN())) {
		t.Error("NaN membership must hold")
	}
}

func TestWeakMapRejectsPrimitiveKeys(t *testing.T) {
	w := NewWeakMap()
	if w.Set(NewNumber(1), NewString("x")) {
		t.Error("primitive keys must be rejected")
	}
	obj := NewObject()
	if !w.Set(obj, NewString("x")) {
		t.Error("object keys must be accepted")
	}
	if w.Get(obj).(*StringValue).Value != "x" {
		t.Error("weak map lookup failed")
	}
}

func TestWeakSetIdentity(t *testing.T) {
	w := NewWeakSet()
	a := NewArray()
	w.Add(a)
	if !w.Has(a) {
		t.Error("membership by identity failed")
	}
	if w.Has(NewArray()) {
		t.Error("distinct array must not be a member")
	}
	if !w.Delete(a) || w.Has(a) {
		t.Error("delete failed")
	}
}

func TestEnvironmentScoping(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NewNumber(1), BindVar)

	env.PushScope()
	env.Define("x", NewNumber(2), BindLet) // shadow
	if v, _ := env.Get("x"); v.(*NumberValue).Value != 2 {
		t.Error("inner scope must shadow")
	}
	env.PopScope()
	if v, _ := env.Get("x"); v.(*NumberValue).Value != 1 {
		t.Error("outer binding must reappear after pop")
	}

	if _, err := env.Get("missing"); err == nil {
		t.Error("unbound names must fail")
	}
}

func TestEnvironmentConstRejectsReassignment(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("k", NewNumber(1), BindConst)
	err := env.Set("k", NewNumber(2))
	if err == nil {
		t.Fatal("const reassignment must fail")
	}
	if AsError(err).Kind != ErrConstReassignment {
		t.Errorf("wrong error kind: %v", err)
	}
}

func TestEnvironmentCaptureSharesScopeCells(t *testing.T) {
	env := NewEnvironment(nil)
	env.PushScope()
	env.Define("n", NewNumber(1), BindLet)
	snapshot := env.Capture()
	env.PopScope()

	// Mutations through the installed snapshot stay visible to it.
	saved := env.ReplaceScopes(snapshot)
	if err := env.Set("n", NewNumber(42)); err != nil {
		t.Fatalf("set through snapshot failed: %v", err)
	}
	env.ReplaceScopes(saved)

	saved = env.ReplaceScopes(snapshot)
	v, err := env.Get("n")
	if err != nil || v.(*NumberValue).Value != 42 {
		t.Error("closure scopes must share cells, not copies")
	}
	env.ReplaceScopes(saved)
}

func TestEnvironmentThisLookup(t *testing.T) {
	env := NewEnvironment(nil)
	receiver := NewObject()
	env.PushScopeWithThis(receiver)
	env.PushScope()
	if env.This() != receiver {
		t.Error("this must resolve through plain scopes to the nearest binding")
	}
	env.PopScope()
	env.PopScope()
	if _, ok := env.This().(*UndefinedValue); !ok {
		t.Error("top-level this defaults to undefined without a global binding")
	}
}

func TestGlobalScopePreservedOnPop(t *testing.T) {
	env := NewEnvironment(nil)
	env.PopScope()
	env.PopScope()
	if env.Depth() != 1 {
		t.Error("the global scope must survive pops")
	}
}
