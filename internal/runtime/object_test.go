package runtime

import (
	"reflect"
	"testing"
)

func TestObjectInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("b", NewNumber(1))
	obj.Set("a", NewNumber(2))
	obj.Set("c", NewNumber(3))
	obj.Set("a", NewNumber(4)) // overwrite keeps position

	want := []string{"b", "a", "c"}
	if got := obj.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if prop, _ := obj.GetOwn("a"); prop.Value.(*NumberValue).Value != 4 {
		t.Error("overwrite must update the value")
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	proto := NewObject()
	proto.Set("inherited", NewString("from proto"))
	obj := NewObject()
	obj.Proto = proto

	prop, holder, found := obj.Lookup("inherited")
	if !found || holder != proto {
		t.Fatal("lookup must find the prototype slot")
	}
	if prop.Value.(*StringValue).Value != "from proto" {
		t.Error("wrong inherited value")
	}
	if !obj.Has("inherited") {
		t.Error("Has must see inherited properties")
	}
	if obj.HasOwn("inherited") {
		t.Error("HasOwn must not see inherited properties")
	}
}

func TestFreezeRejectsWritesAndMutations(t *testing.T) {
	obj := NewObject()
	obj.Set("x", NewNumber(1))
	obj.Freeze()

	obj.Set("x", NewNumber(2))
	obj.Set("y", NewNumber(3))
	if prop, _ := obj.GetOwn("x"); prop.Value.(*NumberValue).Value != 1 {
		t.Error("write to a frozen property must fail silently")
	}
	if obj.HasOwn("y") {
		t.Error("frozen objects must reject new properties")
	}
	if obj.Delete("x") {
		t.Error("frozen objects must reject deletes")
	}

	// Repeated freeze is idempotent.
	obj.Freeze()
	if !obj.Frozen || !obj.Sealed || obj.Extensible {
		t.Error("freeze flags wrong after second freeze")
	}
}

func TestSealAllowsWritesToExistingData(t *testing.T) {
	obj := NewObject()
	obj.Set("x", NewNumber(1))
	obj.Seal()

	obj.Set("x", NewNumber(2))
	if prop, _ := obj.GetOwn("x"); prop.Value.(*NumberValue).Value != 2 {
		t.Error("sealed objects must permit writes to writable data properties")
	}
	obj.Set("y", NewNumber(3))
	if obj.HasOwn("y") {
		t.Error("sealed objects must reject additions")
	}
	if obj.Delete("x") {
		t.Error("sealed objects must reject removals")
	}
}

func TestPreventExtensionsOnly(t *testing.T) {
	obj := NewObject()
	obj.Set("x", NewNumber(1))
	obj.PreventExtensions()

	obj.Set("y", NewNumber(2))
	if obj.HasOwn("y") {
		t.Error("non-extensible objects must reject additions")
	}
	obj.Set("x", NewNumber(5))
	if prop, _ := obj.GetOwn("x"); prop.Value.(*NumberValue).Value != 5 {
		t.Error("existing properties stay writable after preventExtensions")
	}
	if !obj.Delete("x") {
		t.Error("configurable properties stay deletable after preventExtensions")
	}
}

func TestSymbolKeyedProperties(t *testing.T) {
	obj := NewObject()
	obj.SetSymbol(SymbolIterator, NewString("iter"))

	prop, found := obj.LookupSymbol(SymbolIterator)
	if !found || prop.Value.(*StringValue).Value != "iter" {
		t.Fatal("symbol property lookup failed")
	}
	syms := obj.OwnSymbols()
	if len(syms) != 1 || syms[0].ID != SymbolIteratorID {
		t.Error("OwnSymbols must list the symbol key")
	}
	// Symbol keys must not leak into string enumeration.
	if len(obj.Keys()) != 0 {
		t.Error("symbol keys must not appear in Keys()")
	}
}

func TestDeleteRespectsConfigurable(t *testing.T) {
	obj := NewObject()
	obj.DefineProperty("locked", &Property{Value: NewNumber(1), Writable: true})
	obj.Set("open", NewNumber(2))

	if obj.Delete("locked") {
		t.Error("non-configurable slots must refuse deletion")
	}
	if !obj.Delete("open") {
		t.Error("configurable slots must delete")
	}
	if !obj.Delete("missing") {
		t.Error("deleting a missing key reports true")
	}
}

func TestArrayZeroFill(t *testing.T) {
	arr := NewArray()
	arr.Set(3, NewString("x"))
	if arr.Length() != 4 {
		t.Fatalf("length = %d, want 4", arr.Length())
	}
	for idx := 0; idx < 3; idx++ {
		if _, ok := arr.Get(idx).(*UndefinedValue); !ok {
			t.Errorf("index %d should be undefined", idx)
		}
	}
	arr.SetLength(2)
	if arr.Length() != 2 {
		t.Errorf("SetLength truncation failed, length = %d", arr.Length())
	}
}
