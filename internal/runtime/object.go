package runtime

import (
	"github.com/cwbudde/go-jsvm/internal/gc"
)

// Property is one slot of an object's property table. A slot is either a
// data property (Value) or an accessor (Getter/Setter); accessors leave
// Value nil.
type Property struct {
	Value        Value
	Getter       Value
	Setter       Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// DataProperty returns a writable, enumerable, configurable data slot.
func DataProperty(v Value) *Property {
	return &Property{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// IsAccessor reports whether the slot has a getter or setter.
func (p *Property) IsAccessor() bool { return p.Getter != nil || p.Setter != nil }

type symbolProperty struct {
	sym  *SymbolValue
	prop *Property
}

// Object is a JavaScript object: an insertion-ordered string-key property
// table, a symbol-key table, an optional prototype, and integrity flags.
type Object struct {
	gc.Header
	keys       []string
	props      map[string]*Property
	symOrder   []uint64
	symProps   map[uint64]symbolProperty
	Proto      *Object
	Extensible bool
	Sealed     bool
	Frozen     bool
	// ClassName tags instances created from a class or error constructor;
	// it backs Object.prototype.toString and engine error identification.
	ClassName string
}

// NewObject returns an empty extensible object with no prototype.
func NewObject() *Object {
	return &Object{
		props:      make(map[string]*Property),
		Extensible: true,
	}
}

// Trace implements gc.Object.
func (o *Object) Trace(m *gc.Marker) {
	for _, prop := range o.props {
		traceProperty(m, prop)
	}
	for _, sp := range o.symProps {
		traceProperty(m, sp.prop)
	}
	m.Mark(o.Proto)
}

func traceProperty(m *gc.Marker, p *Property) {
	MarkValue(m, p.Value)
	MarkValue(m, p.Getter)
	MarkValue(m, p.Setter)
}

func (o *Object) Type() string { return TypeObject }

func (o *Object) String() string { return "[object Object]" }

// Keys returns the own enumerable string keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if p, ok := o.props[k]; ok && p.Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

// OwnKeys returns every own string key, enumerable or not, in insertion
// order.
func (o *Object) OwnKeys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// OwnSymbols returns the own symbol keys in insertion order.
func (o *Object) OwnSymbols() []*SymbolValue {
	syms := make([]*SymbolValue, 0, len(o.symOrder))
	for _, id := range o.symOrder {
		syms = append(syms, o.symProps[id].sym)
	}
	return syms
}

// GetOwn returns the own property slot for key.
func (o *Object) GetOwn(key string) (*Property, bool) {
	p, ok := o.props[key]
	return p, ok
}

// GetOwnSymbol returns the own property slot for a symbol key.
func (o *Object) GetOwnSymbol(sym *SymbolValue) (*Property, bool) {
	sp, ok := o.symProps[sym.ID]
	if !ok {
		return nil, false
	}
	return sp.prop, true
}

// Set writes a data property, walking nothing: this is the raw own-table
// write. Frozen objects and non-writable slots reject silently; sealed
// objects reject additions.
func (o *Object) Set(key string, v Value) {
	if o.Frozen {
		return
	}
	if p, ok := o.props[key]; ok {
		if p.IsAccessor() || !p.Writable {
			return
		}
		p.Value = v
		return
	}
	if o.Sealed || !o.Extensible {
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = DataProperty(v)
}

// SetSymbol writes a data property under a symbol key.
func (o *Object) SetSymbol(sym *SymbolValue, v Value) {
	if o.Frozen {
		return
	}
	if sp, ok := o.symProps[sym.ID]; ok {
		if sp.prop.IsAccessor() || !sp.prop.Writable {
			return
		}
		sp.prop.Value = v
		return
	}
	if o.Sealed || !o.Extensible {
		return
	}
	if o.symProps == nil {
		o.symProps = make(map[uint64]symbolProperty)
	}
	o.symOrder = append(o.symOrder, sym.ID)
	o.symProps[sym.ID] = symbolProperty{sym: sym, prop: DataProperty(v)}
}

// DefineProperty installs or replaces the own slot for key, bypassing
// writability (but not the frozen flag, which pins descriptors).
func (o *Object) DefineProperty(key string, prop *Property) bool {
	if existing, ok := o.props[key]; ok {
		if o.Frozen || (!existing.Configurable && existing != prop) {
			// Non-configurable slots still accept value writes when writable.
			if existing.Writable && !existing.IsAccessor() && prop.Value != nil {
				existing.Value = prop.Value
				return true
			}
			return false
		}
		o.props[key] = prop
		return true
	}
	if !o.Extensible || o.Sealed || o.Frozen {
		return false
	}
	o.keys = append(o.keys, key)
	o.props[key] = prop
	return true
}

// DefineSymbolProperty installs the own slot for a symbol key.
func (o *Object) DefineSymbolProperty(sym *SymbolValue, prop *Property) bool {
	if o.symProps == nil {
		o.symProps = make(map[uint64]symbolProperty)
	}
	if _, ok := o.symProps[sym.ID]; !ok {
		if !o.Extensible || o.Sealed || o.Frozen {
			return false
		}
		o.symOrder = append(o.symOrder, sym.ID)
	}
	o.symProps[sym.ID] = symbolProperty{sym: sym, prop: prop}
	return true
}

// SetGetter installs (or merges) a getter accessor for key.
func (o *Object) SetGetter(key string, getter Value) {
	if p, ok := o.props[key]; ok {
		p.Getter = getter
		p.Value = nil
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = &Property{Getter: getter, Enumerable: true, Configurable: true}
}

// SetSetter installs (or merges) a setter accessor for key.
func (o *Object) SetSetter(key string, setter Value) {
	if p, ok := o.props[key]; ok {
		p.Setter = setter
		p.Value = nil
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = &Property{Setter: setter, Enumerable: true, Configurable: true}
}

// Delete removes the own slot for key. Non-configurable slots and sealed
// objects refuse.
func (o *Object) Delete(key string) bool {
	p, ok := o.props[key]
	if !ok {
		return true
	}
	if o.Sealed || o.Frozen || !p.Configurable {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether key exists on the object or its prototype chain.
func (o *Object) Has(key string) bool {
	for obj := o; obj != nil; obj = obj.Proto {
		if _, ok := obj.props[key]; ok {
			return true
		}
	}
	return false
}

// HasOwn reports whether key is an own property.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Lookup walks the prototype chain and returns the first slot found for
// key, together with the object that holds it.
func (o *Object) Lookup(key string) (*Property, *Object, bool) {
	for obj := o; obj != nil; obj = obj.Proto {
		if p, ok := obj.props[key]; ok {
			return p, obj, true
		}
	}
	return nil, nil, false
}

// LookupSymbol walks the prototype chain for a symbol-keyed slot.
func (o *Object) LookupSymbol(sym *SymbolValue) (*Property, bool) {
	for obj := o; obj != nil; obj = obj.Proto {
		if sp, ok := obj.symProps[sym.ID]; ok {
			return sp.prop, true
		}
	}
	return nil, false
}

// Freeze marks every own slot non-writable and non-configurable and sets
// the integrity flags. Repeated freezes are idempotent.
func (o *Object) Freeze() {
	for _, p := range o.props {
		p.Writable = false
		p.Configurable = false
	}
	for _, sp := range o.symProps {
		sp.prop.Writable = false
		sp.prop.Configurable = false
	}
	o.Frozen = true
	o.Sealed = true
	o.Extensible = false
}

// Seal marks every own slot non-configurable but leaves writability.
func (o *Object) Seal() {
	for _, p := range o.props {
		p.Configurable = false
	}
	o.Sealed = true
	o.Extensible = false
}

// PreventExtensions clears the extensible flag only.
func (o *Object) PreventExtensions() {
	o.Extensible = false
}

// IsPrototypeOf walks v's prototype chain looking for o.
func (o *Object) IsPrototypeOf(v Value) bool {
	target, ok := v.(*Object)
	if !ok {
		return false
	}
	for proto := target.Proto; proto != nil; proto = proto.Proto {
		if proto == o {
			return true
		}
	}
	return false
}
