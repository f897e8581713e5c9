package runtime

import "github.com/cwbudde/go-jsvm/internal/gc"

// weakEntry pairs a heap-identity key with its stored value. The key is
// held as a gc.Object and deliberately NOT traced, so a weak table never
// keeps its keys alive.
type weakEntry struct {
	key   gc.Object
	keyV  Value
	value Value
}

// WeakMapValue maps heap references to values without rooting the keys.
// Entries whose keys are collected disappear after the next GC cycle.
type WeakMapValue struct {
	gc.Header
	entries []weakEntry
}

// NewWeakMap returns an empty weak map.
func NewWeakMap() *WeakMapValue { return &WeakMapValue{} }

func (w *WeakMapValue) Type() string   { return TypeWeakMap }
func (w *WeakMapValue) String() string { return "[object WeakMap]" }

// Trace marks stored values only; keys stay weak.
func (w *WeakMapValue) Trace(m *gc.Marker) {
	for _, e := range w.entries {
		MarkValue(m, e.value)
	}
}

// PruneDead implements gc.WeakContainer.
func (w *WeakMapValue) PruneDead(marked func(gc.Object) bool) {
	kept := w.entries[:0]
	for _, e := range w.entries {
		if marked(e.key) {
			kept = append(kept, e)
		}
	}
	w.entries = kept
}

func (w *WeakMapValue) indexOf(key gc.Object) int {
	for i, e := range w.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Set stores value under key. Returns false when key is not a heap
// reference (primitives cannot be weak keys).
func (w *WeakMapValue) Set(key Value, value Value) bool {
	obj := HeapObject(key)
	if obj == nil {
		return false
	}
	if i := w.indexOf(obj); i >= 0 {
		w.entries[i].value = value
		return true
	}
	w.entries = append(w.entries, weakEntry{key: obj, keyV: key, value: value})
	return true
}

// Get returns the value stored under key, or undefined.
func (w *WeakMapValue) Get(key Value) Value {
	obj := HeapObject(key)
	if obj == nil {
		return Undefined
	}
	if i := w.indexOf(obj); i >= 0 {
		return w.entries[i].value
	}
	return Undefined
}

// Has reports whether key is present.
func (w *WeakMapValue) Has(key Value) bool {
	obj := HeapObject(key)
	return obj != nil && w.indexOf(obj) >= 0
}

// Delete removes key; reports whether an entry was removed.
func (w *WeakMapValue) Delete(key Value) bool {
	obj := HeapObject(key)
	if obj == nil {
		return false
	}
	if i := w.indexOf(obj); i >= 0 {
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
		return true
	}
	return false
}

// WeakSetValue holds heap references without rooting them.
type WeakSetValue struct {
	gc.Header
	entries []weakEntry
}

// NewWeakSet returns an empty weak set.
func NewWeakSet() *WeakSetValue { return &WeakSetValue{} }

func (w *WeakSetValue) Type() string   { return TypeWeakSet }
func (w *WeakSetValue) String() string { return "[object WeakSet]" }

// Trace marks nothing: membership alone never keeps a value alive.
func (w *WeakSetValue) Trace(m *gc.Marker) {}

// PruneDead implements gc.WeakContainer.
func (w *WeakSetValue) PruneDead(marked func(gc.Object) bool) {
	kept := w.entries[:0]
	for _, e := range w.entries {
		if marked(e.key) {
			kept = append(kept, e)
		}
	}
	w.entries = kept
}

func (w *WeakSetValue) indexOf(key gc.Object) int {
	for i, e := range w.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Add inserts v. Returns false for primitive values.
func (w *WeakSetValue) Add(v Value) bool {
	obj := HeapObject(v)
	if obj == nil {
		return false
	}
	if w.indexOf(obj) < 0 {
		w.entries = append(w.entries, weakEntry{key: obj, keyV: v})
	}
	return true
}

// Has reports membership.
func (w *WeakSetValue) Has(v Value) bool {
	obj := HeapObject(v)
	return obj != nil && w.indexOf(obj) >= 0
}

// Delete removes v; reports whether a member was removed.
func (w *WeakSetValue) Delete(v Value) bool {
	obj := HeapObject(v)
	if obj == nil {
		return false
	}
	if i := w.indexOf(obj); i >= 0 {
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
		return true
	}
	return false
}
