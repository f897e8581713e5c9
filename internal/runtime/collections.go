package runtime

import "github.com/cwbudde/go-jsvm/internal/gc"

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue is an insertion-ordered map keyed by SameValueZero: NaN
// collapses to one key, ±0 collapse to one key. Overwrites keep the
// original insertion position.
type MapValue struct {
	gc.Header
	Entries []MapEntry
}

// NewMap returns an empty map.
func NewMap() *MapValue { return &MapValue{} }

func (m *MapValue) Type() string   { return TypeMap }
func (m *MapValue) String() string { return "[object Map]" }

// Trace implements gc.Object.
func (m *MapValue) Trace(mk *gc.Marker) {
	for _, e := range m.Entries {
		MarkValue(mk, e.Key)
		MarkValue(mk, e.Value)
	}
}

func (m *MapValue) indexOf(key Value) int {
	for i, e := range m.Entries {
		if SameValueZero(e.Key, key) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, or undefined.
func (m *MapValue) Get(key Value) Value {
	if i := m.indexOf(key); i >= 0 {
		return m.Entries[i].Value
	}
	return Undefined
}

// Set stores value under key, preserving insertion order on overwrite.
func (m *MapValue) Set(key, value Value) {
	if i := m.indexOf(key); i >= 0 {
		m.Entries[i].Value = value
		return
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Value: value})
}

// Has reports whether key is present.
func (m *MapValue) Has(key Value) bool { return m.indexOf(key) >= 0 }

// Delete removes key; reports whether an entry was removed.
func (m *MapValue) Delete(key Value) bool {
	if i := m.indexOf(key); i >= 0 {
		m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
		return true
	}
	return false
}

// Size returns the entry count.
func (m *MapValue) Size() int { return len(m.Entries) }

// Clear removes every entry.
func (m *MapValue) Clear() { m.Entries = nil }

// SetValue is an insertion-ordered set keyed by SameValueZero.
type SetValue struct {
	gc.Header
	Items []Value
}

// NewSet returns an empty set.
func NewSet() *SetValue { return &SetValue{} }

func (s *SetValue) Type() string   { return TypeSet }
func (s *SetValue) String() string { return "[object Set]" }

// Trace implements gc.Object.
func (s *SetValue) Trace(mk *gc.Marker) {
	for _, item := range s.Items {
		MarkValue(mk, item)
	}
}

func (s *SetValue) indexOf(v Value) int {
	for i, item := range s.Items {
		if SameValueZero(item, v) {
			return i
		}
	}
	return -1
}

// Add inserts v unless an equal member exists.
func (s *SetValue) Add(v Value) {
	if s.indexOf(v) < 0 {
		s.Items = append(s.Items, v)
	}
}

// Has reports membership.
func (s *SetValue) Has(v Value) bool { return s.indexOf(v) >= 0 }

// Delete removes v; reports whether a member was removed.
func (s *SetValue) Delete(v Value) bool {
	if i := s.indexOf(v); i >= 0 {
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		return true
	}
	return false
}

// Size returns the member count.
func (s *SetValue) Size() int { return len(s.Items) }

// Clear removes every member.
func (s *SetValue) Clear() { s.Items = nil }
