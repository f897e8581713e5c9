package runtime

import (
	"strings"

	"github.com/cwbudde/go-jsvm/internal/gc"
)

// Array is a dense sequence of values. length derives from the element
// count; writing past the end zero-fills with undefined.
type Array struct {
	gc.Header
	Elements []Value
}

// NewArray wraps the given elements.
func NewArray(elements ...Value) *Array {
	return &Array{Elements: elements}
}

func (a *Array) Type() string { return TypeArray }

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		if el == nil || el == Undefined || el == Null {
			parts[i] = ""
			continue
		}
		parts[i] = el.String()
	}
	return strings.Join(parts, ",")
}

// Trace implements gc.Object.
func (a *Array) Trace(m *gc.Marker) {
	for _, el := range a.Elements {
		MarkValue(m, el)
	}
}

// Length returns the element count.
func (a *Array) Length() int { return len(a.Elements) }

// Get returns the element at idx, or undefined out of range.
func (a *Array) Get(idx int) Value {
	if idx < 0 || idx >= len(a.Elements) {
		return Undefined
	}
	if a.Elements[idx] == nil {
		return Undefined
	}
	return a.Elements[idx]
}

// Set writes idx, zero-filling the gap with undefined when idx is past
// the end. Negative indexes are ignored.
func (a *Array) Set(idx int, v Value) {
	if idx < 0 {
		return
	}
	for len(a.Elements) <= idx {
		a.Elements = append(a.Elements, Undefined)
	}
	a.Elements[idx] = v
}

// SetLength truncates or undefined-extends the sequence.
func (a *Array) SetLength(n int) {
	if n < 0 {
		n = 0
	}
	for len(a.Elements) < n {
		a.Elements = append(a.Elements, Undefined)
	}
	a.Elements = a.Elements[:n]
}

// Push appends values and returns the new length.
func (a *Array) Push(values ...Value) int {
	a.Elements = append(a.Elements, values...)
	return len(a.Elements)
}

// Pop removes and returns the last element.
func (a *Array) Pop() Value {
	if len(a.Elements) == 0 {
		return Undefined
	}
	last := a.Elements[len(a.Elements)-1]
	a.Elements = a.Elements[:len(a.Elements)-1]
	return last
}

// Shift removes and returns the first element.
func (a *Array) Shift() Value {
	if len(a.Elements) == 0 {
		return Undefined
	}
	first := a.Elements[0]
	a.Elements = append(a.Elements[:0], a.Elements[1:]...)
	return first
}

// Unshift prepends values and returns the new length.
func (a *Array) Unshift(values ...Value) int {
	a.Elements = append(values, a.Elements...)
	return len(a.Elements)
}
