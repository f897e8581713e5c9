package gc

import "reflect"

// Marker walks the object graph from the roots, setting mark bits.
// Marking is idempotent, so cycles terminate: an already-marked object is
// never enqueued twice.
type Marker struct {
	worklist []Object
}

// NewMarker returns an empty marker.
func NewMarker() *Marker {
	return &Marker{}
}

// Mark marks obj and queues it for tracing. nil references are ignored so
// Trace implementations can mark optional fields unconditionally.
func (m *Marker) Mark(obj Object) {
	if obj == nil {
		return
	}
	// A nil pointer wrapped in the interface is a nil reference too.
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Ptr && v.IsNil() {
		return
	}
	hdr := obj.GCHeader()
	if hdr.marked {
		return
	}
	hdr.marked = true
	m.worklist = append(m.worklist, obj)
}

// Drain traces queued objects until the worklist is empty.
func (m *Marker) Drain() {
	for len(m.worklist) > 0 {
		obj := m.worklist[len(m.worklist)-1]
		m.worklist = m.worklist[:len(m.worklist)-1]
		obj.Trace(m)
	}
}
