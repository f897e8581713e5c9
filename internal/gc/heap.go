// Package gc implements the tracing mark-and-sweep heap that owns every
// long-lived runtime value. Collection is synchronous, stop-the-world, and
// single-threaded: the interpreter triggers it at allocation points only.
package gc

// Header is embedded at the head of every heap-allocated payload. It
// carries the mark bit consulted during collection.
type Header struct {
	marked bool
}

// GCHeader returns the embedded header; it makes any embedding struct
// satisfy the Object interface.
func (h *Header) GCHeader() *Header { return h }

// Object is implemented by every heap payload. Trace must invoke
// Marker.Mark on every heap reference the payload owns, recursing into
// owned containers.
type Object interface {
	GCHeader() *Header
	Trace(m *Marker)
}

// WeakContainer is implemented by weak maps and weak sets. PruneDead is
// invoked after the mark phase and before the sweep; implementations must
// drop every entry whose key is unmarked.
type WeakContainer interface {
	PruneDead(marked func(Object) bool)
}

// RootProvider is implemented by every owner of heap references that must
// stay live across collections: environments, interpreter working state,
// event-loop queues, module caches, embedder handle scopes.
type RootProvider interface {
	TraceRoots(m *Marker)
}

// CollectStats summarizes one collection cycle.
type CollectStats struct {
	Before    int
	After     int
	Collected int
}

const initialThreshold = 1024

// Heap owns all heap objects and decides when to collect.
type Heap struct {
	objects    []Object
	weak       []WeakContainer
	roots      []RootProvider
	liveCount  int
	allocCount int
	threshold  int
}

// NewHeap returns an empty heap with the initial collection threshold.
func NewHeap() *Heap {
	return &Heap{threshold: initialThreshold}
}

// Alloc registers obj with the heap and bumps the allocation counter.
// The same reference passed in is returned for call-site convenience.
func (h *Heap) Alloc(obj Object) Object {
	h.objects = append(h.objects, obj)
	if w, ok := obj.(WeakContainer); ok {
		h.weak = append(h.weak, w)
	}
	h.liveCount++
	h.allocCount++
	return obj
}

// AddRoot registers a provider whose references are treated as live.
func (h *Heap) AddRoot(r RootProvider) {
	h.roots = append(h.roots, r)
}

// LiveCount returns the number of live heap objects.
func (h *Heap) LiveCount() int { return h.liveCount }

// ShouldCollect reports whether the allocation counter has crossed the
// collection threshold.
func (h *Heap) ShouldCollect() bool { return h.allocCount >= h.threshold }

// Collect runs a full mark-and-sweep cycle over the registered roots plus
// any extra roots the caller wants pinned (in-flight values that live in
// Go locals, not in any root provider).
func (h *Heap) Collect(extraRoots ...Object) CollectStats {
	before := h.liveCount

	m := NewMarker()
	for _, r := range h.roots {
		r.TraceRoots(m)
	}
	for _, obj := range extraRoots {
		m.Mark(obj)
	}
	m.Drain()

	// Weak tables see the mark bits before the sweep destroys them.
	for _, w := range h.weak {
		w.PruneDead(isMarked)
	}

	collected := h.sweep()
	h.liveCount -= collected
	h.allocCount = h.liveCount
	h.threshold = maxInt(1, h.liveCount) * 2

	return CollectStats{Before: before, After: h.liveCount, Collected: collected}
}

// sweep drops every unmarked object and clears the marks of the survivors.
func (h *Heap) sweep() int {
	kept := h.objects[:0]
	weakKept := h.weak[:0]
	for _, obj := range h.objects {
		hdr := obj.GCHeader()
		if hdr.marked {
			hdr.marked = false
			kept = append(kept, obj)
			if w, ok := obj.(WeakContainer); ok {
				weakKept = append(weakKept, w)
			}
		}
	}
	collected := len(h.objects) - len(kept)
	// Zero the tail so swept objects are not retained by the backing array.
	for i := len(kept); i < len(h.objects); i++ {
		h.objects[i] = nil
	}
	h.objects = kept
	h.weak = weakKept
	return collected
}

func isMarked(obj Object) bool {
	return obj.GCHeader().marked
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
