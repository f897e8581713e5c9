package runtime

import "fmt"

// Well-known symbol ids. These are compile-time constants so they stay
// stable across the program's lifetime and across contexts.
const (
	SymbolIteratorID uint64 = iota + 1
	SymbolToPrimitiveID
	SymbolHasInstanceID
	SymbolToStringTagID

	// firstDynamicSymbolID is the first id handed out by a registry.
	firstDynamicSymbolID
)

// SymbolValue is a unique symbol primitive. Identity is the 64-bit id;
// the description is cosmetic.
type SymbolValue struct {
	ID          uint64
	Description string
}

func (s *SymbolValue) Type() string { return TypeSymbol }
func (s *SymbolValue) String() string {
	return fmt.Sprintf("Symbol(%s)", s.Description)
}

// Well-known symbols shared by every context.
var (
	SymbolIterator    = &SymbolValue{ID: SymbolIteratorID, Description: "Symbol.iterator"}
	SymbolToPrimitive = &SymbolValue{ID: SymbolToPrimitiveID, Description: "Symbol.toPrimitive"}
	SymbolHasInstance = &SymbolValue{ID: SymbolHasInstanceID, Description: "Symbol.hasInstance"}
	SymbolToStringTag = &SymbolValue{ID: SymbolToStringTagID, Description: "Symbol.toStringTag"}
)

// SymbolRegistry allocates symbol ids and backs Symbol.for/Symbol.keyFor.
// Each context owns one registry, keeping contexts isolated.
type SymbolRegistry struct {
	nextID uint64
	forMap map[string]*SymbolValue
}

// NewSymbolRegistry returns a registry whose ids start above the
// well-known sentinels.
func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		nextID: firstDynamicSymbolID,
		forMap: make(map[string]*SymbolValue),
	}
}

// New allocates a fresh unique symbol.
func (r *SymbolRegistry) New(description string) *SymbolValue {
	id := r.nextID
	r.nextID++
	return &SymbolValue{ID: id, Description: description}
}

// For returns the shared symbol registered under key, creating it on
// first use.
func (r *SymbolRegistry) For(key string) *SymbolValue {
	if sym, ok := r.forMap[key]; ok {
		return sym
	}
	sym := r.New(key)
	r.forMap[key] = sym
	return sym
}

// KeyFor returns the registration key of sym, or "" when sym was not
// created through For.
func (r *SymbolRegistry) KeyFor(sym *SymbolValue) (string, bool) {
	for key, s := range r.forMap {
		if s.ID == sym.ID {
			return key, true
		}
	}
	return "", false
}
