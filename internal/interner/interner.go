// Package interner implements the process-wide string interning table.
//
// Every symbol name in the system (classes, functions, methods, properties,
// constants, file paths) is represented downstream as a dense 32-bit id.
// The engine treats ids as opaque except for the small set of well-known
// names enumerated in WellKnown. Interning happens mostly during the
// reflection/population pass (out of scope here); the engine itself only
// ever looks ids up or, rarely, interns a synthetic name it invents (e.g.
// an expression placeholder variable).
package interner

import "sync"

// ID is a dense, process-wide identifier for an interned string.
type ID uint32

// Interner maps strings to stable ids and back. After the initial scan
// phase nearly every string is already interned, so the single mutex
// guarding new insertions is never a bottleneck in practice.
type Interner struct {
	mu      sync.Mutex
	byName  map[string]ID
	byID    []string
}

// New returns an empty Interner seeded with the well-known ids so their
// numeric value is stable across runs.
func New() *Interner {
	in := &Interner{
		byName: make(map[string]ID, 64),
		byID:   make([]string, 0, 64),
	}
	for _, name := range wellKnownOrder {
		in.intern(name)
	}
	return in
}

// Intern returns the id for name, assigning a fresh one if name has not
// been seen before.
func (in *Interner) Intern(name string) ID {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.intern(name)
}

func (in *Interner) intern(name string) ID {
	if id, ok := in.byName[name]; ok {
		return id
	}
	id := ID(len(in.byID))
	in.byID = append(in.byID, name)
	in.byName[name] = id
	return id
}

// Lookup returns the string for id. It panics on an id this Interner never
// issued, which can only happen on a programming error (ids must never
// cross Interner instances).
func (in *Interner) Lookup(id ID) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(id) >= len(in.byID) {
		panic("interner: unknown id")
	}
	return in.byID[id]
}

// Get returns the id for name without interning it, reporting whether name
// was already known.
func (in *Interner) Get(name string) (ID, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id, ok := in.byName[name]
	return id, ok
}

// Well-known ids the engine inspects directly rather than treating as
// opaque: `this`/`self`/`parent` for object-context resolution, and the
// handful of builtin function names the expression analyzer special-cases
// (isset, unset, invariant...).
var wellKnownOrder = []string{
	"this",
	"self",
	"parent",
	"static",
	"isset",
	"unset",
	"invariant",
	"invariant_violation",
	"idx",
	"hh\\asio\\join",
}

const (
	This ID = iota
	Self
	Parent
	Static
	Isset
	Unset
	Invariant
	InvariantViolation
	Idx
	AsioJoin
)
