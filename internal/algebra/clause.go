package algebra

import (
	"hash/fnv"
	"sort"
	"strings"
)

// ObjectID is a (start, end) byte-offset pair identifying a syntactic node,
// used both for "creating conditional"/"creating object" provenance and
// for the wedge hash fallback.
type ObjectID struct {
	Start, End uint32
}

// assertionEntry pairs an assertion with its hash. A variable's entries
// keep the order the clause was built with; the clause hash sorts before
// hashing, so that order does not affect it.
type assertionEntry struct {
	hash      uint64
	assertion Assertion
}

// Clause represents a single disjunction: possibilities maps a variable id
// (or a synthetic "*"-prefixed expression id) to the set of assertions that
// would make this disjunct true. A Formula is a list of clauses, read as
// their conjunction (CNF).
type Clause struct {
	Possibilities map[string][]assertionEntry

	CreatingConditionalID ObjectID
	CreatingObjectID      ObjectID

	Wedge        bool
	Reconcilable bool
	Generated    bool

	hash uint64
}

// NewClause builds a clause from a plain possibilities map (var id -> list
// of assertions), computing its hash eagerly so Clause values can be
// compared cheaply afterward.
func NewClause(possibilities map[string][]Assertion, creatingConditionalID, creatingObjectID ObjectID, wedge, reconcilable, generated bool) *Clause {
	c := &Clause{
		Possibilities:          make(map[string][]assertionEntry, len(possibilities)),
		CreatingConditionalID:  creatingConditionalID,
		CreatingObjectID:       creatingObjectID,
		Wedge:                  wedge,
		Reconcilable:           reconcilable,
		Generated:              generated,
	}
	for varID, assertions := range possibilities {
		entries := make([]assertionEntry, 0, len(assertions))
		for _, a := range assertions {
			entries = append(entries, assertionEntry{hash: a.Hash(), assertion: a})
		}
		c.Possibilities[varID] = entries
	}
	c.hash = c.computeHash()
	return c
}

// Hash returns the clause's 64-bit identity.
func (c *Clause) Hash() uint64 { return c.hash }

// Equal reports clause identity: two clauses are equal iff their hashes
// match.
func (c *Clause) Equal(other *Clause) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.hash == other.hash
}

func (c *Clause) computeHash() uint64 {
	if c.Wedge || !c.Reconcilable {
		h := fnv.New64a()
		h.Write([]byte{byte(c.CreatingObjectID.Start), byte(c.CreatingObjectID.Start >> 8), byte(c.CreatingObjectID.Start >> 16), byte(c.CreatingObjectID.Start >> 24)})
		h.Write([]byte{byte(c.CreatingObjectID.End), byte(c.CreatingObjectID.End >> 8), byte(c.CreatingObjectID.End >> 16), byte(c.CreatingObjectID.End >> 24)})
		if c.Wedge {
			h.Write([]byte("wedge"))
		}
		return h.Sum64()
	}
	vars := c.sortedVars()
	h := fnv.New64a()
	for _, v := range vars {
		h.Write([]byte(v))
		h.Write([]byte{0})
		keys := make([]uint64, 0, len(c.Possibilities[v]))
		for _, e := range c.Possibilities[v] {
			keys = append(keys, e.hash)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			var buf [8]byte
			for i := range buf {
				buf[i] = byte(k >> (8 * i))
			}
			h.Write(buf[:])
			h.Write([]byte{1})
		}
	}
	return h.Sum64()
}

func (c *Clause) sortedVars() []string {
	vars := make([]string, 0, len(c.Possibilities))
	for v := range c.Possibilities {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// RemovePossibilities returns a copy of c with varID removed, or nil if
// that would leave the clause with no possibilities (an empty clause is
// unsatisfiable bookkeeping the caller must special-case).
func (c *Clause) RemovePossibilities(varID string) *Clause {
	possibilities := make(map[string][]assertionEntry, len(c.Possibilities))
	for k, v := range c.Possibilities {
		if k == varID {
			continue
		}
		possibilities[k] = v
	}
	if len(possibilities) == 0 {
		return nil
	}
	out := &Clause{
		Possibilities:         possibilities,
		CreatingConditionalID: c.CreatingConditionalID,
		CreatingObjectID:      c.CreatingObjectID,
		Wedge:                 c.Wedge,
		Reconcilable:          c.Reconcilable,
		Generated:             c.Generated,
	}
	out.hash = out.computeHash()
	return out
}

// AddPossibility returns a copy of c with varID's possibility set replaced.
func (c *Clause) AddPossibility(varID string, assertions []Assertion) *Clause {
	possibilities := make(map[string][]assertionEntry, len(c.Possibilities)+1)
	for k, v := range c.Possibilities {
		possibilities[k] = v
	}
	entries := make([]assertionEntry, 0, len(assertions))
	for _, a := range assertions {
		entries = append(entries, assertionEntry{hash: a.Hash(), assertion: a})
	}
	possibilities[varID] = entries
	out := &Clause{
		Possibilities:         possibilities,
		CreatingConditionalID: c.CreatingConditionalID,
		CreatingObjectID:      c.CreatingObjectID,
		Wedge:                 c.Wedge,
		Reconcilable:          c.Reconcilable,
		Generated:             c.Generated,
	}
	out.hash = out.computeHash()
	return out
}

// Vars returns this clause's involved variable ids in sorted order.
func (c *Clause) Vars() []string { return c.sortedVars() }

// Assertions returns the possibility list for a variable, or nil.
func (c *Clause) Assertions(varID string) []Assertion {
	entries, ok := c.Possibilities[varID]
	if !ok {
		return nil
	}
	out := make([]Assertion, len(entries))
	for i, e := range entries {
		out[i] = e.assertion
	}
	return out
}

// Contains reports clause subsumption: c.Contains(other) iff every
// (variable, assertion-set) pair in other is present in c with the
// assertion keys a subset of c's assertions for that variable.
func (c *Clause) Contains(other *Clause) bool {
	if len(other.Possibilities) > len(c.Possibilities) {
		return false
	}
	for varID, otherEntries := range other.Possibilities {
		localEntries, ok := c.Possibilities[varID]
		if !ok {
			return false
		}
		local := make(map[uint64]bool, len(localEntries))
		for _, e := range localEntries {
			local[e.hash] = true
		}
		for _, e := range otherEntries {
			if !local[e.hash] {
				return false
			}
		}
	}
	return true
}

// GetImpossibilities returns, per variable, the negation of each
// possibility — the facts that must NOT hold for the clause's disjunct on
// that variable to be satisfied by any of its other disjuncts. IsEqual/
// IsNotEqual assertions on non-literal atomics are skipped: negating "$x
// == SomeNonLiteralType" isn't informative enough to reconcile against.
func (c *Clause) GetImpossibilities() map[string][]Assertion {
	out := make(map[string][]Assertion)
	for varID, entries := range c.Possibilities {
		var impossibility []Assertion
		for _, e := range entries {
			a := e.assertion
			if a.Kind == IsEqual || a.Kind == IsNotEqual {
				if !IsLiteralAssertion(a) {
					continue
				}
			}
			impossibility = append(impossibility, a.GetNegation())
		}
		if len(impossibility) > 0 {
			out[varID] = impossibility
		}
	}
	return out
}

// String renders the clause as a human-readable boolean expression,
// collapsing single-possibility variables and bracketing multi-possibility
// ones.
func (c *Clause) String() string {
	vars := c.sortedVars()
	if len(vars) == 0 {
		return "<empty>"
	}
	clauseStrings := make([]string, 0, len(vars))
	for _, varID := range vars {
		display := varID
		if strings.HasPrefix(display, "*") {
			display = "<expr>"
		}
		entries := c.Possibilities[varID]
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			parts = append(parts, assertionClauseString(display, e.assertion))
		}
		if len(parts) > 1 {
			clauseStrings = append(clauseStrings, "("+strings.Join(parts, ") || (")+")")
		} else {
			clauseStrings = append(clauseStrings, parts[0])
		}
	}
	if len(clauseStrings) > 1 {
		return "(" + strings.Join(clauseStrings, ") || (") + ")"
	}
	return clauseStrings[0]
}

func assertionClauseString(varID string, a Assertion) string {
	switch a.Kind {
	case Any:
		return varID + " is any"
	case Falsy:
		return "!" + varID
	case Truthy:
		return varID
	case IsType, IsEqual:
		return varID + " is " + a.Type.String()
	case IsNotType, IsNotEqual:
		return varID + " is not " + a.Type.String()
	default:
		return varID + " " + a.String()
	}
}
