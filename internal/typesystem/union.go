package typesystem

import (
	"sort"
	"strings"

	"github.com/glintanalyzer/glint/internal/dataflow"
)

// Union is the type of an expression at a program point: a non-empty set
// of atomic types (no duplicates), plus flags and the parent-node set used
// by the data-flow recorder.
type Union struct {
	Types []Atomic

	HasMixed             bool
	PossiblyUndefined    bool
	IgnoreFalsableIssues bool

	// FromUntypedBoundary distinguishes "any-mixed" (arrived here from an
	// untyped boundary, e.g. an unannotated parameter) from "vanilla
	// mixed" (explicitly declared `mixed`). See DESIGN.md Open Question.
	FromUntypedBoundary bool

	// Parents is the parent-node set: the upstream producers of this
	// value, keyed by data-flow node id.
	Parents map[string]dataflow.Node
}

// New builds a Union from one or more atomics, deduplicating and setting
// HasMixed.
func New(types ...Atomic) *Union {
	u := &Union{}
	for _, t := range types {
		u.addAtomic(t)
	}
	return u
}

// Single is a convenience constructor for a single-atomic union.
func Single(t Atomic) *Union { return New(t) }

func (u *Union) addAtomic(t Atomic) {
	if _, ok := t.(TMixed); ok {
		u.HasMixed = true
	}
	for _, existing := range u.Types {
		if AtomicEqual(existing, t) {
			return
		}
	}
	u.Types = append(u.Types, t)
}

// Clone returns an independent copy whose mutation never affects u. The
// atomics themselves are immutable values so only the slice and parent map
// need copying.
func (u *Union) Clone() *Union {
	if u == nil {
		return nil
	}
	out := &Union{
		HasMixed:             u.HasMixed,
		PossiblyUndefined:    u.PossiblyUndefined,
		IgnoreFalsableIssues: u.IgnoreFalsableIssues,
		FromUntypedBoundary:  u.FromUntypedBoundary,
	}
	out.Types = append(out.Types, u.Types...)
	if len(u.Parents) > 0 {
		out.Parents = make(map[string]dataflow.Node, len(u.Parents))
		for k, v := range u.Parents {
			out.Parents[k] = v
		}
	}
	return out
}

// WithParents returns a copy of u whose parent-node set is replaced by the
// given nodes — the operation an assignment performs (an assignment
// "Assignment copies the union but rewrites parent nodes to point at a
// fresh node for the assignment site").
func (u *Union) WithParents(nodes ...dataflow.Node) *Union {
	out := u.Clone()
	out.Parents = make(map[string]dataflow.Node, len(nodes))
	for _, n := range nodes {
		out.Parents[n.ID] = n
	}
	return out
}

// AddParent records an additional upstream producer without discarding the
// existing parent set (used when a value is composed from several
// sources, e.g. string concatenation).
func (u *Union) AddParent(n dataflow.Node) *Union {
	out := u.Clone()
	if out.Parents == nil {
		out.Parents = make(map[string]dataflow.Node, 1)
	}
	out.Parents[n.ID] = n
	return out
}

// ParentIDs returns the sorted list of this union's parent node ids, for
// deterministic edge recording.
func (u *Union) ParentIDs() []string {
	ids := make([]string, 0, len(u.Parents))
	for id := range u.Parents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (u *Union) String() string {
	if u == nil || len(u.Types) == 0 {
		if u != nil && u.HasMixed {
			return "mixed"
		}
		return "nothing"
	}
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	s := strings.Join(parts, "|")
	if u.PossiblyUndefined {
		s += "?"
	}
	return s
}

// IsNullable reports whether null is one of the union's members.
func (u *Union) IsNullable() bool {
	return u.Has(func(a Atomic) bool { _, ok := a.(TNull); return ok })
}

// IsNothing reports whether this is the empty/bottom type.
func (u *Union) IsNothing() bool {
	return len(u.Types) == 1 && isNothing(u.Types[0])
}

func isNothing(a Atomic) bool { _, ok := a.(TNothing); return ok }

// IsSingle reports whether the union has exactly one atomic member.
func (u *Union) IsSingle() bool { return len(u.Types) == 1 }

// GetSingle returns the sole atomic member; callers must check IsSingle
// first.
func (u *Union) GetSingle() Atomic { return u.Types[0] }

// Has reports whether any atomic in the union satisfies pred.
func (u *Union) Has(pred func(Atomic) bool) bool {
	for _, t := range u.Types {
		if pred(t) {
			return true
		}
	}
	return false
}

// Filter returns a new union containing only the atomics that satisfy
// pred, preserving flags other than HasMixed (recomputed).
func (u *Union) Filter(pred func(Atomic) bool) *Union {
	out := &Union{
		PossiblyUndefined:    u.PossiblyUndefined,
		IgnoreFalsableIssues: u.IgnoreFalsableIssues,
		FromUntypedBoundary:  u.FromUntypedBoundary,
		Parents:              u.Parents,
	}
	for _, t := range u.Types {
		if pred(t) {
			out.addAtomic(t)
		}
	}
	return out
}

// Nothing returns the bottom type.
func Nothing() *Union { return New(TNothing{}) }

// Mixed returns the top type.
func Mixed() *Union { u := New(TMixed{}); return u }

// NullableOf returns T|null.
func NullableOf(u *Union) *Union {
	out := u.Clone()
	out.addAtomic(TNull{})
	return out
}
