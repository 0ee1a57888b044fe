// Package typesystem implements the type lattice: the atomic and union
// type representation, combination (least upper bound), subtyping, and
// generic template substitution.
package typesystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Atomic is a single primitive or constructed type, e.g. `int`,
// `vec<string>`, `FooClass`. Every concrete atomic kind is
// a distinct Go type implementing this interface; callers dispatch with a
// type switch rather than a Kind() enum.
type Atomic interface {
	String() string
	atomicNode()
}

// --- scalars -----------------------------------------------------------

type TInt struct{}
type TFloat struct{}
type TString struct{}
type TBool struct{}
type TArraykey struct{}
type TNum struct{}
type TNothing struct{}
type TNull struct{}
type TVoid struct{}
type TMixed struct{}
type TScalar struct{}

func (TInt) atomicNode()      {}
func (TFloat) atomicNode()    {}
func (TString) atomicNode()   {}
func (TBool) atomicNode()     {}
func (TArraykey) atomicNode() {}
func (TNum) atomicNode()      {}
func (TNothing) atomicNode()  {}
func (TNull) atomicNode()     {}
func (TVoid) atomicNode()     {}
func (TMixed) atomicNode()    {}
func (TScalar) atomicNode()   {}

func (TInt) String() string      { return "int" }
func (TFloat) String() string    { return "float" }
func (TString) String() string   { return "string" }
func (TBool) String() string     { return "bool" }
func (TArraykey) String() string { return "arraykey" }
func (TNum) String() string      { return "num" }
func (TNothing) String() string  { return "nothing" }
func (TNull) String() string     { return "null" }
func (TVoid) String() string     { return "void" }
func (TMixed) String() string    { return "mixed" }
func (TScalar) String() string   { return "scalar" }

// --- literal refinements ------------------------------------------------

type TLiteralInt struct{ Value int64 }
type TLiteralString struct{ Value string }
type TClassname struct{ Value string }

func (TLiteralInt) atomicNode()    {}
func (TLiteralString) atomicNode() {}
func (TClassname) atomicNode()     {}

func (t TLiteralInt) String() string    { return strconv.FormatInt(t.Value, 10) }
func (t TLiteralString) String() string { return strconv.Quote(t.Value) }
func (t TClassname) String() string     { return "classname<" + t.Value + ">" }

// --- containers ----------------------------------------------------------

// KnownEntry is one entry of a container's "known entries" map, a map
// from literal index/key to (possibly-absent, type); String renders the
// entries sorted by key.
type KnownEntry struct {
	PossiblyUndefined bool
	Type              *Union
}

// TVec is `vec<T>`, optionally carrying known entries keyed by literal
// index (used for tuple-shaped vecs, where Param is Nothing).
type TVec struct {
	Param    *Union
	Known    map[int]KnownEntry
	NonEmpty bool
}

// TKeyset is `keyset<T>`.
type TKeyset struct {
	Param    *Union
	NonEmpty bool
}

// TDict is `dict<K,V>`, optionally carrying known entries keyed by literal
// string or int index (stored as its canonical string form).
type TDict struct {
	Key      *Union
	Value    *Union
	Known    map[string]KnownEntry
	NonEmpty bool
}

func (TVec) atomicNode()    {}
func (TKeyset) atomicNode() {}
func (TDict) atomicNode()   {}

func (t TVec) String() string {
	if len(t.Known) > 0 {
		keys := make([]int, 0, len(t.Known))
		for k := range t.Known {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, knownEntryString(strconv.Itoa(k), t.Known[k]))
		}
		return "vec(" + strings.Join(parts, ", ") + ")"
	}
	return "vec<" + unionOrMixed(t.Param) + ">"
}

func (t TKeyset) String() string {
	return "keyset<" + unionOrMixed(t.Param) + ">"
}

func (t TDict) String() string {
	if len(t.Known) > 0 {
		keys := make([]string, 0, len(t.Known))
		for k := range t.Known {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, knownEntryString(k, t.Known[k]))
		}
		return "dict(" + strings.Join(parts, ", ") + ")"
	}
	return "dict<" + unionOrMixed(t.Key) + ", " + unionOrMixed(t.Value) + ">"
}

func unionOrMixed(u *Union) string {
	if u == nil {
		return "mixed"
	}
	return u.String()
}

func knownEntryString(key string, e KnownEntry) string {
	suffix := ""
	if e.PossiblyUndefined {
		suffix = "?"
	}
	return fmt.Sprintf("%s%s: %s", key, suffix, unionOrMixed(e.Type))
}

// --- enum / object / generic --------------------------------------------

// TEnumCase is one literal case of an enum, e.g. `Suit::HEARTS`.
type TEnumCase struct {
	EnumName string
	CaseName string
}

func (TEnumCase) atomicNode() {}
func (t TEnumCase) String() string { return t.EnumName + "::" + t.CaseName }

// TNamedObject is a named class/interface type `C<T1,...>`.
type TNamedObject struct {
	Name         string
	TypeParams   []*Union
	IsThis       bool
	Intersection []Atomic
}

func (TNamedObject) atomicNode() {}

func (t TNamedObject) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if t.IsThis {
		b.WriteString("<this>")
	}
	if len(t.TypeParams) > 0 {
		parts := make([]string, len(t.TypeParams))
		for i, p := range t.TypeParams {
			parts[i] = unionOrMixed(p)
		}
		b.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	for _, inter := range t.Intersection {
		b.WriteString(" & " + inter.String())
	}
	return b.String()
}

// TGenericParam is a generic type parameter `T` bound by an `as` clause and
// tagged with the id of the entity (class or function) that defines it, so
// that two same-named `T`s from different scopes are not conflated.
type TGenericParam struct {
	Name           string
	As             *Union
	DefiningEntity string
}

func (TGenericParam) atomicNode() {}
func (t TGenericParam) String() string {
	if t.As != nil {
		return t.Name + " as " + t.As.String()
	}
	return t.Name
}

// TTypeAlias is a reference to a type alias declaration, to be expanded
// against the Codebase by typesystem.Expand.
type TTypeAlias struct {
	Name       string
	TypeParams []*Union
}

func (TTypeAlias) atomicNode() {}
func (t TTypeAlias) String() string {
	if len(t.TypeParams) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.TypeParams))
	for i, p := range t.TypeParams {
		parts[i] = unionOrMixed(p)
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// TAwaitable wraps the value type of an `Awaitable<T>`.
type TAwaitable struct {
	Inner *Union
}

func (TAwaitable) atomicNode() {}
func (t TAwaitable) String() string { return "Awaitable<" + unionOrMixed(t.Inner) + ">" }

// EffectMask encodes purity / writes-properties / arbitrary-effects for a
// closure or function.
type EffectMask uint8

const (
	EffectPure           EffectMask = 0
	EffectWriteProps     EffectMask = 1 << 0
	EffectWriteLocalProps EffectMask = 1 << 1
	EffectImpure         EffectMask = 1 << 2
)

func (m EffectMask) IsPure() bool   { return m == EffectPure }
func (m EffectMask) Has(f EffectMask) bool { return m&f != 0 }

func (m EffectMask) String() string {
	if m.IsPure() {
		return "pure"
	}
	var parts []string
	if m.Has(EffectWriteProps) {
		parts = append(parts, "write_props")
	}
	if m.Has(EffectWriteLocalProps) {
		parts = append(parts, "write_local_props")
	}
	if m.Has(EffectImpure) {
		parts = append(parts, "impure")
	}
	return strings.Join(parts, "|")
}

// TClosure is `(P1,...,Pn) -> R` with an effect bitmask.
type TClosure struct {
	Params   []*Union
	Return   *Union
	Effects  EffectMask
	Variadic bool
}

func (TClosure) atomicNode() {}
func (t TClosure) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = unionOrMixed(p)
	}
	return "(function(" + strings.Join(parts, ", ") + "): " + unionOrMixed(t.Return) + ")"
}

// TClassConstant references an unresolved class constant, e.g. `C::FOO`,
// to be expanded against the Codebase.
type TClassConstant struct {
	ClassName string
	ConstName string
}

func (TClassConstant) atomicNode() {}
func (t TClassConstant) String() string { return t.ClassName + "::" + t.ConstName }

// TTypeVariable is an inference placeholder used internally while solving
// template parameters; it never survives into a finalized expression type.
type TTypeVariable struct {
	Name string
}

func (TTypeVariable) atomicNode() {}
func (t TTypeVariable) String() string { return "#" + t.Name }

// IsLiteral reports whether a is one of the literal-refinement atomics
// whose identity (not just its supertype) matters for equality/assertion
// purposes.
func IsLiteral(a Atomic) bool {
	switch a.(type) {
	case TLiteralInt, TLiteralString, TClassname, TEnumCase:
		return true
	default:
		return false
	}
}

// AtomicEqual is structural equality between two atomics, used for
// de-duplicating a union's member list.
func AtomicEqual(a, b Atomic) bool {
	if ga, ok := a.(TGenericParam); ok {
		if gb, ok := b.(TGenericParam); ok && ga.DefiningEntity != gb.DefiningEntity {
			return false
		}
	}
	return a.String() == b.String() && sameAtomicKind(a, b)
}

func sameAtomicKind(a, b Atomic) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}
