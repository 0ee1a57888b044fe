// Package algebra implements the CNF assertion-formula engine: clauses,
// formula composition, negation, simplification, and truth extraction.
package algebra

import (
	"hash/fnv"

	"github.com/glintanalyzer/glint/internal/typesystem"
)

// AssertionKind distinguishes the finite sum of assertion shapes a
// conditional expression can produce.
type AssertionKind int

const (
	Any AssertionKind = iota
	Truthy
	Falsy
	IsType
	IsNotType
	IsEqual
	IsNotEqual
	InArray
	NotInArray
)

func (k AssertionKind) String() string {
	switch k {
	case Truthy:
		return "truthy"
	case Falsy:
		return "falsy"
	case IsType:
		return "is_type"
	case IsNotType:
		return "is_not_type"
	case IsEqual:
		return "is_equal"
	case IsNotEqual:
		return "is_not_equal"
	case InArray:
		return "in_array"
	case NotInArray:
		return "not_in_array"
	default:
		return "any"
	}
}

// Assertion is a single fact that may be asserted about a variable:
// "$x is int", "$x is not null", "$x === 5", and so on.
type Assertion struct {
	Kind  AssertionKind
	Type  typesystem.Atomic // for IsType/IsNotType/IsEqual/IsNotEqual
	Union *typesystem.Union // for InArray/NotInArray
}

func NewTruthy() Assertion { return Assertion{Kind: Truthy} }
func NewFalsy() Assertion  { return Assertion{Kind: Falsy} }
func NewIsType(t typesystem.Atomic) Assertion    { return Assertion{Kind: IsType, Type: t} }
func NewIsNotType(t typesystem.Atomic) Assertion { return Assertion{Kind: IsNotType, Type: t} }
func NewIsEqual(t typesystem.Atomic) Assertion    { return Assertion{Kind: IsEqual, Type: t} }
func NewIsNotEqual(t typesystem.Atomic) Assertion { return Assertion{Kind: IsNotEqual, Type: t} }
func NewInArray(u *typesystem.Union) Assertion    { return Assertion{Kind: InArray, Union: u} }
func NewNotInArray(u *typesystem.Union) Assertion { return Assertion{Kind: NotInArray, Union: u} }

// GetNegation returns the syntactic negation of the assertion. Negation is
// an involution: a.GetNegation().GetNegation() == a.
func (a Assertion) GetNegation() Assertion {
	switch a.Kind {
	case Truthy:
		return Assertion{Kind: Falsy}
	case Falsy:
		return Assertion{Kind: Truthy}
	case IsType:
		return Assertion{Kind: IsNotType, Type: a.Type}
	case IsNotType:
		return Assertion{Kind: IsType, Type: a.Type}
	case IsEqual:
		return Assertion{Kind: IsNotEqual, Type: a.Type}
	case IsNotEqual:
		return Assertion{Kind: IsEqual, Type: a.Type}
	case InArray:
		return Assertion{Kind: NotInArray, Union: a.Union}
	case NotInArray:
		return Assertion{Kind: InArray, Union: a.Union}
	default:
		return Assertion{Kind: Any}
	}
}

// IsNegationOf reports whether a is the negation of b; used by simplify's
// absorption rule (clauses differing only in one variable's assertion
// being negated).
func (a Assertion) IsNegationOf(b Assertion) bool {
	return a.Hash() == b.GetNegation().Hash()
}

func (a Assertion) String() string {
	switch a.Kind {
	case Truthy:
		return "truthy"
	case Falsy:
		return "falsy"
	case IsType:
		return "is " + a.Type.String()
	case IsNotType:
		return "is not " + a.Type.String()
	case IsEqual:
		return "== " + a.Type.String()
	case IsNotEqual:
		return "!= " + a.Type.String()
	case InArray:
		return "in " + a.Union.String()
	case NotInArray:
		return "not in " + a.Union.String()
	default:
		return "any"
	}
}

// Hash is a stable 64-bit identity for the assertion, used as the
// possibility-map key within a clause (no third-party hashing package
// appears anywhere in the example corpus, so this uses the standard
// library's FNV-1a).
func (a Assertion) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.Kind.String()))
	h.Write([]byte{0})
	h.Write([]byte(a.String()))
	return h.Sum64()
}

// Contradicts reports whether a and b can never both hold of the same
// variable at the same program point: either one is the exact negation of
// the other, or both pin the variable to a different literal value via
// IsEqual (a variable cannot equal two distinct literals at once).
func (a Assertion) Contradicts(b Assertion) bool {
	if a.IsNegationOf(b) {
		return true
	}
	if a.Kind == IsEqual && b.Kind == IsEqual && IsLiteralAssertion(a) && IsLiteralAssertion(b) {
		return !typesystem.AtomicEqual(a.Type, b.Type)
	}
	return false
}

// IsLiteralAssertion reports whether an IsEqual/IsNotEqual assertion
// targets a literal atomic, used by Clause.GetImpossibilities to decide
// whether the negation is informative.
func IsLiteralAssertion(a Assertion) bool {
	if a.Kind != IsEqual && a.Kind != IsNotEqual {
		return false
	}
	return typesystem.IsLiteral(a.Type)
}
