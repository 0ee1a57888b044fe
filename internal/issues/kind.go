// Package issues defines the diagnostic vocabulary the analyzer emits: the
// Issue record itself, the category enum, byte-range text replacements for
// autofixes, and the per-file suppression table consulted before every
// append.
package issues

// Kind classifies a diagnostic. The full category list mirrors the
// analyzer's coverage of the type system, control flow, and data flow;
// new kinds are added as the analyzer grows new checks.
type Kind string

const (
	UndefinedVariable       Kind = "UndefinedVariable"
	UnusedVariable          Kind = "UnusedVariable"
	UnusedParameter         Kind = "UnusedParameter"
	UnusedExpression        Kind = "UnusedExpression"
	UnevaluatedCode         Kind = "UnevaluatedCode"
	MixedOperand            Kind = "MixedOperand"
	MixedAssignment         Kind = "MixedAssignment"
	NullableReturnValue     Kind = "NullableReturnValue"
	InvalidReturnType       Kind = "InvalidReturnType"
	InvalidArgument         Kind = "InvalidArgument"
	TooFewArguments         Kind = "TooFewArguments"
	TooManyArguments        Kind = "TooManyArguments"
	ParadoxicalCondition    Kind = "ParadoxicalCondition"
	RedundantCondition      Kind = "RedundantCondition"
	RedundantTypeComparison Kind = "RedundantTypeComparison"
	TypeDoesNotContainType  Kind = "TypeDoesNotContainType"
	PossiblyUndefinedArrayOffset Kind = "PossiblyUndefinedArrayOffset"
	NonExistentMethod       Kind = "NonExistentMethod"
	NonExistentFunction     Kind = "NonExistentFunction"
	NonExistentProperty     Kind = "NonExistentProperty"
	NonExistentClass        Kind = "NonExistentClass"
	TaintedInput            Kind = "TaintedInput"
	ImpureFunctionCall      Kind = "ImpureFunctionCall"
	ImpurePropertyWrite     Kind = "ImpurePropertyWrite"
	UndefinedMethod         Kind = "UndefinedMethod"
	PossiblyNullPropertyFetch Kind = "PossiblyNullPropertyFetch"
	FalsableReturnStatement Kind = "FalsableReturnStatement"
)

// String satisfies fmt.Stringer so Kind prints without a type conversion.
func (k Kind) String() string { return string(k) }
