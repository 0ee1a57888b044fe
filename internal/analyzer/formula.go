package analyzer

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

func objectIDFor(n ast.Node) algebra.ObjectID {
	p := n.Pos()
	return algebra.ObjectID{Start: p.Start, End: p.End}
}

// opaqueFormula produces a single wedge clause for a condition the
// converter can't decompose into assertions, so it is never treated as
// either a narrowing truth or a contradiction.
func opaqueFormula(n ast.Node) algebra.Formula {
	oid := objectIDFor(n)
	return algebra.Formula{algebra.NewClause(nil, oid, oid, true, false, false)}
}

func singleAssertionFormula(n ast.Node, varID string, a algebra.Assertion) algebra.Formula {
	oid := objectIDFor(n)
	possibilities := map[string][]algebra.Assertion{varID: {a}}
	return algebra.Formula{algebra.NewClause(possibilities, oid, oid, false, true, false)}
}

// resolveTypeHintAtomic maps a `Type` name appearing in an `as`/`is`
// expression to the atomic it asserts. Scalar keywords map to their
// builtin atomic; anything else is assumed to name a class/interface.
func resolveTypeHintAtomic(name string) typesystem.Atomic {
	switch name {
	case "int":
		return typesystem.TInt{}
	case "string":
		return typesystem.TString{}
	case "bool":
		return typesystem.TBool{}
	case "float":
		return typesystem.TFloat{}
	case "num":
		return typesystem.TNum{}
	case "arraykey":
		return typesystem.TArraykey{}
	case "mixed":
		return typesystem.TMixed{}
	case "null":
		return typesystem.TNull{}
	default:
		return typesystem.TNamedObject{Name: name}
	}
}

// GetFormula converts a boolean-valued condition expression into the CNF
// formula of facts it establishes when true. It only ever decomposes
// syntactic patterns that name a single variable directly (truthiness,
// `=== null`, `is`/`as?` type tests, `&&`/`||`/`!`); anything else becomes
// an opaque wedge clause so the reconciler neither narrows nor
// contradicts on it.
func GetFormula(n ast.Expression) algebra.Formula {
	switch e := n.(type) {
	case *ast.Variable:
		return singleAssertionFormula(e, e.Name, algebra.NewTruthy())

	case *ast.UnaryExpr:
		if e.Op == "!" {
			inner := GetFormula(e.Operand)
			negated, err := algebra.NegateFormula(inner)
			if err != nil {
				return opaqueFormula(e)
			}
			return negated
		}
		return opaqueFormula(e)

	case *ast.IsExpr:
		if v, ok := e.Inner.(*ast.Variable); ok {
			return singleAssertionFormula(e, v.Name, algebra.NewIsType(resolveTypeHintAtomic(e.TypeName)))
		}
		return opaqueFormula(e)

	case *ast.AsExpr:
		if !e.Nullable {
			return opaqueFormula(e)
		}
		if v, ok := e.Inner.(*ast.Variable); ok {
			return singleAssertionFormula(e, v.Name, algebra.NewIsType(resolveTypeHintAtomic(e.TypeName)))
		}
		return opaqueFormula(e)

	case *ast.BinaryExpr:
		return formulaFromComparison(e)

	case *ast.LogicalExpr:
		left := GetFormula(e.Left)
		right := GetFormula(e.Right)
		if e.Op == "&&" {
			return algebra.AndFormula(left, right)
		}
		return algebra.OrFormula(left, right, objectIDFor(e))

	default:
		return opaqueFormula(e)
	}
}

func formulaFromComparison(e *ast.BinaryExpr) algebra.Formula {
	variable, other, ok := splitVariableComparison(e)
	if !ok {
		return opaqueFormula(e)
	}

	var assertion algebra.Assertion
	switch lit := other.(type) {
	case *ast.NullLiteral:
		switch e.Op {
		case "===", "==":
			assertion = algebra.NewIsType(typesystem.TNull{})
		case "!==", "!=":
			assertion = algebra.NewIsNotType(typesystem.TNull{})
		default:
			return opaqueFormula(e)
		}
	case *ast.IntLiteral:
		switch e.Op {
		case "===", "==":
			assertion = algebra.NewIsEqual(typesystem.TLiteralInt{Value: lit.Value})
		case "!==", "!=":
			assertion = algebra.NewIsNotEqual(typesystem.TLiteralInt{Value: lit.Value})
		default:
			return opaqueFormula(e)
		}
	case *ast.StringLiteral:
		switch e.Op {
		case "===", "==":
			assertion = algebra.NewIsEqual(typesystem.TLiteralString{Value: lit.Value})
		case "!==", "!=":
			assertion = algebra.NewIsNotEqual(typesystem.TLiteralString{Value: lit.Value})
		default:
			return opaqueFormula(e)
		}
	default:
		return opaqueFormula(e)
	}
	return singleAssertionFormula(e, variable.Name, assertion)
}

// splitVariableComparison recognizes `$v OP literal` or `literal OP $v`.
func splitVariableComparison(e *ast.BinaryExpr) (*ast.Variable, ast.Expression, bool) {
	if v, ok := e.Left.(*ast.Variable); ok {
		return v, e.Right, true
	}
	if v, ok := e.Right.(*ast.Variable); ok {
		return v, e.Left, true
	}
	return nil, nil, false
}
