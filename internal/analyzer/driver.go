package analyzer

import (
	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/context"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// Result is the outcome of analyzing a single function-like body: its
// recorded per-expression data plus the inferred and declared return
// types, for the caller to compare or merge into a file-level report.
type Result struct {
	Data           *Data
	InferredReturn *typesystem.Union
	DeclaredReturn *typesystem.Union
	FellThrough    bool
}

// AnalyzeFunction runs the whole per-function pipeline:
// seed a fresh scope from the declared parameters, walk the body,
// collect the inferred return type from every reached `return`, compare
// it against the declared return type, and report unused parameters.
func AnalyzeFunction(cb *codebase.Codebase, info *codebase.FunctionLikeInfo, fn *ast.Function, file string, graphKind dataflow.GraphKind, suppressions *issues.Suppressions, fixmes issues.FixmeTable) *Result {
	data := NewData(file, graphKind, suppressions, fixmes)

	fc := &context.FunctionContext{
		PureFunctionCall: info != nil && info.Pure,
	}
	scope := context.New(fc)

	functionID := fn.Name
	paramSources := make([]dataflow.Node, 0, len(fn.ParamNames))
	for i, name := range fn.ParamNames {
		var paramType *typesystem.Union
		if info != nil {
			if p := info.ParamAt(i); p != nil && p.SignatureType != nil {
				paramType = p.SignatureType
			}
		}
		if paramType == nil {
			paramType = typesystem.Mixed()
		}
		source := dataflow.NewVariableUseSource(fn.Pos(), name, dataflow.SourceNonPrivateParam, fc.PureFunctionCall, false)
		data.Graph.AddNode(source)
		scope.VarsInScope[name] = paramType.WithParents(source)
		scope.AssignedVarIDs[name] = true
		paramSources = append(paramSources, source)
	}

	w := NewWalker(cb, data, scope, functionID)
	fn.Accept(w)

	fellThrough := w.lastAction == context.ActionNone
	w.FellThrough = fellThrough
	if fellThrough {
		w.Returns = append(w.Returns, typesystem.Single(typesystem.TVoid{}))
		w.ReturnValuePositions = append(w.ReturnValuePositions, fn.Pos())
	}
	inferred := typesystem.Combine(w.Returns, w.variance(), false)
	if inferred == nil {
		inferred = typesystem.Single(typesystem.TVoid{})
	}

	var declared *typesystem.Union
	if info != nil {
		declared = info.ReturnType
	}
	if declared != nil {
		nullableLeakReported := false
		if !declared.IsNullable() {
			for i, rt := range w.Returns {
				if rt.IsNullable() {
					at := fn.Pos()
					if i < len(w.ReturnValuePositions) {
						at = w.ReturnValuePositions[i]
					}
					data.Accumulator.Report(issues.New(issues.NullableReturnValue, "returned value may be null but declared return type "+declared.String()+" is not nullable", at, functionID), nil)
					nullableLeakReported = true
				}
			}
		}
		if ok, _ := typesystem.IsContainedBy(inferred, declared, w.hierarchy()); !ok && !nullableLeakReported {
			data.Accumulator.Report(issues.New(issues.InvalidReturnType, "inferred return type "+inferred.String()+" does not fit declared "+declared.String(), fn.Pos(), functionID), nil)
		}
	}

	for _, source := range paramSources {
		if !data.Graph.HasInboundEdge(source.ID) && !data.Graph.ReachesAnySink(source.ID) {
			data.Accumulator.Report(issues.New(issues.UnusedParameter, "parameter "+source.Label+" is never used", fn.Pos(), functionID), nil)
		}
	}

	return &Result{Data: data, InferredReturn: inferred, DeclaredReturn: declared, FellThrough: fellThrough}
}
