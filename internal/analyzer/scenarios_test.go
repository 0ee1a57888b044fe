package analyzer

import (
	"testing"

	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/interner"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// These six reproduce the named end-to-end scenarios verbatim: one test
// per scenario, each given as an input → expected issue/inferred-type
// pair.

// 1. function f(?int $x): int { return $x; }
// → one issue NullableReturnValue at the $x in return.
func TestScenarioNullableParamReturnedAsNonNullable(t *testing.T) {
	xVar := &ast.Variable{Name: "$x"}
	xVar.At = at(30, 32)
	ret := &ast.ReturnStatement{Value: xVar}
	ret.At = at(23, 33)
	body := &ast.Block{Statements: []ast.Statement{ret}}
	body.At = at(23, 33)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$x"}, Body: body}
	fn.At = at(0, 33)

	info := codebase.NewFunctionLikeInfo("f")
	info.Params = []*codebase.FunctionLikeParameter{
		{Name: "$x", SignatureType: typesystem.NullableOf(typesystem.Single(typesystem.TInt{})), IsNullable: true},
	}
	info.ReturnType = typesystem.Single(typesystem.TInt{})

	result := AnalyzeFunction(nil, info, fn, "f.hack", dataflow.FunctionBody, nil, nil)

	var found *issues.Issue
	for i := range result.Data.Accumulator.Issues() {
		iss := result.Data.Accumulator.Issues()[i]
		if iss.Kind == issues.NullableReturnValue {
			found = &iss
		}
	}
	if found == nil {
		t.Fatalf("expected NullableReturnValue, got %v", result.Data.Accumulator.Issues())
	}
	if found.Pos != xVar.Pos() {
		t.Fatalf("expected NullableReturnValue at the returned $x (%v), got %v", xVar.Pos(), found.Pos)
	}
}

// 2. function f(mixed $x): int { if ($x is int) { return $x; } return 0; }
// → no issues; inferred type of $x inside the then-branch is int.
func TestScenarioIsIntNarrowsThenReturnsInt(t *testing.T) {
	xVar1 := &ast.Variable{Name: "$x"}
	xVar1.At = at(0, 2)
	isExpr := &ast.IsExpr{Inner: xVar1, TypeName: "int"}
	isExpr.At = at(0, 10)

	xVar2 := &ast.Variable{Name: "$x"}
	xVar2.At = at(20, 22)
	retThen := &ast.ReturnStatement{Value: xVar2}
	retThen.At = at(20, 30)
	thenBlock := &ast.Block{Statements: []ast.Statement{retThen}}
	thenBlock.At = at(15, 35)

	ifStmt := &ast.IfStatement{Cond: isExpr, Then: thenBlock}
	ifStmt.At = at(0, 35)

	zero := &ast.IntLiteral{Value: 0}
	zero.At = at(40, 41)
	retTail := &ast.ReturnStatement{Value: zero}
	retTail.At = at(40, 48)

	body := &ast.Block{Statements: []ast.Statement{ifStmt, retTail}}
	body.At = at(0, 48)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$x"}, Body: body}
	fn.At = at(0, 48)

	info := codebase.NewFunctionLikeInfo("f")
	info.Params = []*codebase.FunctionLikeParameter{
		{Name: "$x", SignatureType: typesystem.Mixed()},
	}
	info.ReturnType = typesystem.Single(typesystem.TInt{})

	result := AnalyzeFunction(nil, info, fn, "f.hack", dataflow.FunctionBody, nil, nil)

	if len(result.Data.Accumulator.Issues()) != 0 {
		t.Fatalf("expected no issues, got %v", result.Data.Accumulator.Issues())
	}
	narrowed := result.Data.TypeOf(xVar2.Pos())
	if narrowed == nil || !narrowed.IsSingle() {
		t.Fatalf("expected $x narrowed to a single type inside the then-branch, got %v", narrowed)
	}
	if _, ok := narrowed.GetSingle().(typesystem.TInt); !ok {
		t.Fatalf("expected $x narrowed to int inside the then-branch, got %s", narrowed)
	}
}

// 3. function f(int $x): int { if ($x === 0 && $x === 1) { return 1; } return 0; }
// → one issue ParadoxicalCondition on the compound condition.
func TestScenarioContradictoryEqualityIsParadoxical(t *testing.T) {
	xVar1 := &ast.Variable{Name: "$x"}
	xVar1.At = at(4, 6)
	zero := &ast.IntLiteral{Value: 0}
	zero.At = at(11, 12)
	left := &ast.BinaryExpr{Op: "===", Left: xVar1, Right: zero}
	left.At = at(4, 12)

	xVar2 := &ast.Variable{Name: "$x"}
	xVar2.At = at(16, 18)
	one := &ast.IntLiteral{Value: 1}
	one.At = at(23, 24)
	right := &ast.BinaryExpr{Op: "===", Left: xVar2, Right: one}
	right.At = at(16, 24)

	cond := &ast.LogicalExpr{Op: "&&", Left: left, Right: right}
	cond.At = at(4, 24)

	oneLit := &ast.IntLiteral{Value: 1}
	oneLit.At = at(30, 31)
	retThen := &ast.ReturnStatement{Value: oneLit}
	retThen.At = at(30, 38)
	thenBlock := &ast.Block{Statements: []ast.Statement{retThen}}
	thenBlock.At = at(26, 40)

	ifStmt := &ast.IfStatement{Cond: cond, Then: thenBlock}
	ifStmt.At = at(0, 40)

	zeroTail := &ast.IntLiteral{Value: 0}
	zeroTail.At = at(50, 51)
	retTail := &ast.ReturnStatement{Value: zeroTail}
	retTail.At = at(50, 58)

	body := &ast.Block{Statements: []ast.Statement{ifStmt, retTail}}
	body.At = at(0, 58)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$x"}, Body: body}
	fn.At = at(0, 58)

	info := codebase.NewFunctionLikeInfo("f")
	info.Params = []*codebase.FunctionLikeParameter{
		{Name: "$x", SignatureType: typesystem.Single(typesystem.TInt{})},
	}
	info.ReturnType = typesystem.Single(typesystem.TInt{})

	result := AnalyzeFunction(nil, info, fn, "f.hack", dataflow.FunctionBody, nil, nil)

	found := false
	for _, iss := range result.Data.Accumulator.Issues() {
		if iss.Kind == issues.ParadoxicalCondition {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ParadoxicalCondition, got %v", result.Data.Accumulator.Issues())
	}
}

// 4. function f(vec<int> $v): int { foreach ($v as $i) { return $i; } return 0; }
// → no issues; inferred type of $i is int.
func TestScenarioForeachOverVecIntInfersInt(t *testing.T) {
	vVar := &ast.Variable{Name: "$v"}
	vVar.At = at(0, 2)

	iVar := &ast.Variable{Name: "$i"}
	iVar.At = at(30, 32)
	retInner := &ast.ReturnStatement{Value: iVar}
	retInner.At = at(30, 39)
	loopBody := &ast.Block{Statements: []ast.Statement{retInner}}
	loopBody.At = at(20, 41)

	foreachStmt := &ast.ForeachStatement{Collection: vVar, ValueVar: &ast.Variable{Name: "$i"}, Body: loopBody}
	foreachStmt.At = at(0, 41)

	zero := &ast.IntLiteral{Value: 0}
	zero.At = at(50, 51)
	retTail := &ast.ReturnStatement{Value: zero}
	retTail.At = at(50, 58)

	body := &ast.Block{Statements: []ast.Statement{foreachStmt, retTail}}
	body.At = at(0, 58)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$v"}, Body: body}
	fn.At = at(0, 58)

	info := codebase.NewFunctionLikeInfo("f")
	info.Params = []*codebase.FunctionLikeParameter{
		{Name: "$v", SignatureType: typesystem.Single(typesystem.TVec{Param: typesystem.Single(typesystem.TInt{})})},
	}
	info.ReturnType = typesystem.Single(typesystem.TInt{})

	result := AnalyzeFunction(nil, info, fn, "f.hack", dataflow.FunctionBody, nil, nil)

	if len(result.Data.Accumulator.Issues()) != 0 {
		t.Fatalf("expected no issues, got %v", result.Data.Accumulator.Issues())
	}
	valType := result.Data.TypeOf(iVar.Pos())
	if valType == nil || !valType.IsSingle() {
		t.Fatalf("expected $i to carry a single type, got %v", valType)
	}
	if _, ok := valType.GetSingle().(typesystem.TInt); !ok {
		t.Fatalf("expected $i inferred as int, got %s", valType)
	}
}

// 5. function f(dict<string,int> $d, string $k): int { return $d[$k] ?? 0; }
// → no issues; inferred type of the whole ?? expression is int.
func TestScenarioDictFetchCoalesceInfersInt(t *testing.T) {
	dVar := &ast.Variable{Name: "$d"}
	dVar.At = at(40, 42)
	kVar := &ast.Variable{Name: "$k"}
	kVar.At = at(43, 45)
	fetch := &ast.ArrayFetchExpr{Array: dVar, Key: kVar}
	fetch.At = at(40, 46)

	zero := &ast.IntLiteral{Value: 0}
	zero.At = at(50, 51)
	coalesce := &ast.NullCoalesceExpr{Left: fetch, Right: zero}
	coalesce.At = at(40, 51)

	ret := &ast.ReturnStatement{Value: coalesce}
	ret.At = at(33, 52)
	body := &ast.Block{Statements: []ast.Statement{ret}}
	body.At = at(33, 52)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$d", "$k"}, Body: body}
	fn.At = at(0, 52)

	info := codebase.NewFunctionLikeInfo("f")
	info.Params = []*codebase.FunctionLikeParameter{
		{Name: "$d", SignatureType: typesystem.Single(typesystem.TDict{
			Key:   typesystem.Single(typesystem.TString{}),
			Value: typesystem.Single(typesystem.TInt{}),
		})},
		{Name: "$k", SignatureType: typesystem.Single(typesystem.TString{})},
	}
	info.ReturnType = typesystem.Single(typesystem.TInt{})

	result := AnalyzeFunction(nil, info, fn, "f.hack", dataflow.FunctionBody, nil, nil)

	if len(result.Data.Accumulator.Issues()) != 0 {
		t.Fatalf("expected no issues, got %v", result.Data.Accumulator.Issues())
	}
	whole := result.Data.TypeOf(coalesce.Pos())
	if whole == nil || !whole.IsSingle() {
		t.Fatalf("expected the ?? expression to carry a single type, got %v", whole)
	}
	if _, ok := whole.GetSingle().(typesystem.TInt); !ok {
		t.Fatalf("expected the ?? expression inferred as int, got %s", whole)
	}
}

// 6. function f((function(int): string) $cb, int $x): string { return $cb($x); }
// called as f(fun(string $s): string ==> $s, 3) → one issue at the
// callsite: the first argument's (function(string): string) does not fit
// the declared (function(int): string) parameter (contravariant parameter
// mismatch). The callee's own body ($cb($x), a call through a callable
// value) is checked separately and raises nothing, since $cb's declared
// type does accept an int.
func TestScenarioClosureArgumentContravarianceMismatch(t *testing.T) {
	in := interner.New()
	cb := codebase.New(in)

	fID := in.Intern("f")
	fInfo := codebase.NewFunctionLikeInfo("f")
	fInfo.Params = []*codebase.FunctionLikeParameter{
		{Name: "$cb", SignatureType: typesystem.Single(typesystem.TClosure{
			Params: []*typesystem.Union{typesystem.Single(typesystem.TInt{})},
			Return: typesystem.Single(typesystem.TString{}),
		})},
		{Name: "$x", SignatureType: typesystem.Single(typesystem.TInt{})},
	}
	fInfo.ReturnType = typesystem.Single(typesystem.TString{})
	cb.Functions[fID] = fInfo

	// function f($cb, $x) { return $cb($x); } — the body itself is sound.
	cbVar := &ast.Variable{Name: "$cb"}
	cbVar.At = at(0, 3)
	xVar := &ast.Variable{Name: "$x"}
	xVar.At = at(4, 6)
	innerCall := &ast.CallExpr{Callee: cbVar, Args: []ast.Expression{xVar}}
	innerCall.At = at(0, 7)
	innerRet := &ast.ReturnStatement{Value: innerCall}
	innerRet.At = at(0, 8)
	innerBody := &ast.Block{Statements: []ast.Statement{innerRet}}
	innerBody.At = at(0, 8)
	fn := &ast.Function{Name: "f", ParamNames: []string{"$cb", "$x"}, Body: innerBody}
	fn.At = at(0, 8)

	bodyResult := AnalyzeFunction(cb, fInfo, fn, "f.hack", dataflow.FunctionBody, nil, nil)
	if len(bodyResult.Data.Accumulator.Issues()) != 0 {
		t.Fatalf("expected f's own body to be issue-free, got %v", bodyResult.Data.Accumulator.Issues())
	}

	// The callsite: f(fun(string $s): string ==> $s, 3). The closure
	// literal's own atomic type is stood in directly (there is no
	// closure-literal AST node yet) via a variable pre-seeded in scope,
	// matching how a reflected closure value would arrive as an argument.
	mismatchedClosure := &ast.Variable{Name: "$badCb"}
	mismatchedClosure.At = at(20, 40)
	three := &ast.IntLiteral{Value: 3}
	three.At = at(42, 43)
	callsite := &ast.CallExpr{Name: "f", Args: []ast.Expression{mismatchedClosure, three}}
	callsite.At = at(15, 44)
	callStmt := &ast.ExprStatement{Expr: callsite}
	callStmt.At = at(15, 45)
	callerBody := &ast.Block{Statements: []ast.Statement{callStmt}}
	callerBody.At = at(15, 45)
	caller := &ast.Function{Name: "caller", ParamNames: []string{"$badCb"}, Body: callerBody}
	caller.At = at(15, 45)

	callerInfo := codebase.NewFunctionLikeInfo("caller")
	callerInfo.Params = []*codebase.FunctionLikeParameter{
		{Name: "$badCb", SignatureType: typesystem.Single(typesystem.TClosure{
			Params: []*typesystem.Union{typesystem.Single(typesystem.TString{})},
			Return: typesystem.Single(typesystem.TString{}),
		})},
	}

	result := AnalyzeFunction(cb, callerInfo, caller, "caller.hack", dataflow.FunctionBody, nil, nil)

	var found *issues.Issue
	for i := range result.Data.Accumulator.Issues() {
		iss := result.Data.Accumulator.Issues()[i]
		if iss.Kind == issues.InvalidArgument {
			found = &iss
		}
	}
	if found == nil {
		t.Fatalf("expected InvalidArgument for the contravariant closure-parameter mismatch, got %v", result.Data.Accumulator.Issues())
	}
	if found.Pos != mismatchedClosure.Pos() {
		t.Fatalf("expected InvalidArgument at the mismatched argument (%v), got %v", mismatchedClosure.Pos(), found.Pos)
	}
}
