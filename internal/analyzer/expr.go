package analyzer

import (
	"fmt"

	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

func (w *Walker) VisitVariable(n *ast.Variable) {
	u, ok := w.Scope.VarsInScope[n.Name]
	if !ok {
		w.report(issues.UndefinedVariable, "undefined variable "+n.Name, n)
		w.Data.setType(n.Pos(), typesystem.Mixed())
		return
	}
	w.recordVariableUse(n, u)
	w.Data.setType(n.Pos(), u)
}

func (w *Walker) VisitIntLiteral(n *ast.IntLiteral) {
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TLiteralInt{Value: n.Value}))
}

func (w *Walker) VisitFloatLiteral(n *ast.FloatLiteral) {
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TFloat{}))
}

func (w *Walker) VisitStringLiteral(n *ast.StringLiteral) {
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TLiteralString{Value: n.Value}))
}

func (w *Walker) VisitBoolLiteral(n *ast.BoolLiteral) {
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
}

func (w *Walker) VisitNullLiteral(n *ast.NullLiteral) {
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TNull{}))
}

// numericResultKind applies the usual Hack coercion table: int op int is
// int unless the operator is division, which always widens to num;
// anything touching a float widens to float; mixed involvement is an
// error the caller reports separately.
func numericResultKind(op string, l, r typesystem.Atomic) typesystem.Atomic {
	_, lf := l.(typesystem.TFloat)
	_, rf := r.(typesystem.TFloat)
	if lf || rf {
		return typesystem.TFloat{}
	}
	if op == "/" {
		return typesystem.TNum{}
	}
	return typesystem.TInt{}
}

func (w *Walker) VisitBinaryExpr(n *ast.BinaryExpr) {
	left := w.analyze(n.Left)
	right := w.analyze(n.Right)

	if n.Op == "." {
		node := dataflow.ForComposition(n.Pos())
		w.Data.Graph.AddNode(node)
		for _, id := range append(left.ParentIDs(), right.ParentIDs()...) {
			w.Data.Graph.AddEdge(id, node.ID, dataflow.Path{Kind: dataflow.PathDefault})
		}
		w.Data.setType(n.Pos(), typesystem.Single(typesystem.TString{}).WithParents(node))
		return
	}

	switch n.Op {
	case "===", "!==", "==", "!=", "<", "<=", ">", ">=":
		w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
		return
	}

	if left.HasMixed || right.HasMixed {
		w.report(issues.MixedOperand, "arithmetic on a mixed operand", n)
	}

	var resultAtomics []typesystem.Atomic
	if left.IsSingle() && right.IsSingle() {
		if li, lok := left.GetSingle().(typesystem.TLiteralInt); lok {
			if ri, rok := right.GetSingle().(typesystem.TLiteralInt); rok && n.Op != "/" {
				resultAtomics = []typesystem.Atomic{typesystem.TLiteralInt{Value: evalIntOp(n.Op, li.Value, ri.Value)}}
			}
		}
	}
	if resultAtomics == nil {
		var l, r typesystem.Atomic = typesystem.TInt{}, typesystem.TInt{}
		if left.IsSingle() {
			l = left.GetSingle()
		}
		if right.IsSingle() {
			r = right.GetSingle()
		}
		resultAtomics = []typesystem.Atomic{numericResultKind(n.Op, l, r)}
	}
	w.Data.setType(n.Pos(), typesystem.New(resultAtomics...))
}

func evalIntOp(op string, a, b int64) int64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "%":
		if b == 0 {
			return 0
		}
		return a % b
	default:
		return 0
	}
}

func (w *Walker) VisitUnaryExpr(n *ast.UnaryExpr) {
	inner := w.analyze(n.Operand)
	if n.Op == "!" {
		w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
		return
	}
	w.Data.setType(n.Pos(), inner)
}

func (w *Walker) VisitLogicalExpr(n *ast.LogicalExpr) {
	w.analyze(n.Left)
	leftFormula := GetFormula(n.Left)

	branch := w.Scope.Clone()
	savedScope := w.Scope
	w.Scope = branch
	w.applyFormula(leftFormula, n.Op == "&&", n, false)
	w.analyze(n.Right)
	w.Scope = savedScope

	for name, u := range branch.VarsInScope {
		w.Scope.VarsInScope[name] = u
	}
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
}

func (w *Walker) VisitNullCoalesceExpr(n *ast.NullCoalesceExpr) {
	w.Scope.InsideIsset = true
	left := w.analyze(n.Left)
	w.Scope.InsideIsset = false
	right := w.analyze(n.Right)

	nonNull := left.Filter(func(a typesystem.Atomic) bool { _, isNull := a.(typesystem.TNull); return !isNull })
	joined := typesystem.Combine([]*typesystem.Union{nonNull, right}, w.variance(), false)
	w.Data.setType(n.Pos(), joined)
}

func (w *Walker) VisitTernaryExpr(n *ast.TernaryExpr) {
	w.analyze(n.Cond)
	formula := GetFormula(n.Cond)

	thenScope := w.Scope.Clone()
	elseScope := w.Scope.Clone()

	savedScope := w.Scope
	w.Scope = thenScope
	w.applyFormula(formula, true, n, false)
	var thenType *typesystem.Union
	if n.Then != nil {
		thenType = w.analyze(n.Then)
	} else {
		thenType = w.Data.TypeOf(n.Cond.Pos())
	}

	w.Scope = elseScope
	w.applyFormula(formula, false, n, false)
	elseType := w.analyze(n.Else)
	w.Scope = savedScope

	for name, u := range thenScope.VarsInScope {
		if _, ok := elseScope.VarsInScope[name]; ok {
			w.Scope.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{u, elseScope.VarsInScope[name]}, w.variance(), false)
		}
	}

	w.Data.setType(n.Pos(), typesystem.Combine([]*typesystem.Union{thenType, elseType}, w.variance(), false))
}

func (w *Walker) VisitAssignExpr(n *ast.AssignExpr) {
	value := w.analyze(n.Value)

	if v, ok := n.Target.(*ast.Variable); ok {
		assignNode := dataflow.ForAssignment(v.Name, n.Pos())
		w.Data.Graph.AddNode(assignNode)
		for _, id := range value.ParentIDs() {
			w.Data.Graph.AddEdge(id, assignNode.ID, dataflow.Path{Kind: dataflow.PathDefault})
		}
		fresh := value.WithParents(assignNode)
		w.Scope.VarsInScope[v.Name] = fresh
		w.Scope.AssignedVarIDs[v.Name] = true
		w.Scope.RemoveVarFromConflictingClauses(v.Name, fresh)
		w.Data.setType(n.Pos(), fresh)
		return
	}

	if pf, ok := n.Target.(*ast.PropertyFetchExpr); ok {
		obj := w.analyze(pf.Object)
		w.Data.setEffects(n.Pos(), typesystem.EffectWriteProps)
		propNode := dataflow.New(propertyNodeID(pf.Property, n.Pos()), pf.Property, ptr(n.Pos()), "")
		w.Data.Graph.AddNode(propNode)
		for _, id := range obj.ParentIDs() {
			w.Data.Graph.AddEdge(id, propNode.ID, dataflow.Path{Kind: dataflow.PathPropertyAssignment, Key: pf.Property})
		}
		for _, id := range value.ParentIDs() {
			w.Data.Graph.AddEdge(id, propNode.ID, dataflow.Path{Kind: dataflow.PathPropertyAssignment, Key: pf.Property})
		}
	}

	if af, ok := n.Target.(*ast.ArrayFetchExpr); ok {
		arr := w.analyze(af.Array)
		key := dataflow.UnknownKey
		if af.Key != nil {
			w.analyze(af.Key)
			key = literalArrayKey(af.Key)
		}
		assignNode := dataflow.New(arrayNodeID(n.Pos()), "array assignment", ptr(n.Pos()), "")
		w.Data.Graph.AddNode(assignNode)
		for _, id := range arr.ParentIDs() {
			w.Data.Graph.AddEdge(id, assignNode.ID, dataflow.Path{Kind: dataflow.PathArrayAssignment, Key: key})
		}
		for _, id := range value.ParentIDs() {
			w.Data.Graph.AddEdge(id, assignNode.ID, dataflow.Path{Kind: dataflow.PathArrayAssignment, Key: key})
		}
	}
	w.Data.setType(n.Pos(), value)
}

func ptr(p pos.Pos) *pos.Pos { return &p }

func propertyNodeID(property string, at pos.Pos) string {
	return fmt.Sprintf("prop-%s-%d:%d-%d", property, at.File, at.Start, at.End)
}

func arrayNodeID(at pos.Pos) string {
	return fmt.Sprintf("array-%d:%d-%d", at.File, at.Start, at.End)
}

// literalArrayKey returns the literal array/dict key a fetch/assignment/
// unset targets, or dataflow.UnknownKey when the key is not statically
// known (a variable subscript, a computed expression).
func literalArrayKey(key ast.Expression) string {
	switch lit := key.(type) {
	case *ast.StringLiteral:
		return lit.Value
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", lit.Value)
	}
	return dataflow.UnknownKey
}

// paramAt mirrors codebase.FunctionLikeInfo.ParamAt for a bare parameter
// slice, so closure-valued calls (which have no FunctionLikeInfo) can
// share the same variadic fallback.
func paramAt(params []*codebase.FunctionLikeParameter, n int) *codebase.FunctionLikeParameter {
	if n < len(params) {
		return params[n]
	}
	if len(params) > 0 {
		last := params[len(params)-1]
		if last.IsVariadic {
			return last
		}
	}
	return nil
}

// closureParams synthesizes FunctionLikeParameters from a closure atomic's
// own Params/Variadic, so a call through a callable value can be checked
// with the same argument-matching code as a named function call.
func closureParams(c typesystem.TClosure) []*codebase.FunctionLikeParameter {
	out := make([]*codebase.FunctionLikeParameter, len(c.Params))
	for i, p := range c.Params {
		out[i] = &codebase.FunctionLikeParameter{
			SignatureType: p,
			IsVariadic:    c.Variadic && i == len(c.Params)-1,
		}
	}
	return out
}

func closureID(p pos.Pos) string {
	return fmt.Sprintf("closure@%d:%d", p.File, p.Start)
}

// checkCallArguments compares each argument's type against the callee's
// declared parameters, reports arity and type mismatches, and wires a
// data-flow argument-sink edge (plus an argument-out edge and scope
// writeback for inout parameters) for every argument. templateEntity is
// the defining-entity id template parameters in params are tagged with;
// pass it empty (with nil templateTypes) for callees with no templates,
// such as closures.
func (w *Walker) checkCallArguments(n ast.Node, calleeID string, params []*codebase.FunctionLikeParameter, args []ast.Expression, argTypes []*typesystem.Union, templateEntity string, templateTypes map[string]*typesystem.Union) *typesystem.TemplateResult {
	required := 0
	for _, p := range params {
		if !p.IsOptional && !p.IsVariadic {
			required++
		}
	}
	if len(args) < required {
		w.report(issues.TooFewArguments, fmt.Sprintf("%s expects at least %d argument(s), got %d", calleeID, required, len(args)), n)
	}
	hasVariadic := len(params) > 0 && params[len(params)-1].IsVariadic
	if !hasVariadic && len(args) > len(params) {
		w.report(issues.TooManyArguments, fmt.Sprintf("%s expects at most %d argument(s), got %d", calleeID, len(params), len(args)), n)
	}

	var result *typesystem.TemplateResult
	if len(templateTypes) > 0 {
		result = typesystem.NewTemplateResult()
		for i, argType := range argTypes {
			p := paramAt(params, i)
			if p == nil || p.SignatureType == nil {
				continue
			}
			typesystem.InferTemplates(argType, p.SignatureType, templateEntity, result, w.variance())
		}
	}

	for i, arg := range args {
		argType := argTypes[i]
		argNode := dataflow.ForMethodArgument(calleeID, i, ptr(arg.Pos()), ptr(n.Pos()))
		w.Data.Graph.AddNode(argNode)
		for _, parentID := range argType.ParentIDs() {
			w.Data.Graph.AddEdge(parentID, argNode.ID, dataflow.Path{Kind: dataflow.PathDefault})
		}

		p := paramAt(params, i)
		if p == nil || p.SignatureType == nil {
			continue
		}
		paramType := p.SignatureType
		if result != nil {
			paramType = typesystem.Substitute(paramType, templateEntity, result)
		}
		if ok, _ := typesystem.IsContainedBy(argType, paramType, w.hierarchy()); !ok {
			w.report(issues.InvalidArgument, "argument "+argType.String()+" does not fit declared parameter type "+paramType.String(), arg)
		}

		if p.IsInout {
			outNode := dataflow.ForMethodArgumentOut(calleeID, i, ptr(arg.Pos()), ptr(n.Pos()))
			w.Data.Graph.AddNode(outNode)
			w.Data.Graph.AddEdge(argNode.ID, outNode.ID, dataflow.Path{Kind: dataflow.PathInout})
			if v, ok := arg.(*ast.Variable); ok {
				fresh := paramType.WithParents(outNode)
				w.Scope.VarsInScope[v.Name] = fresh
				w.Scope.RemoveVarFromConflictingClauses(v.Name, fresh)
			}
		}
	}
	return result
}

func (w *Walker) VisitCallExpr(n *ast.CallExpr) {
	argTypes := make([]*typesystem.Union, len(n.Args))
	for i, arg := range n.Args {
		argTypes[i] = w.analyze(arg)
	}

	var effects typesystem.EffectMask
	for _, at := range argTypes {
		if at.HasMixed {
			effects |= typesystem.EffectImpure
		}
	}

	result := typesystem.Mixed()

	switch {
	case n.Name != "" && w.Codebase != nil:
		if info, ok := w.Codebase.ResolveFunction(n.Name); ok {
			tr := w.checkCallArguments(n, n.Name, info.Params, n.Args, argTypes, info.Name, info.TemplateTypes)
			effects |= info.Effects
			if info.ReturnType != nil {
				if tr != nil {
					result = typesystem.Substitute(info.ReturnType, info.Name, tr)
				} else {
					result = info.ReturnType
				}
			}
		} else {
			w.report(issues.NonExistentFunction, "no function "+n.Name+" declared", n)
		}
	case n.Name == "" && n.Callee != nil:
		callee := w.analyze(n.Callee)
		if callee.IsSingle() {
			if closure, ok := callee.GetSingle().(typesystem.TClosure); ok {
				w.checkCallArguments(n, closureID(n.Callee.Pos()), closureParams(closure), n.Args, argTypes, "", nil)
				effects |= closure.Effects
				if closure.Return != nil {
					result = closure.Return
				}
			}
		}
	}

	w.Data.setEffects(n.Pos(), effects)
	w.Data.setType(n.Pos(), result)
}

// soleNamedObject returns the union's single TNamedObject member, if it has
// exactly one and that member is a named object.
func soleNamedObject(u *typesystem.Union) (typesystem.TNamedObject, bool) {
	if !u.IsSingle() {
		return typesystem.TNamedObject{}, false
	}
	named, ok := u.GetSingle().(typesystem.TNamedObject)
	return named, ok
}

func (w *Walker) VisitMethodCallExpr(n *ast.MethodCallExpr) {
	recv := w.analyze(n.Receiver)
	argTypes := make([]*typesystem.Union, len(n.Args))
	for i, arg := range n.Args {
		argTypes[i] = w.analyze(arg)
	}

	if recv.IsNullable() && !n.NullSafe {
		w.report(issues.PossiblyNullPropertyFetch, "call on a possibly null receiver "+recv.String(), n)
	}

	result := typesystem.Mixed()
	var effects typesystem.EffectMask
	if w.Codebase != nil {
		if named, ok := soleNamedObject(recv); ok {
			if classID, classOK := w.Codebase.Interner.Get(named.Name); classOK {
				if m, mOK := w.Codebase.ResolveMethod(classID, w.Codebase.Interner.Intern(n.Method)); mOK {
					calleeID := named.Name + "::" + n.Method
					tr := w.checkCallArguments(n, calleeID, m.Params, n.Args, argTypes, m.Name, m.TemplateTypes)
					effects |= m.Effects
					if m.ReturnType != nil {
						if tr != nil {
							result = typesystem.Substitute(m.ReturnType, m.Name, tr)
						} else {
							result = m.ReturnType
						}
					}
				} else {
					w.report(issues.NonExistentMethod, "no method "+n.Method+" on "+named.Name, n)
				}
			}
		}
	}
	w.Data.setEffects(n.Pos(), effects)
	w.Data.setType(n.Pos(), result)
}

func (w *Walker) VisitPropertyFetchExpr(n *ast.PropertyFetchExpr) {
	obj := w.analyze(n.Object)
	if obj.IsNullable() && !n.NullSafe {
		w.report(issues.PossiblyNullPropertyFetch, "property fetch on a possibly null receiver", n)
	}

	result := typesystem.Mixed()
	if w.Codebase != nil {
		if named, ok := soleNamedObject(obj); ok {
			if classID, ok := w.Codebase.Interner.Get(named.Name); ok {
				if info, ok := w.Codebase.Classlikes[classID]; ok {
					if propID, ok := w.Codebase.Interner.Get(n.Property); ok {
						if p, ok := info.Properties[propID]; ok && p.Type != nil {
							result = p.Type
						} else {
							w.report(issues.NonExistentProperty, "no property "+n.Property+" on "+named.Name, n)
						}
					}
				}
			}
		}
	}

	fetchNode := dataflow.New(propertyNodeID(n.Property, n.Pos()), n.Property, ptr(n.Pos()), "")
	w.Data.Graph.AddNode(fetchNode)
	for _, id := range obj.ParentIDs() {
		w.Data.Graph.AddEdge(id, fetchNode.ID, dataflow.Path{Kind: dataflow.PathPropertyFetch, Key: n.Property})
	}
	w.Data.setType(n.Pos(), result.WithParents(fetchNode))
}

func (w *Walker) VisitArrayFetchExpr(n *ast.ArrayFetchExpr) {
	arr := w.analyze(n.Array)
	key := dataflow.UnknownKey
	if n.Key != nil {
		w.analyze(n.Key)
		key = literalArrayKey(n.Key)
	}
	result := typesystem.Mixed()
	hasKnownDict := false
	for _, t := range arr.Types {
		switch v := t.(type) {
		case typesystem.TVec:
			if v.Param != nil {
				result = v.Param
			}
		case typesystem.TDict:
			if v.Value != nil {
				result = v.Value
			}
			if len(v.Known) > 0 {
				hasKnownDict = true
			}
		}
	}
	if hasKnownDict {
		w.report(issues.PossiblyUndefinedArrayOffset, "array offset may be undefined", n)
	}

	fetchNode := dataflow.New(arrayNodeID(n.Pos()), "array fetch", ptr(n.Pos()), "")
	w.Data.Graph.AddNode(fetchNode)
	for _, id := range arr.ParentIDs() {
		w.Data.Graph.AddEdge(id, fetchNode.ID, dataflow.Path{Kind: dataflow.PathArrayFetch, Key: key})
	}
	w.Data.setType(n.Pos(), result.WithParents(fetchNode))
}

func (w *Walker) VisitAwaitExpr(n *ast.AwaitExpr) {
	w.Scope.InsideAwait = true
	inner := w.analyze(n.Inner)
	w.Scope.InsideAwait = false
	for _, t := range inner.Types {
		if aw, ok := t.(typesystem.TAwaitable); ok && aw.Inner != nil {
			w.Data.setType(n.Pos(), aw.Inner)
			return
		}
	}
	w.Data.setType(n.Pos(), inner)
}

func (w *Walker) VisitAsExpr(n *ast.AsExpr) {
	inner := w.analyze(n.Inner)
	target := typesystem.Single(resolveTypeHintAtomic(n.TypeName))
	ok, _ := typesystem.IsContainedBy(inner, target, w.hierarchy())
	if n.Nullable {
		if !ok {
			w.Data.setType(n.Pos(), typesystem.NullableOf(target))
			return
		}
		w.Data.setType(n.Pos(), target)
		return
	}
	w.Data.setType(n.Pos(), target)
}

func (w *Walker) VisitIsExpr(n *ast.IsExpr) {
	w.analyze(n.Inner)
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
}

func (w *Walker) VisitIssetExpr(n *ast.IssetExpr) {
	w.Scope.InsideIsset = true
	for _, v := range n.Vars {
		if vv, ok := v.(*ast.Variable); ok {
			if _, in := w.Scope.VarsInScope[vv.Name]; !in {
				w.Data.setType(vv.Pos(), typesystem.Mixed())
				continue
			}
		}
		w.analyze(v)
	}
	w.Scope.InsideIsset = false
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TBool{}))
}

func (w *Walker) VisitVecLiteral(n *ast.VecLiteral) {
	if len(n.Items) == 0 {
		w.Data.setType(n.Pos(), typesystem.Single(typesystem.TVec{Param: typesystem.Nothing()}))
		return
	}
	items := make([]*typesystem.Union, len(n.Items))
	for i, it := range n.Items {
		items[i] = w.analyze(it)
	}
	param := typesystem.Combine(items, w.variance(), false)
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TVec{Param: param, NonEmpty: true}))
}

func (w *Walker) VisitDictLiteral(n *ast.DictLiteral) {
	if len(n.Entries) == 0 {
		w.Data.setType(n.Pos(), typesystem.Single(typesystem.TDict{Key: typesystem.Nothing(), Value: typesystem.Nothing()}))
		return
	}
	keys := make([]*typesystem.Union, len(n.Entries))
	values := make([]*typesystem.Union, len(n.Entries))
	for i, entry := range n.Entries {
		keys[i] = w.analyze(entry.Key)
		values[i] = w.analyze(entry.Value)
	}
	w.Data.setType(n.Pos(), typesystem.Single(typesystem.TDict{
		Key:      typesystem.Combine(keys, w.variance(), false),
		Value:    typesystem.Combine(values, w.variance(), false),
		NonEmpty: true,
	}))
}
