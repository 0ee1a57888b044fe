package analyzer

import (
	"fmt"

	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/context"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// lastAction is set by every VisitXxxStatement and read by the caller
// (usually VisitBlock) immediately afterwards, the same
// read-the-walker's-own-field idiom the expression visitors use for their
// recorded type.
func (w *Walker) VisitFunction(n *ast.Function) {
	n.Body.Accept(w)
}

func (w *Walker) VisitBlock(n *ast.Block) {
	for _, stmt := range n.Statements {
		w.lastAction = context.ActionNone
		stmt.Accept(w)
		if w.lastAction != context.ActionNone {
			return
		}
	}
}

func (w *Walker) VisitExprStatement(n *ast.ExprStatement) {
	w.analyze(n.Expr)
	w.lastAction = context.ActionNone
}

// mergeBranches sets w.Scope after a two-armed branch. If only one arm
// falls through (its action is ActionNone), that arm's scope is taken as
// is. If both do, base is widened with both arms' variables: one present
// in both is combined, one present in only one arm is marked possibly
// undefined, and the clauses are dropped. If neither does, a is kept.
func mergeBranches(w *Walker, base, a, b *context.Scope, aAction, bAction context.ControlAction) {
	aLive := aAction == context.ActionNone
	bLive := bAction == context.ActionNone

	switch {
	case aLive && !bLive:
		w.Scope = a
	case bLive && !aLive:
		w.Scope = b
	case aLive && bLive:
		merged := base.Clone()
		seen := make(map[string]bool)
		for name, ua := range a.VarsInScope {
			seen[name] = true
			if ub, ok := b.VarsInScope[name]; ok {
				merged.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{ua, ub}, w.variance(), false)
			} else {
				u := ua.Clone()
				u.PossiblyUndefined = true
				merged.VarsInScope[name] = u
			}
		}
		for name, ub := range b.VarsInScope {
			if seen[name] {
				continue
			}
			u := ub.Clone()
			u.PossiblyUndefined = true
			merged.VarsInScope[name] = u
		}
		merged.Clauses = nil
		w.Scope = merged
	default:
		// Neither branch falls through; keep whichever the caller picks
		// as the "surviving" scope for any trailing diagnostics.
		w.Scope = a
	}
}

func mergeActions(a, b context.ControlAction, hasB bool) context.ControlAction {
	if !hasB {
		return context.ActionNone
	}
	if a == b {
		return a
	}
	return context.ActionNone
}

func (w *Walker) VisitIfStatement(n *ast.IfStatement) {
	w.analyze(n.Cond)
	formula := GetFormula(n.Cond)

	parent := w.Scope
	thenScope := parent.Clone()
	w.Scope = thenScope
	w.applyFormula(formula, true, n, true)
	n.Then.Accept(w)
	thenAction := w.lastAction

	elseScope := parent.Clone()
	w.Scope = elseScope
	w.applyFormula(formula, false, n, false)
	elseAction := context.ActionNone
	if n.Else != nil {
		n.Else.Accept(w)
		elseAction = w.lastAction
	}

	mergeBranches(w, parent, thenScope, elseScope, thenAction, elseAction)
	w.lastAction = mergeActions(thenAction, elseAction, true)
}

// runLoopBody runs body against a scope forked from parent, applying cond
// positively first. Convergence is only checked once per loop rather than
// iterated to a true fixed point (see DESIGN.md's Open Question entry on
// loop convergence).
func (w *Walker) runLoopBody(parent *context.Scope, cond ast.Expression, body *ast.Block) *context.Scope {
	loop := context.NewLoopScope(parent.VarsInScope)
	current := parent
	for pass := 0; pass < 2; pass++ {
		bodyScope := current.Clone()
		w.Scope = bodyScope
		if cond != nil {
			w.analyze(cond)
			w.applyFormula(GetFormula(cond), true, body, false)
		}
		wasInsideLoop := bodyScope.InsideLoop
		bodyScope.InsideLoop = true
		body.Accept(w)
		bodyScope.InsideLoop = wasInsideLoop

		if loop.Converged(bodyScope.VarsInScope) {
			current = bodyScope
			break
		}
		loop.RedefinedLoopVars = make(map[string]*typesystem.Union, len(bodyScope.VarsInScope))
		for name, u := range bodyScope.VarsInScope {
			loop.RedefinedLoopVars[name] = u
		}
		current = bodyScope
	}
	return current
}

func (w *Walker) VisitWhileStatement(n *ast.WhileStatement) {
	parent := w.Scope
	exit := w.runLoopBody(parent, n.Cond, n.Body)

	merged := parent.Clone()
	for name, u := range exit.VarsInScope {
		if prior, ok := merged.VarsInScope[name]; ok {
			merged.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{prior, u}, w.variance(), false)
		} else {
			clone := u.Clone()
			clone.PossiblyUndefined = true
			merged.VarsInScope[name] = clone
		}
	}
	w.Scope = merged
	w.lastAction = context.ActionNone
}

func (w *Walker) VisitDoWhileStatement(n *ast.DoWhileStatement) {
	parent := w.Scope
	exit := w.runLoopBody(parent, nil, n.Body)
	w.analyze(n.Cond)

	merged := parent.Clone()
	for name, u := range exit.VarsInScope {
		merged.VarsInScope[name] = u
	}
	w.Scope = merged
	w.lastAction = context.ActionNone
}

func (w *Walker) VisitForStatement(n *ast.ForStatement) {
	parent := w.Scope
	init := parent.Clone()
	w.Scope = init
	for _, e := range n.Init {
		w.analyze(e)
	}

	exit := w.runLoopBody(init, n.Cond, n.Body)
	for _, e := range n.Step {
		w.Scope = exit
		w.analyze(e)
	}

	merged := init.Clone()
	for name, u := range exit.VarsInScope {
		if prior, ok := merged.VarsInScope[name]; ok {
			merged.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{prior, u}, w.variance(), false)
		} else {
			clone := u.Clone()
			clone.PossiblyUndefined = true
			merged.VarsInScope[name] = clone
		}
	}
	w.Scope = merged
	w.lastAction = context.ActionNone
}

func (w *Walker) VisitForeachStatement(n *ast.ForeachStatement) {
	collection := w.analyze(n.Collection)
	parent := w.Scope

	bodyScope := parent.Clone()
	w.Scope = bodyScope

	var keyType, valueType *typesystem.Union
	for _, t := range collection.Types {
		switch v := t.(type) {
		case typesystem.TVec:
			keyType = typesystem.Single(typesystem.TInt{})
			if v.Param != nil {
				valueType = v.Param
			}
		case typesystem.TKeyset:
			if v.Param != nil {
				keyType, valueType = v.Param, v.Param
			}
		case typesystem.TDict:
			if v.Key != nil {
				keyType = v.Key
			}
			if v.Value != nil {
				valueType = v.Value
			}
		}
	}
	if keyType == nil {
		keyType = typesystem.Mixed()
	}
	if valueType == nil {
		valueType = typesystem.Mixed()
	}

	if n.KeyVar != nil {
		bodyScope.VarsInScope[n.KeyVar.Name] = keyType
		bodyScope.AssignedVarIDs[n.KeyVar.Name] = true
	}
	bodyScope.VarsInScope[n.ValueVar.Name] = valueType
	bodyScope.AssignedVarIDs[n.ValueVar.Name] = true

	wasInsideLoop := bodyScope.InsideLoop
	bodyScope.InsideLoop = true
	n.Body.Accept(w)
	bodyScope.InsideLoop = wasInsideLoop

	merged := parent.Clone()
	for name, u := range bodyScope.VarsInScope {
		if prior, ok := merged.VarsInScope[name]; ok {
			merged.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{prior, u}, w.variance(), false)
		}
	}
	w.Scope = merged
	w.lastAction = context.ActionNone
}

func (w *Walker) VisitSwitchStatement(n *ast.SwitchStatement) {
	w.analyze(n.Subject)
	parent := w.Scope

	hasDefault := false
	var exitScopes []*context.Scope
	allTerminate := true

	for _, c := range n.Cases {
		if c.Cond == nil {
			hasDefault = true
		}
		caseScope := parent.Clone()
		w.Scope = caseScope
		if c.Cond != nil {
			w.analyze(c.Cond)
		}
		action := context.ActionNone
		for _, stmt := range c.Body {
			w.lastAction = context.ActionNone
			stmt.Accept(w)
			action = w.lastAction
			if action != context.ActionNone {
				break
			}
		}
		if action == context.ActionNone || action == context.ActionBreak {
			allTerminate = false
			exitScopes = append(exitScopes, w.Scope)
		}
	}

	merged := parent.Clone()
	for _, s := range exitScopes {
		for name, u := range s.VarsInScope {
			if prior, ok := merged.VarsInScope[name]; ok {
				merged.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{prior, u}, w.variance(), false)
			} else {
				clone := u.Clone()
				clone.PossiblyUndefined = true
				merged.VarsInScope[name] = clone
			}
		}
	}
	w.Scope = merged
	if hasDefault && allTerminate {
		w.lastAction = context.ActionEnd
	} else {
		w.lastAction = context.ActionNone
	}
}

func (w *Walker) VisitTryStatement(n *ast.TryStatement) {
	parent := w.Scope
	finally := context.NewFinallyScope()

	bodyScope := parent.Clone()
	bodyScope.FinallyScope = finally
	w.Scope = bodyScope
	n.Body.Accept(w)
	finally.Merge(bodyScope.VarsInScope)

	for _, c := range n.Catches {
		catchScope := parent.Clone()
		exc := typesystem.Mixed()
		if len(c.Types) == 1 {
			exc = typesystem.Single(resolveTypeHintAtomic(c.Types[0]))
		} else if len(c.Types) > 1 {
			atoms := make([]typesystem.Atomic, len(c.Types))
			for i, t := range c.Types {
				atoms[i] = resolveTypeHintAtomic(t)
			}
			exc = typesystem.New(atoms...)
		}
		if c.VarName != "" {
			catchScope.VarsInScope[c.VarName] = exc
			catchScope.AssignedVarIDs[c.VarName] = true
		}
		w.Scope = catchScope
		c.Body.Accept(w)
		finally.Merge(catchScope.VarsInScope)
	}

	merged := parent.Clone()
	for name, u := range finally.VarsInScope {
		merged.VarsInScope[name] = u
	}
	w.Scope = merged

	if n.Finally != nil {
		n.Finally.Accept(w)
	}
	w.lastAction = context.ActionNone
}

func (w *Walker) VisitThrowStatement(n *ast.ThrowStatement) {
	w.analyze(n.Expr)
	w.Scope.HasReturned = true
	w.lastAction = context.ActionEnd
}

func (w *Walker) VisitReturnStatement(n *ast.ReturnStatement) {
	var rt *typesystem.Union
	valuePos := n.Pos()
	if n.Value != nil {
		rt = w.analyze(n.Value)
		valuePos = n.Value.Pos()
	} else {
		rt = typesystem.Single(typesystem.TVoid{})
	}

	returnNode := dataflow.New(returnNodeID(n.Pos()), "return", ptr(n.Pos()), "")
	w.Data.Graph.AddNode(returnNode)
	for _, id := range rt.ParentIDs() {
		w.Data.Graph.AddEdge(id, returnNode.ID, dataflow.Path{Kind: dataflow.PathDefault})
	}

	w.Returns = append(w.Returns, rt)
	w.ReturnValuePositions = append(w.ReturnValuePositions, valuePos)
	w.Scope.HasReturned = true
	w.lastAction = context.ActionReturn
}

func returnNodeID(at pos.Pos) string {
	return fmt.Sprintf("return-%d:%d-%d", at.File, at.Start, at.End)
}

func (w *Walker) VisitBreakStatement(n *ast.BreakStatement) {
	w.lastAction = context.ActionBreak
}

func (w *Walker) VisitContinueStatement(n *ast.ContinueStatement) {
	w.lastAction = context.ActionContinue
}

func (w *Walker) VisitUnsetStatement(n *ast.UnsetStatement) {
	for _, e := range n.Vars {
		if v, ok := e.(*ast.Variable); ok {
			w.Scope.Unset(v.Name)
			continue
		}
		if af, ok := e.(*ast.ArrayFetchExpr); ok {
			arr := w.analyze(af.Array)
			key := dataflow.UnknownKey
			if af.Key != nil {
				w.analyze(af.Key)
				key = literalArrayKey(af.Key)
			}
			removeNode := dataflow.New(arrayNodeID(af.Pos()), "unset", ptr(af.Pos()), "")
			w.Data.Graph.AddNode(removeNode)
			for _, id := range arr.ParentIDs() {
				w.Data.Graph.AddEdge(id, removeNode.ID, dataflow.Path{Kind: dataflow.PathRemoveDictKey, Key: key})
			}
			continue
		}
		w.analyze(e)
	}
	w.lastAction = context.ActionNone
}
