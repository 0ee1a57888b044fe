package typesystem

// TemplateResult accumulates the bounds inferred for each generic template
// parameter while comparing an argument union against a parameterized
// container (function call argument matching, `as` assertions, `new`
// expressions with inferred type arguments).
type TemplateResult struct {
	LowerBounds map[string]*Union // the join of every type seen bound to a parameter
	UpperBounds map[string]*Union // the narrowest constraint seen for a parameter
	Templated   map[string]bool   // parameter names seen at all, even with no bound yet
}

// NewTemplateResult returns an empty accumulator.
func NewTemplateResult() *TemplateResult {
	return &TemplateResult{
		LowerBounds: make(map[string]*Union),
		UpperBounds: make(map[string]*Union),
		Templated:   make(map[string]bool),
	}
}

// AddLowerBound widens the recorded lower bound for name to include bound,
// the monotone join a call's successive arguments perform when they all
// bind the same template parameter.
func (r *TemplateResult) AddLowerBound(name string, bound *Union, variance VarianceLookup) {
	r.Templated[name] = true
	if bound == nil {
		return
	}
	existing := r.LowerBounds[name]
	if existing == nil {
		r.LowerBounds[name] = bound.Clone()
		return
	}
	r.LowerBounds[name] = Combine([]*Union{existing, bound}, variance, false)
}

// AddUpperBound narrows the recorded upper bound for name, used for
// contravariant positions (closure parameters) where the constraint must
// hold for every occurrence rather than being joined.
func (r *TemplateResult) AddUpperBound(name string, bound *Union) {
	r.Templated[name] = true
	if bound == nil {
		return
	}
	existing := r.UpperBounds[name]
	if existing == nil {
		r.UpperBounds[name] = bound.Clone()
		return
	}
	ok, _ := IsContainedBy(bound, existing, nil)
	if ok {
		r.UpperBounds[name] = bound.Clone()
	}
}

// Resolve returns the best known type for a template parameter: its lower
// bound if one was inferred, else its upper (`as`) bound, else mixed.
func (r *TemplateResult) Resolve(name string) *Union {
	if lb, ok := r.LowerBounds[name]; ok {
		return lb
	}
	if ub, ok := r.UpperBounds[name]; ok {
		return ub
	}
	return Mixed()
}

// InferTemplates walks argType against paramType (a type that may mention
// generic parameters owned by definingEntity) and records the bounds that
// would make argType assignable to paramType, mirroring how a function
// call's arguments are matched against generic parameter declarations.
func InferTemplates(argType, paramType *Union, definingEntity string, result *TemplateResult, variance VarianceLookup) {
	if argType == nil || paramType == nil {
		return
	}
	for _, pAtomic := range paramType.Types {
		if g, ok := pAtomic.(TGenericParam); ok && g.DefiningEntity == definingEntity {
			result.AddLowerBound(g.Name, argType, variance)
			continue
		}
		for _, aAtomic := range argType.Types {
			inferAtomic(aAtomic, pAtomic, definingEntity, result, variance)
		}
	}
}

func inferAtomic(arg, param Atomic, definingEntity string, result *TemplateResult, variance VarianceLookup) {
	switch p := param.(type) {
	case TVec:
		if a, ok := arg.(TVec); ok {
			InferTemplates(a.Param, p.Param, definingEntity, result, variance)
		}
	case TKeyset:
		if a, ok := arg.(TKeyset); ok {
			InferTemplates(a.Param, p.Param, definingEntity, result, variance)
		}
	case TDict:
		if a, ok := arg.(TDict); ok {
			InferTemplates(a.Key, p.Key, definingEntity, result, variance)
			InferTemplates(a.Value, p.Value, definingEntity, result, variance)
		}
	case TAwaitable:
		if a, ok := arg.(TAwaitable); ok {
			InferTemplates(a.Inner, p.Inner, definingEntity, result, variance)
		}
	case TNamedObject:
		if a, ok := arg.(TNamedObject); ok && a.Name == p.Name {
			n := len(p.TypeParams)
			if len(a.TypeParams) < n {
				n = len(a.TypeParams)
			}
			for i := 0; i < n; i++ {
				InferTemplates(a.TypeParams[i], p.TypeParams[i], definingEntity, result, variance)
			}
		}
	case TClosure:
		if a, ok := arg.(TClosure); ok {
			n := len(p.Params)
			if len(a.Params) < n {
				n = len(a.Params)
			}
			for i := 0; i < n; i++ {
				// Contravariant position: record an upper bound instead of
				// joining into the lower bound.
				for _, pt := range p.Params[i].Types {
					if g, ok := pt.(TGenericParam); ok && g.DefiningEntity == definingEntity {
						result.AddUpperBound(g.Name, a.Params[i])
					}
				}
			}
			InferTemplates(a.Return, p.Return, definingEntity, result, variance)
		}
	}
}

// Substitute replaces every TGenericParam belonging to definingEntity inside
// u with its resolved binding from result, leaving unrelated atomics and
// template parameters from other entities untouched.
func Substitute(u *Union, definingEntity string, result *TemplateResult) *Union {
	if u == nil {
		return nil
	}
	out := &Union{
		PossiblyUndefined:    u.PossiblyUndefined,
		IgnoreFalsableIssues: u.IgnoreFalsableIssues,
		FromUntypedBoundary:  u.FromUntypedBoundary,
		Parents:              u.Parents,
	}
	for _, a := range u.Types {
		out.addAtomic(substituteAtomic(a, definingEntity, result))
	}
	return out
}

func substituteAtomic(a Atomic, definingEntity string, result *TemplateResult) Atomic {
	switch t := a.(type) {
	case TGenericParam:
		if t.DefiningEntity == definingEntity {
			resolved := result.Resolve(t.Name)
			if resolved.IsSingle() {
				return resolved.GetSingle()
			}
			return TNamedObject{Name: "(" + resolved.String() + ")"}
		}
		return t
	case TVec:
		t.Param = Substitute(t.Param, definingEntity, result)
		if len(t.Known) > 0 {
			known := make(map[int]KnownEntry, len(t.Known))
			for k, e := range t.Known {
				known[k] = KnownEntry{PossiblyUndefined: e.PossiblyUndefined, Type: Substitute(e.Type, definingEntity, result)}
			}
			t.Known = known
		}
		return t
	case TKeyset:
		t.Param = Substitute(t.Param, definingEntity, result)
		return t
	case TDict:
		t.Key = Substitute(t.Key, definingEntity, result)
		t.Value = Substitute(t.Value, definingEntity, result)
		if len(t.Known) > 0 {
			known := make(map[string]KnownEntry, len(t.Known))
			for k, e := range t.Known {
				known[k] = KnownEntry{PossiblyUndefined: e.PossiblyUndefined, Type: Substitute(e.Type, definingEntity, result)}
			}
			t.Known = known
		}
		return t
	case TAwaitable:
		t.Inner = Substitute(t.Inner, definingEntity, result)
		return t
	case TNamedObject:
		if len(t.TypeParams) == 0 {
			return t
		}
		params := make([]*Union, len(t.TypeParams))
		for i, p := range t.TypeParams {
			params[i] = Substitute(p, definingEntity, result)
		}
		t.TypeParams = params
		return t
	case TClosure:
		params := make([]*Union, len(t.Params))
		for i, p := range t.Params {
			params[i] = Substitute(p, definingEntity, result)
		}
		t.Params = params
		t.Return = Substitute(t.Return, definingEntity, result)
		return t
	default:
		return a
	}
}
