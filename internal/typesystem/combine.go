package typesystem

// VarianceLookup resolves the declared variance of a class's template
// parameters so Combine can join type parameters covariantly except where
// the codebase declares otherwise. Named objects with the same name
// combine by joining type params covariantly unless the codebase declares
// a contravariant template parameter. A nil lookup
// means "assume covariant", which is always sound for the purposes of a
// least-upper-bound join (it only ever widens).
type VarianceLookup interface {
	ClassTemplateVariance(className string) []Variance
}

// combination is the accumulator ingesting atomics one at a time, grouped
// by kind, one bucket per atomic shape so that like merges with like
// (see DESIGN.md for the grounding of this pattern).
type combination struct {
	simple map[string]Atomic // de-duped non-container, non-literal atomics keyed by String()

	literalInts    map[int64]bool
	literalStrings map[string]bool
	classnames     map[string]bool
	sawPlainInt    bool
	sawPlainString bool
	sawPlainClass  bool

	objects map[string]TNamedObject // class name -> accumulated object

	vec     *TVec
	sawVec  bool
	keyset  *TKeyset
	sawKeyset bool
	dict    *TDict
	sawDict bool

	hasMixed            bool
	fromUntypedBoundary bool
}

func newCombination() *combination {
	return &combination{
		simple:         make(map[string]Atomic),
		literalInts:    make(map[int64]bool),
		literalStrings: make(map[string]bool),
		classnames:     make(map[string]bool),
		objects:        make(map[string]TNamedObject),
	}
}

// Combine computes the least upper bound of a set of unions, the `combine`
// least-upper-bound join. overwriteEmptyArray is accepted but not read:
// an empty dict/vec joins with a typed sibling the same way whatever its
// value, its `nothing` parameters dropping out of the join.
func Combine(units []*Union, variance VarianceLookup, overwriteEmptyArray bool) *Union {
	units = nonNilUnions(units)
	if len(units) == 0 {
		return Nothing()
	}
	if len(units) == 1 {
		return units[0].Clone()
	}

	c := newCombination()
	possiblyUndefined := false
	ignoreFalsable := false
	for _, u := range units {
		if u.PossiblyUndefined {
			possiblyUndefined = true
		}
		if u.IgnoreFalsableIssues {
			ignoreFalsable = true
		}
		if u.FromUntypedBoundary {
			c.fromUntypedBoundary = true
		}
		if u.HasMixed {
			c.hasMixed = true
		}
		for _, a := range u.Types {
			c.ingest(a, variance)
		}
	}

	out := c.finish()
	out.PossiblyUndefined = possiblyUndefined
	out.IgnoreFalsableIssues = ignoreFalsable
	out.FromUntypedBoundary = c.fromUntypedBoundary
	return out
}

func nonNilUnions(units []*Union) []*Union {
	out := make([]*Union, 0, len(units))
	for _, u := range units {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

func (c *combination) ingest(a Atomic, variance VarianceLookup) {
	switch t := a.(type) {
	case TNothing:
		// Bottom type: contributes nothing to a join. combine(T, nothing)
		// must equal T, so it is simply skipped here; finish()
		// re-adds TNothing only if nothing else was ever ingested.
	case TMixed:
		c.hasMixed = true
	case TLiteralInt:
		c.literalInts[t.Value] = true
	case TLiteralString:
		c.literalStrings[t.Value] = true
	case TClassname:
		c.classnames[t.Value] = true
	case TInt:
		c.sawPlainInt = true
	case TString:
		c.sawPlainString = true
	case TVec:
		c.ingestVec(t)
	case TKeyset:
		c.ingestKeyset(t)
	case TDict:
		c.ingestDict(t)
	case TNamedObject:
		c.ingestObject(t, variance)
	default:
		c.simple[a.String()] = a
	}
}

func (c *combination) ingestVec(t TVec) {
	c.sawVec = true
	if c.vec == nil {
		cp := t
		c.vec = &cp
		return
	}
	merged := mergeVec(*c.vec, t)
	c.vec = &merged
}

func mergeVec(a, b TVec) TVec {
	out := TVec{NonEmpty: a.NonEmpty && b.NonEmpty}
	if len(a.Known) > 0 || len(b.Known) > 0 {
		out.Known = make(map[int]KnownEntry)
		seen := map[int]bool{}
		for k, ea := range a.Known {
			seen[k] = true
			if eb, ok := b.Known[k]; ok {
				out.Known[k] = KnownEntry{
					PossiblyUndefined: ea.PossiblyUndefined || eb.PossiblyUndefined,
					Type:              Combine([]*Union{ea.Type, eb.Type}, nil, false),
				}
			} else {
				out.Known[k] = KnownEntry{PossiblyUndefined: true, Type: ea.Type}
			}
		}
		for k, eb := range b.Known {
			if seen[k] {
				continue
			}
			out.Known[k] = KnownEntry{PossiblyUndefined: true, Type: eb.Type}
		}
	}
	out.Param = Combine([]*Union{a.Param, b.Param}, nil, false)
	return out
}

func (c *combination) ingestKeyset(t TKeyset) {
	c.sawKeyset = true
	if c.keyset == nil {
		cp := t
		c.keyset = &cp
		return
	}
	c.keyset = &TKeyset{
		Param:    Combine([]*Union{c.keyset.Param, t.Param}, nil, false),
		NonEmpty: c.keyset.NonEmpty && t.NonEmpty,
	}
}

func (c *combination) ingestDict(t TDict) {
	c.sawDict = true
	if c.dict == nil {
		cp := t
		c.dict = &cp
		return
	}
	merged := mergeDict(*c.dict, t)
	c.dict = &merged
}

func mergeDict(a, b TDict) TDict {
	out := TDict{NonEmpty: a.NonEmpty && b.NonEmpty}
	if len(a.Known) > 0 || len(b.Known) > 0 {
		out.Known = make(map[string]KnownEntry)
		seen := map[string]bool{}
		for k, ea := range a.Known {
			seen[k] = true
			if eb, ok := b.Known[k]; ok {
				out.Known[k] = KnownEntry{
					PossiblyUndefined: ea.PossiblyUndefined || eb.PossiblyUndefined,
					Type:              Combine([]*Union{ea.Type, eb.Type}, nil, false),
				}
			} else {
				out.Known[k] = KnownEntry{PossiblyUndefined: true, Type: ea.Type}
			}
		}
		for k, eb := range b.Known {
			if seen[k] {
				continue
			}
			out.Known[k] = KnownEntry{PossiblyUndefined: true, Type: eb.Type}
		}
	}
	out.Key = Combine([]*Union{a.Key, b.Key}, nil, false)
	out.Value = Combine([]*Union{a.Value, b.Value}, nil, false)
	return out
}

func (c *combination) ingestObject(t TNamedObject, variance VarianceLookup) {
	existing, ok := c.objects[t.Name]
	if !ok {
		c.objects[t.Name] = t
		return
	}
	variances := []Variance{}
	if variance != nil {
		variances = variance.ClassTemplateVariance(t.Name)
	}
	n := len(existing.TypeParams)
	if len(t.TypeParams) > n {
		n = len(t.TypeParams)
	}
	merged := make([]*Union, n)
	for i := 0; i < n; i++ {
		var ea, eb *Union
		if i < len(existing.TypeParams) {
			ea = existing.TypeParams[i]
		}
		if i < len(t.TypeParams) {
			eb = t.TypeParams[i]
		}
		v := Covariant
		if i < len(variances) {
			v = variances[i]
		}
		if v == Contravariant {
			// A contravariant join still needs a single type: fall back
			// to whichever side was supplied, preferring the narrower
			// (existing) one, since callers generally intersect rather
			// than union contravariant positions. This is a conservative
			// approximation documented in DESIGN.md.
			if ea != nil {
				merged[i] = ea
			} else {
				merged[i] = eb
			}
			continue
		}
		merged[i] = Combine([]*Union{ea, eb}, variance, false)
	}
	existing.TypeParams = merged
	existing.IsThis = existing.IsThis && t.IsThis
	c.objects[t.Name] = existing
}

func (c *combination) finish() *Union {
	u := &Union{}
	if c.hasMixed {
		u.addAtomic(TMixed{})
	}

	// literal widening: if we also saw the plain supertype, drop the
	// literals in favor of it.
	if c.sawPlainInt {
		u.addAtomic(TInt{})
	} else {
		for v := range c.literalInts {
			u.addAtomic(TLiteralInt{Value: v})
		}
	}
	if c.sawPlainString {
		u.addAtomic(TString{})
	} else {
		for v := range c.literalStrings {
			u.addAtomic(TLiteralString{Value: v})
		}
	}
	for v := range c.classnames {
		u.addAtomic(TClassname{Value: v})
	}

	for _, a := range c.simple {
		u.addAtomic(a)
	}
	for _, o := range c.objects {
		u.addAtomic(o)
	}
	if c.sawVec {
		u.addAtomic(*c.vec)
	}
	if c.sawKeyset {
		u.addAtomic(*c.keyset)
	}
	if c.sawDict {
		u.addAtomic(*c.dict)
	}

	if len(u.Types) == 0 {
		u.addAtomic(TNothing{})
	}
	return u
}
