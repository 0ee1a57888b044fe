package typesystem

// ComparisonResult carries the coercion flags a subtype check produces,
// which drive distinct diagnostic severities downstream.
type ComparisonResult struct {
	TypeCoerced                bool
	TypeCoercedFromNestedMixed bool
	TypeCoercedFromNestedAny   bool
	TypeCoercedFromAsMixed     bool
	UpcastedAwaitable          bool

	// ReplacementUnionType is set when the container "almost matches, but
	// we know the narrower type" — used by autofix to suggest tightening
	// a declared type.
	ReplacementUnionType *Union
}

// ClassHierarchy resolves a class's transitive parents/interfaces, needed
// to decide named-object subtyping. Implemented by internal/codebase; kept
// as a narrow interface here so typesystem never imports codebase.
type ClassHierarchy interface {
	// IsInstanceOf reports whether class `child` extends/implements
	// `ancestor` (reflexive: every class is an instance of itself).
	IsInstanceOf(child, ancestor string) bool
	// TemplateExtendedParams returns, for `child` extending `ancestor`,
	// the substitution from `ancestor`'s template parameter names to the
	// unions `child` supplies for them.
	TemplateExtendedParams(child, ancestor string) map[string]*Union
	ClassTemplateVariance(className string) []Variance
}

// IsContainedBy reports whether every member of input is a subtype of some
// member of container. It is the public
// entry point used by the reconciler and by argument/return comparison.
func IsContainedBy(input, container *Union, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult
	if container == nil || container.HasMixed {
		return true, result
	}
	if input == nil || len(input.Types) == 0 {
		return true, result
	}
	ok := true
	for _, in := range input.Types {
		memberOK, memberResult := atomicContainedByUnion(in, container, hierarchy)
		mergeResult(&result, memberResult)
		if !memberOK {
			ok = false
		}
	}
	return ok, result
}

func mergeResult(into *ComparisonResult, from ComparisonResult) {
	into.TypeCoerced = into.TypeCoerced || from.TypeCoerced
	into.TypeCoercedFromNestedMixed = into.TypeCoercedFromNestedMixed || from.TypeCoercedFromNestedMixed
	into.TypeCoercedFromNestedAny = into.TypeCoercedFromNestedAny || from.TypeCoercedFromNestedAny
	into.TypeCoercedFromAsMixed = into.TypeCoercedFromAsMixed || from.TypeCoercedFromAsMixed
	into.UpcastedAwaitable = into.UpcastedAwaitable || from.UpcastedAwaitable
	if from.ReplacementUnionType != nil {
		into.ReplacementUnionType = from.ReplacementUnionType
	}
}

func atomicContainedByUnion(in Atomic, container *Union, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var best ComparisonResult
	for _, c := range container.Types {
		ok, res := AtomicContainedBy(in, c, hierarchy)
		if ok {
			return true, res
		}
		best = res
	}
	return false, best
}

// scalarRank orders the scalar lattice: nothing <
// {literal int/string, enum case} < {int, string, enum} < arraykey <
// num/scalar < mixed.
func scalarRank(a Atomic) (rank int, ok bool) {
	switch a.(type) {
	case TNothing:
		return 0, true
	case TLiteralInt, TLiteralString, TEnumCase:
		return 1, true
	case TInt, TString:
		return 2, true
	case TArraykey:
		return 3, true
	case TNum, TScalar:
		return 4, true
	case TMixed:
		return 5, true
	default:
		return 0, false
	}
}

// AtomicContainedBy reports whether the single atomic `in` is a subtype of
// the single atomic `container`.
func AtomicContainedBy(in, container Atomic, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult

	if _, ok := container.(TMixed); ok {
		return true, result
	}
	if AtomicEqual(in, container) {
		return true, result
	}

	switch c := container.(type) {
	case TNum:
		switch in.(type) {
		case TInt, TFloat, TLiteralInt:
			return true, result
		}
	case TArraykey:
		switch in.(type) {
		case TInt, TString, TLiteralInt, TLiteralString, TEnumCase:
			return true, result
		}
	case TScalar:
		switch in.(type) {
		case TInt, TFloat, TString, TBool, TLiteralInt, TLiteralString, TEnumCase, TArraykey, TNum:
			return true, result
		}
	case TInt:
		if _, ok := in.(TLiteralInt); ok {
			return true, result
		}
	case TString:
		switch in.(type) {
		case TLiteralString, TClassname:
			return true, result
		}
	case TEnumCase:
		if lit, ok := in.(TEnumCase); ok {
			return lit.EnumName == c.EnumName && lit.CaseName == c.CaseName, result
		}

	case TVec:
		inVec, ok := in.(TVec)
		if !ok {
			return false, result
		}
		return vecContainedBy(inVec, c, hierarchy)

	case TKeyset:
		inKey, ok := in.(TKeyset)
		if !ok {
			return false, result
		}
		ok2, r := IsContainedBy(inKey.Param, c.Param, hierarchy)
		return ok2, r

	case TDict:
		inDict, ok := in.(TDict)
		if !ok {
			return false, result
		}
		return dictContainedBy(inDict, c, hierarchy)

	case TNamedObject:
		inObj, ok := in.(TNamedObject)
		if !ok {
			return false, result
		}
		return namedObjectContainedBy(inObj, c, hierarchy)

	case TClosure:
		inClosure, ok := in.(TClosure)
		if !ok {
			return false, result
		}
		return closureContainedBy(inClosure, c, hierarchy)

	case TGenericParam:
		if inGeneric, ok := in.(TGenericParam); ok {
			if inGeneric.Name == c.Name && inGeneric.DefiningEntity == c.DefiningEntity {
				return true, result
			}
		}
		// T with `as U` is a subtype of V iff U is a subtype of V.
		if inGeneric, ok := in.(TGenericParam); ok && inGeneric.As != nil {
			return IsContainedBy(inGeneric.As, Single(container), hierarchy)
		}
	}

	// The cases above cover every scalar ordering except the bottom one:
	// nothing is contained by any scalar. Peers of one rank (int and
	// string, say) are not contained by each other.
	if inRank, ok1 := scalarRank(in); ok1 && inRank == 0 {
		if _, ok2 := scalarRank(container); ok2 {
			return true, result
		}
	}

	return false, result
}

func vecContainedBy(in, container TVec, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult
	if len(container.Known) > 0 {
		for k, ce := range container.Known {
			ie, has := in.Known[k]
			if !has {
				if ce.PossiblyUndefined {
					continue
				}
				// spill into the container's fallback type parameter
				ok, r := IsContainedBy(in.Param, ce.Type, hierarchy)
				mergeResult(&result, r)
				if !ok {
					return false, result
				}
				continue
			}
			ok, r := IsContainedBy(ie.Type, ce.Type, hierarchy)
			mergeResult(&result, r)
			if !ok {
				return false, result
			}
		}
	}
	ok, r := IsContainedBy(in.Param, container.Param, hierarchy)
	mergeResult(&result, r)
	return ok, result
}

func dictContainedBy(in, container TDict, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult
	if len(container.Known) > 0 {
		for k, ce := range container.Known {
			ie, has := in.Known[k]
			if !has {
				if ce.PossiblyUndefined {
					continue
				}
				ok, r := IsContainedBy(in.Value, ce.Type, hierarchy)
				mergeResult(&result, r)
				if !ok {
					return false, result
				}
				continue
			}
			if !ie.PossiblyUndefined || ce.PossiblyUndefined {
				ok, r := IsContainedBy(ie.Type, ce.Type, hierarchy)
				mergeResult(&result, r)
				if !ok {
					return false, result
				}
			} else {
				return false, result
			}
		}
	}
	ok1, r1 := IsContainedBy(in.Key, container.Key, hierarchy)
	mergeResult(&result, r1)
	ok2, r2 := IsContainedBy(in.Value, container.Value, hierarchy)
	mergeResult(&result, r2)
	return ok1 && ok2, result
}

func namedObjectContainedBy(in, container TNamedObject, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult
	if hierarchy == nil {
		return in.Name == container.Name, result
	}
	if !hierarchy.IsInstanceOf(in.Name, container.Name) {
		return false, result
	}
	if len(container.TypeParams) == 0 {
		return true, result
	}
	subst := hierarchy.TemplateExtendedParams(in.Name, container.Name)
	variances := hierarchy.ClassTemplateVariance(container.Name)
	for i, cParam := range container.TypeParams {
		var inParam *Union
		if i < len(in.TypeParams) {
			inParam = in.TypeParams[i]
		} else if subst != nil {
			// Best-effort: no positional substitution info available
			// beyond what TemplateExtendedParams already folded in.
			inParam = cParam
		}
		v := Covariant
		if i < len(variances) {
			v = variances[i]
		}
		var ok bool
		var r ComparisonResult
		switch v {
		case Contravariant:
			ok, r = IsContainedBy(cParam, inParam, hierarchy)
		default:
			ok, r = IsContainedBy(inParam, cParam, hierarchy)
		}
		mergeResult(&result, r)
		if !ok {
			return false, result
		}
	}
	return true, result
}

func closureContainedBy(in, container TClosure, hierarchy ClassHierarchy) (bool, ComparisonResult) {
	var result ComparisonResult
	if len(in.Params) != len(container.Params) {
		return false, result
	}
	// Contravariant in parameters: each container param must be a subtype
	// of the corresponding input param.
	for i := range container.Params {
		ok, r := IsContainedBy(container.Params[i], in.Params[i], hierarchy)
		mergeResult(&result, r)
		if !ok {
			return false, result
		}
	}
	// Covariant in return type.
	ok, r := IsContainedBy(in.Return, container.Return, hierarchy)
	mergeResult(&result, r)
	if !ok {
		return false, result
	}
	if container.Effects.IsPure() && !in.Effects.IsPure() {
		result.TypeCoerced = true
		return false, result
	}
	return true, result
}
