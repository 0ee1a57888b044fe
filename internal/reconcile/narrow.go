package reconcile

import "github.com/glintanalyzer/glint/internal/typesystem"

// intersectAtomic computes current ∩ wrap(target): every member of the
// result is contained by target, and every member is a subtype of (or
// equal to) some member of current, matching the contract "is_contained_by
// (V, U) and is_contained_by(V, wrap(A))".
func intersectAtomic(current *typesystem.Union, target typesystem.Atomic, hierarchy typesystem.ClassHierarchy) (*typesystem.Union, bool, bool) {
	if current.HasMixed {
		return typesystem.Single(target), false, false
	}

	var kept []typesystem.Atomic
	changed := false
	for _, a := range current.Types {
		if typesystem.AtomicEqual(a, target) {
			kept = append(kept, a)
			continue
		}
		if ok, _ := typesystem.AtomicContainedBy(target, a, hierarchy); ok {
			// a is broader than target (e.g. current has `int`, asserted
			// `is 5`): narrow down to the asserted atomic.
			kept = append(kept, target)
			changed = true
			continue
		}
		if ok, _ := typesystem.AtomicContainedBy(a, target, hierarchy); ok {
			// a is already a subtype of target: keep it as-is.
			kept = append(kept, a)
			continue
		}
		// a is incompatible with target: drop it.
		changed = true
	}

	if len(kept) == 0 {
		return typesystem.Nothing(), true, false
	}
	result := typesystem.New(kept...)
	return result, false, !changed && len(kept) == len(current.Types)
}

// intersectUnion applies intersectAtomic member-by-member against every
// atomic in target and joins the survivors, the InArray(u) contract.
func intersectUnion(current *typesystem.Union, target *typesystem.Union, hierarchy typesystem.ClassHierarchy) (*typesystem.Union, bool, bool) {
	if target == nil || len(target.Types) == 0 {
		return typesystem.Nothing(), true, false
	}
	var survivors []*typesystem.Union
	redundant := true
	for _, t := range target.Types {
		r, c, red := intersectAtomic(current, t, hierarchy)
		if !red {
			redundant = false
		}
		if !c {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return typesystem.Nothing(), true, redundant
	}
	return typesystem.Combine(survivors, nil, false), false, redundant
}

// subtractAtomic removes target from current. Exact members are dropped
// outright, which is how `?T` minus null yields `T`. Anything
// else (e.g. subtracting a literal int from a plain `int` member) is a
// best-effort no-op, since the engine has no way to represent "int except
// 5" as an atomic.
func subtractAtomic(current *typesystem.Union, target typesystem.Atomic) (*typesystem.Union, bool, bool) {
	removedAny := false
	filtered := current.Filter(func(a typesystem.Atomic) bool {
		if typesystem.AtomicEqual(a, target) {
			removedAny = true
			return false
		}
		return true
	})
	if !removedAny {
		return current, false, true
	}
	if len(filtered.Types) == 0 && !filtered.HasMixed {
		return typesystem.Nothing(), true, false
	}
	return filtered, false, false
}

// subtractUnion removes every literal member of target from current, the
// NotInArray(u) contract.
func subtractUnion(current *typesystem.Union, target *typesystem.Union) (*typesystem.Union, bool, bool) {
	if target == nil {
		return current, false, true
	}
	result := current
	redundant := true
	for _, t := range target.Types {
		var red bool
		var contradiction bool
		result, contradiction, red = subtractAtomic(result, t)
		if !red {
			redundant = false
		}
		if contradiction {
			return result, true, redundant
		}
	}
	return result, false, redundant
}

func isDefinitelyTruthy(a typesystem.Atomic) bool {
	switch t := a.(type) {
	case typesystem.TLiteralInt:
		return t.Value != 0
	case typesystem.TLiteralString:
		return t.Value != ""
	case typesystem.TNamedObject:
		return true
	case typesystem.TVec:
		return t.NonEmpty || len(t.Known) > 0
	case typesystem.TKeyset:
		return t.NonEmpty
	case typesystem.TDict:
		return t.NonEmpty || len(t.Known) > 0
	default:
		return false
	}
}

func isDefinitelyFalsy(a typesystem.Atomic) bool {
	switch t := a.(type) {
	case typesystem.TNull, typesystem.TVoid:
		return true
	case typesystem.TLiteralInt:
		return t.Value == 0
	case typesystem.TLiteralString:
		return t.Value == ""
	default:
		return false
	}
}

// filterTruthy drops every definitely-falsy member, the Truthy contract.
func filterTruthy(current *typesystem.Union) (*typesystem.Union, bool, bool) {
	allTruthy := true
	result := current.Filter(func(a typesystem.Atomic) bool {
		if !isDefinitelyTruthy(a) {
			allTruthy = false
		}
		return !isDefinitelyFalsy(a)
	})
	if len(result.Types) == 0 && !result.HasMixed {
		return typesystem.Nothing(), true, false
	}
	return result, false, allTruthy
}

// filterFalsy drops every definitely-truthy member, the Falsy contract.
func filterFalsy(current *typesystem.Union) (*typesystem.Union, bool, bool) {
	allFalsy := true
	result := current.Filter(func(a typesystem.Atomic) bool {
		if !isDefinitelyFalsy(a) {
			allFalsy = false
		}
		return !isDefinitelyTruthy(a)
	})
	if len(result.Types) == 0 && !result.HasMixed {
		return typesystem.Nothing(), true, false
	}
	return result, false, allFalsy
}
