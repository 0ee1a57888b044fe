package algebra

// Formula is a CNF: a list of clauses interpreted as their conjunction.
type Formula []*Clause

// TooComplex is returned by NegateFormula when De Morgan expansion would
// explode combinatorially.
type TooComplex struct{ NumClauses int }

func (e *TooComplex) Error() string {
	return "formula too complex to negate"
}

// maxNegatableClauses bounds the De Morgan expansion: negating a CNF with
// more disjuncts than this would multiply clause counts combinatorially,
// so callers must fall back to treating the branch as unconstrained.
const maxNegatableClauses = 4

// AndFormula is the logical `&&` composition of two formulas: simple list
// concatenation, since CNF conjunction is associative.
func AndFormula(a, b Formula) Formula {
	out := make(Formula, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// CombineOredClauses computes the logical `||` of two single clauses: a
// Cartesian product of their possibility sets, unioning possibilities
// per-variable. Two clauses with no fence (wedge) flags combine into one;
// if either side is empty the other side is returned untouched (true `||`
// false-branch identity).
func CombineOredClauses(a, b *Clause, creatingConditionalID ObjectID) *Clause {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	possibilities := make(map[string][]Assertion)
	for _, v := range a.Vars() {
		possibilities[v] = append(possibilities[v], a.Assertions(v)...)
	}
	for _, v := range b.Vars() {
		possibilities[v] = mergeAssertions(possibilities[v], b.Assertions(v))
	}
	wedge := a.Wedge || b.Wedge
	reconcilable := a.Reconcilable && b.Reconcilable
	return NewClause(possibilities, creatingConditionalID, a.CreatingObjectID, wedge, reconcilable, true)
}

func mergeAssertions(existing, more []Assertion) []Assertion {
	seen := make(map[uint64]bool, len(existing))
	out := append([]Assertion{}, existing...)
	for _, a := range existing {
		seen[a.Hash()] = true
	}
	for _, a := range more {
		if seen[a.Hash()] {
			continue
		}
		seen[a.Hash()] = true
		out = append(out, a)
	}
	return out
}

// OrFormula computes the `||` of two formulas as the Cartesian product of
// their clauses, each pair combined with CombineOredClauses. This is the
// textbook CNF-of-disjunction expansion and is exactly what makes
// negation/OR-ing require the complexity cap above.
func OrFormula(a, b Formula, creatingConditionalID ObjectID) Formula {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(Formula, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			out = append(out, CombineOredClauses(ca, cb, creatingConditionalID))
		}
	}
	return out
}

// NegateFormula returns the CNF of !F. By De Morgan, negating a conjunction
// of clauses turns it into a disjunction of the clauses' own negations,
// each of which must then be re-expanded back into CNF — an OrFormula
// fold across every clause's per-variable negated disjunction. When the
// input has more than maxNegatableClauses clauses, this returns TooComplex
// rather than let the expansion blow up; the caller must then treat the
// negative branch as unconstrained.
func NegateFormula(f Formula) (Formula, error) {
	if len(f) == 0 {
		return Formula{}, nil
	}
	if len(f) > maxNegatableClauses {
		return nil, &TooComplex{NumClauses: len(f)}
	}
	var result Formula
	for i, clause := range f {
		negated := negateClause(clause)
		if i == 0 {
			result = negated
			continue
		}
		result = OrFormula(result, negated, clause.CreatingConditionalID)
	}
	return result, nil
}

// negateClause turns a single clause (a disjunction) into CNF for its
// negation: by De Morgan, !(A || B || C) == !A && !B && !C, i.e. one
// single-possibility clause per (variable, assertion) pair in the original.
func negateClause(c *Clause) Formula {
	if c.Wedge {
		// A wedge is "possibly true and possibly false" by construction;
		// its negation is equally unconstrained.
		return Formula{c}
	}
	var out Formula
	for _, varID := range c.Vars() {
		for _, a := range c.Assertions(varID) {
			neg := NewClause(
				map[string][]Assertion{varID: {a.GetNegation()}},
				c.CreatingConditionalID,
				c.CreatingObjectID,
				false,
				c.Reconcilable,
				true,
			)
			out = append(out, neg)
		}
	}
	return out
}

// SimplifyCNF removes entailed clauses (subsumption), resolves pairs of
// clauses that differ only in one variable's assertion being the negation
// of the other (absorption), and drops redundant wedges.
func SimplifyCNF(f Formula) Formula {
	if len(f) <= 1 {
		return f
	}
	kept := make(Formula, 0, len(f))
	for i, c := range f {
		dominated := false
		for j, other := range f {
			if i == j {
				continue
			}
			// other dominates c when other's possibilities are a subset of
			// c's (other is the stronger, fewer-disjunct clause): c.Contains
			// reports c ⊇ other. On an exact tie, keep only the earlier
			// index so equal clauses don't mutually eliminate each other.
			if c.Contains(other) && !(other.Contains(c) && j > i) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}
	return absorb(dedupe(kept))
}

func dedupe(f Formula) Formula {
	seen := make(map[uint64]bool, len(f))
	out := make(Formula, 0, len(f))
	for _, c := range f {
		if seen[c.Hash()] {
			continue
		}
		seen[c.Hash()] = true
		out = append(out, c)
	}
	return out
}

// absorb finds pairs of clauses that are identical except that exactly one
// variable's sole assertion is negated between them; such a pair is
// logically equivalent to dropping that variable entirely (A||x) &&
// (A||!x) == A. Only single-possibility-per-variable clauses are eligible,
// matching the original engine's conservative absorption rule.
func absorb(f Formula) Formula {
	used := make([]bool, len(f))
	var out Formula
	for i := 0; i < len(f); i++ {
		if used[i] {
			continue
		}
		merged := false
		for j := i + 1; j < len(f); j++ {
			if used[j] {
				continue
			}
			if varID, ok := singleVarNegationPair(f[i], f[j]); ok {
				reduced := f[i].RemovePossibilities(varID)
				used[i], used[j] = true, true
				if reduced != nil {
					out = append(out, reduced)
				}
				merged = true
				break
			}
		}
		if !merged && !used[i] {
			out = append(out, f[i])
		}
	}
	return out
}

// singleVarNegationPair reports whether a and b share every variable's
// possibilities except one, on which a's single assertion is the negation
// of b's single assertion.
func singleVarNegationPair(a, b *Clause) (string, bool) {
	if len(a.Possibilities) != len(b.Possibilities) {
		return "", false
	}
	diffVar := ""
	diffCount := 0
	for _, v := range a.Vars() {
		ae := a.Assertions(v)
		be := b.Assertions(v)
		if be == nil {
			return "", false
		}
		if equalAssertionSets(ae, be) {
			continue
		}
		diffCount++
		diffVar = v
		if diffCount > 1 {
			return "", false
		}
		if len(ae) != 1 || len(be) != 1 || !ae[0].IsNegationOf(be[0]) {
			return "", false
		}
	}
	if diffCount != 1 {
		return "", false
	}
	return diffVar, true
}

func equalAssertionSets(a, b []Assertion) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint64]bool, len(a))
	for _, x := range a {
		seen[x.Hash()] = true
	}
	for _, y := range b {
		if !seen[y.Hash()] {
			return false
		}
	}
	return true
}

// Truths is the per-variable set of assertions established by a formula:
// a variable appears here when it has the same single assertion across
// every clause that mentions it.
type Truths map[string][]Assertion

// GetTruthsFromFormula extracts, for each variable, the assertions that
// must hold given the whole conjunction. `truths` holds every established
// fact; `activeTruths` holds only the subset whose originating clause's
// CreatingConditionalID matches creatingCondID (used to localize
// diagnostics to the condition just evaluated). referenced accumulates
// every variable id mentioned by any clause, for unused-variable
// bookkeeping. `paradoxes` lists, in first-encountered order, every
// variable id for which two ANDed single-assertion clauses directly
// contradict each other (e.g. `$x === 0 && $x === 1`) — the conjunction
// can never be satisfied.
func GetTruthsFromFormula(f Formula, creatingCondID ObjectID, referenced map[string]bool) (truths Truths, activeTruths Truths, paradoxes []string) {
	truths = make(Truths)
	activeTruths = make(Truths)

	perVarClauses := make(map[string][]*Clause)
	var varOrder []string
	for _, c := range f {
		for _, v := range c.Vars() {
			if referenced != nil {
				referenced[v] = true
			}
			if _, seen := perVarClauses[v]; !seen {
				varOrder = append(varOrder, v)
			}
			perVarClauses[v] = append(perVarClauses[v], c)
		}
	}

	for _, v := range varOrder {
		clauses := perVarClauses[v]
		// Only variables that are the SOLE possibility in every clause
		// they appear in, each time with a single consistent assertion,
		// count as an established truth (matches the semantics: "the
		// variable appears in every clause with the same single
		// assertion, or every clause resolves to a single assertion for
		// it").
		if len(clauses) != countClausesWithOnlyVar(f, v) {
			continue
		}
		var established []Assertion
		consistent := true
		active := true
		for _, c := range clauses {
			as := c.Assertions(v)
			if len(as) != 1 {
				consistent = false
				break
			}
			if len(established) == 0 {
				established = as
			} else if established[0].Hash() != as[0].Hash() {
				if established[0].Contradicts(as[0]) {
					paradoxes = append(paradoxes, v)
				}
				consistent = false
				break
			}
			if c.CreatingConditionalID != creatingCondID {
				active = false
			}
		}
		if consistent && len(established) > 0 {
			truths[v] = established
			if active {
				activeTruths[v] = established
			}
		}
	}
	return truths, activeTruths, paradoxes
}

func countClausesWithOnlyVar(f Formula, varID string) int {
	count := 0
	for _, c := range f {
		if len(c.Possibilities) == 1 {
			if _, ok := c.Possibilities[varID]; ok {
				count++
			}
		}
	}
	return count
}
