package issues

import (
	"testing"

	"github.com/glintanalyzer/glint/internal/pos"
)

func TestSuppressionsGlobMatch(t *testing.T) {
	s := NewSuppressions()
	s.Ignore(MixedOperand, "vendor/*.php")
	if !s.Suppressed(MixedOperand, "vendor/legacy.php") {
		t.Fatal("vendor/legacy.php should match vendor/*.php")
	}
	if s.Suppressed(MixedOperand, "src/app.php") {
		t.Fatal("src/app.php should not match vendor/*.php")
	}
	if s.Suppressed(UndefinedVariable, "vendor/legacy.php") {
		t.Fatal("suppressing one kind must not suppress another")
	}
}

func TestAccumulatorReportRespectsSuppression(t *testing.T) {
	s := NewSuppressions()
	s.Ignore(MixedOperand, "app.php")
	a := NewAccumulator("app.php", s, nil)

	a.Report(New(MixedOperand, "mixed arithmetic", pos.Pos{Start: 1, End: 2}, "f"), nil)
	a.Report(New(UndefinedVariable, "no such var", pos.Pos{Start: 3, End: 4}, "f"), nil)

	if len(a.Issues()) != 1 {
		t.Fatalf("expected exactly one surviving issue, got %d", len(a.Issues()))
	}
	if a.Issues()[0].Kind != UndefinedVariable {
		t.Fatal("the suppressed MixedOperand issue must not survive")
	}
	if a.Counts()[MixedOperand] != 0 {
		t.Fatal("a suppressed issue must not be counted either")
	}
}

func TestAccumulatorReportRespectsFixme(t *testing.T) {
	fixmes := FixmeTable{10: {UndefinedVariable: true}}
	a := NewAccumulator("app.php", nil, fixmes)
	lineOf := func(offset uint32) int { return 10 }

	a.Report(New(UndefinedVariable, "no such var", pos.Pos{Start: 5, End: 6}, "f"), lineOf)
	if len(a.Issues()) != 0 {
		t.Fatal("a fixme on the reported line should suppress the issue")
	}
}

func TestAddReplacementRejectsOverlap(t *testing.T) {
	a := NewAccumulator("app.php", nil, nil)
	if !a.AddReplacement(pos.Pos{Start: 0, End: 5}, NewRemove()) {
		t.Fatal("the first replacement should be accepted")
	}
	if a.AddReplacement(pos.Pos{Start: 3, End: 8}, NewRemove()) {
		t.Fatal("an overlapping replacement must be rejected")
	}
	if !a.AddReplacement(pos.Pos{Start: 5, End: 8}, NewRemove()) {
		t.Fatal("an adjacent, non-overlapping replacement should be accepted")
	}
}

func TestReplacementsOrderedByStartOffset(t *testing.T) {
	a := NewAccumulator("app.php", nil, nil)
	a.AddReplacement(pos.Pos{Start: 10, End: 12}, NewSubstitute("b"))
	a.AddReplacement(pos.Pos{Start: 0, End: 2}, NewSubstitute("a"))
	a.AddReplacement(pos.Pos{Start: 5, End: 6}, NewSubstitute("c"))

	ordered := a.Replacements()
	if len(ordered) != 3 || ordered[0].Start != 0 || ordered[1].Start != 5 || ordered[2].Start != 10 {
		t.Fatalf("replacements must come back sorted by start offset, got %v", ordered)
	}
}
