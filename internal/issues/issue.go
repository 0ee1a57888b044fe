package issues

import (
	"fmt"

	"github.com/glintanalyzer/glint/internal/pos"
)

// Issue is a single diagnostic emitted against one byte range of one
// function body.
type Issue struct {
	Kind        Kind
	Description string
	Pos         pos.Pos
	FunctionID  string
}

func New(kind Kind, description string, at pos.Pos, functionID string) Issue {
	return Issue{Kind: kind, Description: description, Pos: at, FunctionID: functionID}
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %d..%d: %s", i.Kind, i.Pos.Start, i.Pos.End, i.Description)
}

// Replacement is an autofix edit, keyed by its start offset in the
// original file. Ranges are absolute byte offsets; callers must keep a
// file's replacement set non-overlapping.
type Replacement struct {
	Kind ReplacementKind
	// N is the whitespace byte count for TrimPrecedingWhitespace/
	// TrimTrailingWhitespace; unused otherwise.
	N int
	// Text is the replacement text for Substitute; unused otherwise.
	Text string
}

type ReplacementKind int

const (
	Remove ReplacementKind = iota
	TrimPrecedingWhitespace
	TrimTrailingWhitespace
	Substitute
)

func NewRemove() Replacement                { return Replacement{Kind: Remove} }
func NewTrimPreceding(n int) Replacement     { return Replacement{Kind: TrimPrecedingWhitespace, N: n} }
func NewTrimTrailing(n int) Replacement      { return Replacement{Kind: TrimTrailingWhitespace, N: n} }
func NewSubstitute(text string) Replacement  { return Replacement{Kind: Substitute, Text: text} }
