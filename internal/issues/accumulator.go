package issues

import (
	"sort"

	"github.com/glintanalyzer/glint/internal/pos"
)

// Accumulator collects one file's diagnostics during analysis: emitted
// issues, autofix replacements, and the reverse symbol-reference index
// consulted for incremental invalidation. One Accumulator is owned by a
// single analysis worker and never shared.
type Accumulator struct {
	File string

	suppressions *Suppressions
	fixmes       FixmeTable

	issues       []Issue
	counts       map[Kind]int
	replacements map[pos.Key]Replacement

	// SymbolReferences maps an interned symbol name this file refers to
	// (class, function, constant) to the positions of each reference.
	SymbolReferences map[string][]pos.Pos
}

func NewAccumulator(file string, suppressions *Suppressions, fixmes FixmeTable) *Accumulator {
	return &Accumulator{
		File:             file,
		suppressions:     suppressions,
		fixmes:           fixmes,
		counts:           make(map[Kind]int),
		replacements:     make(map[pos.Key]Replacement),
		SymbolReferences: make(map[string][]pos.Pos),
	}
}

// Report appends iss unless it is suppressed by the file's glob table or
// an inline fixme on its starting line. lineOf resolves a byte offset to
// a 1-based source line; callers that have no line index may pass nil,
// in which case fixme suppression never applies.
func (a *Accumulator) Report(iss Issue, lineOf func(offset uint32) int) {
	if a.suppressions != nil && a.suppressions.Suppressed(iss.Kind, a.File) {
		return
	}
	if a.fixmes != nil && lineOf != nil {
		if a.fixmes.Suppressed(lineOf(iss.Pos.Start), iss.Kind) {
			return
		}
	}
	a.issues = append(a.issues, iss)
	a.counts[iss.Kind]++
}

// AddReplacement registers a non-overlapping autofix at the given byte
// range. It reports false (and does not install the replacement) if the
// range overlaps one already recorded, since autofixes must never
// conflict within a single file.
func (a *Accumulator) AddReplacement(at pos.Pos, r Replacement) bool {
	key := at.Key()
	for existingKey := range a.replacements {
		if key.Start < existingKey.End && existingKey.Start < key.End {
			return false
		}
	}
	a.replacements[key] = r
	return true
}

func (a *Accumulator) Issues() []Issue { return a.issues }

func (a *Accumulator) Counts() map[Kind]int { return a.counts }

// Replacements returns the file's autofixes ordered by start offset, the
// order required for safe sequential application against source bytes.
func (a *Accumulator) Replacements() []pos.Pos {
	keys := make([]pos.Key, 0, len(a.replacements))
	for k := range a.replacements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Start != keys[j].Start {
			return keys[i].Start < keys[j].Start
		}
		return keys[i].End < keys[j].End
	})
	out := make([]pos.Pos, 0, len(keys))
	for _, k := range keys {
		out = append(out, pos.Pos{Start: k.Start, End: k.End})
	}
	return out
}

func (a *Accumulator) ReplacementAt(at pos.Pos) (Replacement, bool) {
	r, ok := a.replacements[at.Key()]
	return r, ok
}
