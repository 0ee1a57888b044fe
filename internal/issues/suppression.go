package issues

import "path/filepath"

// Suppressions is the file-global `(issue kind, path glob) -> ignore`
// table consulted before every Issue is appended to an Accumulator.
type Suppressions struct {
	byKind map[Kind][]string
}

func NewSuppressions() *Suppressions {
	return &Suppressions{byKind: make(map[Kind][]string)}
}

// Ignore registers a glob pattern (matched against the file path) under
// which kind should never be reported.
func (s *Suppressions) Ignore(kind Kind, glob string) {
	s.byKind[kind] = append(s.byKind[kind], glob)
}

// Suppressed reports whether kind is suppressed for path, either by an
// exact per-kind glob or a malformed glob falling back to exact match.
func (s *Suppressions) Suppressed(kind Kind, path string) bool {
	for _, glob := range s.byKind[kind] {
		ok, err := filepath.Match(glob, path)
		if err == nil && ok {
			return true
		}
		if glob == path {
			return true
		}
	}
	return false
}

// FixmeTable maps a 1-based source line to the set of issue kinds an
// upstream `// glint-fixme` style comment suppresses on that line. A nil
// or empty set for a kind falls through to Suppressions.
type FixmeTable map[int]map[Kind]bool

func (t FixmeTable) Suppressed(line int, kind Kind) bool {
	if t == nil {
		return false
	}
	return t[line][kind]
}
