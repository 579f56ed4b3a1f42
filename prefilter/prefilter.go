// Package prefilter provides fast candidate filtering for regex search
// using literal prefixes extracted at compile time.
//
// When every match of a pattern must begin with one of a known set of
// literal strings, the search layer can scan for those literals first and
// only start the full simulation at candidate positions. A prefilter never
// affects correctness: a candidate still has to be verified by the engine,
// and patterns without usable literals simply get no prefilter.
//
// Strategy selection is by literal count:
//   - a single literal uses a plain substring scan
//   - 2 to 32 literals build an Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// maxLiterals caps how many alternative literals a prefilter accepts.
const maxLiterals = 32

// Prefilter reports positions where a match could begin.
type Prefilter interface {
	// Find returns the byte index of the first candidate position at or
	// after start in haystack, or -1 when no candidate exists. Every true
	// match beginning at or after start begins at or after the returned
	// position.
	Find(haystack []byte, start int) int
}

// New builds a prefilter for the given literal alternatives. It returns nil
// when no useful prefilter can be built: no literals, an empty literal
// (which would match everywhere), or more alternatives than the automaton
// is worth building for.
func New(lits [][]byte) Prefilter {
	if len(lits) == 0 || len(lits) > maxLiterals {
		return nil
	}
	for _, lit := range lits {
		if len(lit) == 0 {
			return nil
		}
	}
	if len(lits) == 1 {
		return &substring{needle: lits[0]}
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &multiLiteral{auto: auto}
}

// substring scans for a single literal.
type substring struct {
	needle []byte
}

func (s *substring) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], s.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// multiLiteral scans for any of several literals with an Aho-Corasick
// automaton.
type multiLiteral struct {
	auto *ahocorasick.Automaton
}

func (m *multiLiteral) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	match := m.auto.Find(haystack, start)
	if match == nil {
		return -1
	}
	return match.Start
}
