package vm

import (
	"fmt"
	"strings"
)

// Program is a compiled regular expression: a flat instruction array plus
// the metadata the search layer needs. A Program is immutable once built and
// safe to share across goroutines; all mutable search state lives in the
// PikeVM that executes it.
type Program struct {
	insts       []Inst
	names       []string // capture group names; index 0 is always ""
	source      string
	prefix      []rune
	altPrefixes [][]rune
	numCaps     int
}

// Insts returns the instruction array. Callers must not modify it.
func (p *Program) Insts() []Inst {
	return p.insts
}

// Source returns the pattern the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// NumCaptures returns the number of capture groups, including group 0
// (the entire match).
func (p *Program) NumCaptures() int {
	return p.numCaps
}

// CaptureNames returns the capture group names indexed by group number.
// Unnamed groups have an empty name; index 0 is always unnamed.
func (p *Program) CaptureNames() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// Prefix returns the literal characters every match must begin with, found
// by scanning the leading case-sensitive Char instructions. It may be empty.
func (p *Program) Prefix() []rune {
	return p.prefix
}

// PrefixLiterals returns the set of literal strings such that every match
// begins with one of them, or nil when no such set was derived. For a plain
// literal prefix the set has one element; for a leading alternation of
// literals it has one element per arm.
func (p *Program) PrefixLiterals() [][]rune {
	if len(p.prefix) > 0 {
		return [][]rune{p.prefix}
	}
	return p.altPrefixes
}

// String returns a disassembly of the program, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for pc, inst := range p.insts {
		fmt.Fprintf(&b, "%3d: %s\n", pc, inst)
	}
	return b.String()
}
