// Package rex implements a regular expression engine with a
// backtracking-free execution model.
//
// A pattern is compiled into a linear instruction program whose control flow
// is encoded as explicit jumps and splits; matching simulates the resulting
// NFA over the input with all live threads advancing in lock step, so search
// time is O(input × program) in the worst case for any pattern (ReDoS safe).
// Capture groups, named groups, inline flags, Unicode classes and the usual
// quantifiers are supported; back-references and look-around (beyond anchors
// and word boundaries) are not.
//
// Basic usage:
//
//	re, err := rex.Compile(`(?P<user>\w+)@(\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if caps := re.Captures("mail me at andrew@example"); caps != nil {
//	    fmt.Println(caps.Name("user")) // "andrew"
//	}
//
// All positions returned by this package are byte offsets into the input
// string and always lie on character boundaries.
package rex

import (
	"strings"

	"github.com/coregx/rex/prefilter"
	"github.com/coregx/rex/vm"
)

// Regex is a compiled regular expression. Once compiled it can be used
// repeatedly to search, split or replace text, and is safe for concurrent
// use: every search builds its own execution state.
type Regex struct {
	prog  *vm.Program
	pf    prefilter.Prefilter
	names map[string]int
}

// Compile compiles a regular expression pattern. The returned error is a
// *syntax.Error carrying the byte position of the fault.
func Compile(pattern string) (*Regex, error) {
	prog, err := vm.Compile(pattern)
	if err != nil {
		return nil, err
	}
	names := make(map[string]int)
	for i, name := range prog.CaptureNames() {
		if name != "" {
			names[name] = i
		}
	}
	var lits [][]byte
	for _, lit := range prog.PrefixLiterals() {
		lits = append(lits, []byte(string(lit)))
	}
	return &Regex{
		prog:  prog,
		pf:    prefilter.New(lits),
		names: names,
	}, nil
}

// MustCompile compiles a pattern and panics if it fails. Useful for
// patterns known to be valid at compile time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("rex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source text the expression was compiled from.
func (re *Regex) String() string {
	return re.prog.Source()
}

// NumCaptures returns the number of capture groups, including group 0
// (the entire match).
func (re *Regex) NumCaptures() int {
	return re.prog.NumCaptures()
}

// CaptureNames returns the capture group names indexed by group number.
// Unnamed groups have an empty name; index 0 is always unnamed.
func (re *Regex) CaptureNames() []string {
	return re.prog.CaptureNames()
}

// IsMatch reports whether the text contains any match of the expression.
func (re *Regex) IsMatch(text string) bool {
	s := newSearchText(text)
	return s.exec(re, 0, false) != nil
}

// Find returns the byte range [start, end) of the leftmost match in text as
// a two-element slice, or nil when there is no match.
func (re *Regex) Find(text string) []int {
	s := newSearchText(text)
	locs := s.exec(re, 0, false)
	if locs == nil {
		return nil
	}
	return []int{s.bytei[locs[0]], s.bytei[locs[1]]}
}

// FindIter returns the byte ranges of all successive non-overlapping
// matches in text, leftmost first. An empty match immediately following a
// match is skipped by advancing one character, so iteration always
// terminates.
func (re *Regex) FindIter(text string) [][]int {
	s := newSearchText(text)
	var out [][]int
	for _, locs := range re.iterate(s, false, 0) {
		out = append(out, []int{s.bytei[locs[0]], s.bytei[locs[1]]})
	}
	return out
}

// Captures returns the capture groups of the leftmost match in text, or nil
// when there is no match. Group 0 is the entire match.
func (re *Regex) Captures(text string) *Captures {
	s := newSearchText(text)
	locs := s.exec(re, 0, true)
	if locs == nil {
		return nil
	}
	return &Captures{text: text, locs: s.toByteLocs(locs), names: re.names}
}

// CapturesIter returns the capture groups of all successive non-overlapping
// matches in text. It is FindIter except that it yields capture groups
// rather than positions.
func (re *Regex) CapturesIter(text string) []*Captures {
	s := newSearchText(text)
	var out []*Captures
	for _, locs := range re.iterate(s, true, 0) {
		out = append(out, &Captures{text: text, locs: s.toByteLocs(locs), names: re.names})
	}
	return out
}

// Split returns the substrings of text delimited by matches of the
// expression: the text that is not matched. A trailing empty piece after a
// match ending at the end of text is omitted.
func (re *Regex) Split(text string) []string {
	s := newSearchText(text)
	var out []string
	last := 0
	for _, locs := range re.iterate(s, false, 0) {
		out = append(out, text[last:s.bytei[locs[0]]])
		last = s.bytei[locs[1]]
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// SplitN returns at most n substrings of text delimited by matches. The
// n-th piece is the unsplit remainder; n of 0 returns no substrings.
func (re *Regex) SplitN(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{text}
	}
	s := newSearchText(text)
	var out []string
	last := 0
	for _, locs := range re.iterate(s, false, n-1) {
		out = append(out, text[last:s.bytei[locs[0]]])
		last = s.bytei[locs[1]]
	}
	if len(out) == n-1 {
		out = append(out, text[last:])
	} else if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// metaChars are the characters Quote escapes.
const metaChars = `\.+*?()|[]{}^$`

// Quote escapes all regular expression metacharacters in s so that it may
// be used in a pattern as a literal string.
func Quote(s string) string {
	if !strings.ContainsAny(s, metaChars) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
