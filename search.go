package rex

import (
	"sort"

	"github.com/coregx/rex/vm"
)

// searchText is the per-input search state: the materialised character
// sequence and the table translating character indices to byte offsets.
// The simulation works in character indices so that per-step work is
// uniform; results are translated at the API boundary.
type searchText struct {
	text  string
	bytes []byte
	chars []rune
	bytei []int // bytei[i] is the byte offset of chars[i]; one extra entry holds len(text)
}

func newSearchText(text string) *searchText {
	chars := make([]rune, 0, len(text))
	bytei := make([]int, 0, len(text)+1)
	for i, r := range text {
		chars = append(chars, r)
		bytei = append(bytei, i)
	}
	bytei = append(bytei, len(text))
	return &searchText{
		text:  text,
		bytes: []byte(text),
		chars: chars,
		bytei: bytei,
	}
}

// exec runs the expression over chars[us:] and returns the capture slots of
// the leftmost match as absolute character indices, or nil. When the
// expression has a prefilter, positions that cannot start a match are
// skipped before the simulation is seeded.
func (s *searchText) exec(re *Regex, us int, wantCaps bool) []int {
	start := us
	if re.pf != nil {
		if start >= len(s.bytei) {
			return nil
		}
		pos := re.pf.Find(s.bytes, s.bytei[start])
		if pos < 0 {
			return nil
		}
		// A candidate found by a byte scan may land inside a multi-byte
		// character; starting at the character containing it never skips
		// a real match start.
		start = s.charIndexAtOrBefore(pos)
	}
	locs := vm.NewPikeVM(re.prog).Run(s.chars[start:], wantCaps)
	if locs == nil {
		return nil
	}
	for i, v := range locs {
		if v >= 0 {
			locs[i] = v + start
		}
	}
	return locs
}

// charIndexAtOrBefore maps a byte offset to the index of the character
// containing it.
func (s *searchText) charIndexAtOrBefore(pos int) int {
	i := sort.SearchInts(s.bytei, pos)
	if i < len(s.bytei) && s.bytei[i] == pos {
		return i
	}
	return i - 1
}

// toByteLocs translates character-indexed capture slots to byte offsets.
func (s *searchText) toByteLocs(locs []int) []int {
	out := make([]int, len(locs))
	for i, v := range locs {
		if v < 0 {
			out[i] = -1
			continue
		}
		out[i] = s.bytei[v]
	}
	return out
}

// iterate yields the capture slots (character-indexed) of successive
// non-overlapping matches, leftmost first. After a match ending at ue the
// next search starts at ue; an empty match coinciding with the previous
// match end is skipped by advancing one character so that iteration cannot
// loop at a single position. A limit > 0 caps the number of matches.
func (re *Regex) iterate(s *searchText, wantCaps bool, limit int) [][]int {
	var out [][]int
	lastEnd := 0
	lastMatch := -1
	for lastEnd <= len(s.chars) {
		if limit > 0 && len(out) >= limit {
			break
		}
		locs := s.exec(re, lastEnd, wantCaps)
		if locs == nil {
			break
		}
		us, ue := locs[0], locs[1]
		if us == ue && us == lastMatch {
			lastEnd++
			continue
		}
		out = append(out, locs)
		lastEnd = ue
		lastMatch = ue
	}
	return out
}
