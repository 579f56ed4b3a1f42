package vm

import (
	"unicode"

	"github.com/coregx/rex/internal/sparse"
	"github.com/coregx/rex/syntax"
)

// PikeVM executes a Program against a character sequence by simulating the
// NFA: all live threads advance in lock step over the input, one position at
// a time, with capture positions carried per thread.
//
// A PikeVM holds the scratch state for a single search (thread lists and
// their dedup sets) and is not safe for concurrent use; the Program it
// executes is.
type PikeVM struct {
	prog  *Program
	clist *threadList
	nlist *threadList
}

// thread is one execution path: a program counter plus the capture slots
// recorded along it.
type thread struct {
	pc   int
	caps capSlots
}

// threadList is a priority-ordered list of threads for one input position.
// The sparse set keyed by pc guarantees each pc is added at most once per
// position, which bounds per-step work by the program size; the first
// addition wins, so higher-priority threads keep their captures.
type threadList struct {
	dense []thread
	seen  *sparse.Set
}

func newThreadList(n int) *threadList {
	return &threadList{
		dense: make([]thread, 0, n),
		seen:  sparse.NewSet(n),
	}
}

func (l *threadList) clear() {
	l.dense = l.dense[:0]
	l.seen.Clear()
}

// NewPikeVM creates a VM for executing the given program.
func NewPikeVM(prog *Program) *PikeVM {
	n := len(prog.insts)
	return &PikeVM{
		prog:  prog,
		clist: newThreadList(n),
		nlist: newThreadList(n),
	}
}

// Run executes the program over chars and returns the capture slots of the
// best match as character indices, or nil when there is no match. Slot 2g
// and 2g+1 bound group g; unset slots are -1.
//
// When wantCaps is false only slots 0 and 1 (the match boundaries) are
// tracked, which avoids the per-thread capture vectors for all other groups.
func (v *PikeVM) Run(chars []rune, wantCaps bool) []int {
	nslots := 2
	if wantCaps {
		nslots = 2 * v.prog.numCaps
	}
	v.clist.clear()
	v.nlist.clear()

	matched := false
	var match []int
	prefix := v.prog.prefix

	// The loop runs to len(chars) inclusive so zero-width assertions can
	// fire after the last character.
	for i := 0; i <= len(chars); i++ {
		if !matched {
			// While no match has been found, a fresh thread is seeded at
			// every position: it is appended after all carried threads and
			// so has the lowest priority, preserving leftmost preference.
			if len(v.clist.dense) == 0 && len(prefix) > 0 {
				j := indexRunes(chars, prefix, i)
				if j < 0 {
					break
				}
				i = j
			}
			v.add(v.clist, 0, i, newCapSlots(nslots), chars)
		} else if len(v.clist.dense) == 0 {
			break
		}

	threads:
		for ti := 0; ti < len(v.clist.dense); ti++ {
			t := v.clist.dense[ti]
			inst := &v.prog.insts[t.pc]
			switch inst.Op {
			case OpMatch:
				// Record this thread's captures. Any thread still pending
				// in this step has lower priority and cannot beat it, so
				// the rest of the list is discarded. Surviving threads in
				// later steps all rank higher and may refine the match.
				match = t.caps.copyData()
				matched = true
				break threads
			case OpChar:
				if i < len(chars) && matchChar(inst, chars[i]) {
					v.add(v.nlist, t.pc+1, i+1, t.caps, chars)
				}
			case OpCharClass:
				if i < len(chars) && matchClass(inst, chars[i]) {
					v.add(v.nlist, t.pc+1, i+1, t.caps, chars)
				}
			case OpAny:
				if i < len(chars) && (inst.DotNL || chars[i] != '\n') {
					v.add(v.nlist, t.pc+1, i+1, t.caps, chars)
				}
			}
		}

		v.clist, v.nlist = v.nlist, v.clist
		v.nlist.clear()
	}
	return match
}

// add adds a thread for pc at input position pos, following non-consuming
// instructions transitively. Consuming instructions and Match land in the
// list in the order they are reached, which is priority order.
func (v *PikeVM) add(list *threadList, pc, pos int, caps capSlots, chars []rune) {
	if list.seen.Contains(pc) {
		return
	}
	list.seen.Insert(pc)

	inst := &v.prog.insts[pc]
	switch inst.Op {
	case OpSave:
		v.add(list, pc+1, pos, caps.set(inst.Slot, pos), chars)
	case OpJump:
		v.add(list, inst.X, pos, caps, chars)
	case OpSplit:
		v.add(list, inst.X, pos, caps.fork(), chars)
		v.add(list, inst.Y, pos, caps, chars)
	case OpEmptyBegin:
		if pos == 0 || (inst.Multiline && chars[pos-1] == '\n') {
			v.add(list, pc+1, pos, caps, chars)
		}
	case OpEmptyEnd:
		if pos == len(chars) || (inst.Multiline && chars[pos] == '\n') {
			v.add(list, pc+1, pos, caps, chars)
		}
	case OpWordBoundary:
		var prev, next rune
		if pos > 0 {
			prev = chars[pos-1]
		}
		if pos < len(chars) {
			next = chars[pos]
		}
		at := isWordChar(prev) != isWordChar(next)
		if at == inst.Positive {
			v.add(list, pc+1, pos, caps, chars)
		}
	default:
		list.dense = append(list.dense, thread{pc: pc, caps: caps})
	}
}

func matchChar(inst *Inst, r rune) bool {
	if inst.Ch == r {
		return true
	}
	if !inst.Fold {
		return false
	}
	return foldEq(inst.Ch, r)
}

func matchClass(inst *Inst, r rune) bool {
	in := rangesContain(inst.Ranges, r)
	if !in && inst.Fold {
		for c := unicode.SimpleFold(r); c != r; c = unicode.SimpleFold(c) {
			if rangesContain(inst.Ranges, c) {
				in = true
				break
			}
		}
	}
	return in != inst.Negated
}

// rangesContain does a linear scan: ranges are sorted but may overlap, and
// classes are small enough that a scan beats a search in practice.
func rangesContain(ranges []syntax.ClassRange, r rune) bool {
	for _, rg := range ranges {
		if r >= rg.Lo && r <= rg.Hi {
			return true
		}
	}
	return false
}

// foldEq reports whether two characters are equal under simple case
// folding, by walking the fold orbit of a.
func foldEq(a, b rune) bool {
	for c := unicode.SimpleFold(a); c != a; c = unicode.SimpleFold(c) {
		if c == b {
			return true
		}
	}
	return false
}

// isWordChar reports whether r is a word character: alphanumeric or
// underscore. The zero rune (used for positions outside the input) is not.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// indexRunes returns the first index at or after from where needle occurs
// in chars, or -1.
func indexRunes(chars, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(chars); i++ {
		k := 0
		for k < len(needle) && chars[i+k] == needle[k] {
			k++
		}
		if k == len(needle) {
			return i
		}
	}
	return -1
}
