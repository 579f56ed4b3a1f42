// Package vm compiles regular expression syntax trees into linear
// instruction programs and executes them with a backtracking-free NFA
// simulation.
//
// Control flow in a program is explicit: alternation and repetition are
// encoded as Split and Jump instructions, and greediness is expressed purely
// by the order of Split targets. The simulation advances every live thread
// in lock step over the input, so matching is O(input × program) in the
// worst case regardless of the pattern.
package vm

import (
	"fmt"

	"github.com/coregx/rex/syntax"
)

// Op identifies the kind of an instruction.
type Op uint8

const (
	// OpMatch marks the current thread as successful.
	OpMatch Op = iota

	// OpChar consumes one character equal to Ch (case-folded when Fold).
	OpChar

	// OpCharClass consumes one character inside (or, when Negated, outside)
	// Ranges.
	OpCharClass

	// OpAny consumes any character; \n only when DotNL.
	OpAny

	// OpEmptyBegin matches the beginning of the text, or after a new line
	// when Multiline. Consumes nothing.
	OpEmptyBegin

	// OpEmptyEnd matches the end of the text, or before a new line when
	// Multiline. Consumes nothing.
	OpEmptyEnd

	// OpWordBoundary matches a word boundary when Positive, its absence
	// otherwise. Consumes nothing.
	OpWordBoundary

	// OpSave records the current input position in capture slot Slot.
	OpSave

	// OpJump transfers control to X.
	OpJump

	// OpSplit forks: X is explored first, then Y. The order encodes
	// priority, and with it greediness.
	OpSplit

	// OpFail is never emitted. A thread that reaches it dies without
	// consuming input.
	OpFail
)

// String returns a human-readable representation of the opcode.
func (op Op) String() string {
	switch op {
	case OpMatch:
		return "Match"
	case OpChar:
		return "Char"
	case OpCharClass:
		return "CharClass"
	case OpAny:
		return "Any"
	case OpEmptyBegin:
		return "EmptyBegin"
	case OpEmptyEnd:
		return "EmptyEnd"
	case OpWordBoundary:
		return "WordBoundary"
	case OpSave:
		return "Save"
	case OpJump:
		return "Jump"
	case OpSplit:
		return "Split"
	case OpFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Inst is a single instruction. Which fields are meaningful depends on Op.
type Inst struct {
	Op Op

	// Ch and Fold describe OpChar. Fold also applies to OpCharClass.
	Ch   rune
	Fold bool

	// Ranges and Negated describe OpCharClass.
	Ranges  []syntax.ClassRange
	Negated bool

	// DotNL applies to OpAny.
	DotNL bool

	// Multiline applies to OpEmptyBegin and OpEmptyEnd.
	Multiline bool

	// Positive applies to OpWordBoundary.
	Positive bool

	// Slot is the capture slot of OpSave.
	Slot int

	// X and Y are the targets of OpJump (X only) and OpSplit.
	X, Y int
}

// String returns a human-readable representation of the instruction.
func (i Inst) String() string {
	switch i.Op {
	case OpChar:
		if i.Fold {
			return fmt.Sprintf("Char %q (fold)", i.Ch)
		}
		return fmt.Sprintf("Char %q", i.Ch)
	case OpCharClass:
		neg := ""
		if i.Negated {
			neg = " negated"
		}
		return fmt.Sprintf("CharClass %d ranges%s", len(i.Ranges), neg)
	case OpAny:
		if i.DotNL {
			return "Any (incl \\n)"
		}
		return "Any"
	case OpEmptyBegin:
		if i.Multiline {
			return "EmptyBegin (multiline)"
		}
		return "EmptyBegin"
	case OpEmptyEnd:
		if i.Multiline {
			return "EmptyEnd (multiline)"
		}
		return "EmptyEnd"
	case OpWordBoundary:
		if !i.Positive {
			return "WordBoundary (negated)"
		}
		return "WordBoundary"
	case OpSave:
		return fmt.Sprintf("Save %d", i.Slot)
	case OpJump:
		return fmt.Sprintf("Jump %d", i.X)
	case OpSplit:
		return fmt.Sprintf("Split %d, %d", i.X, i.Y)
	default:
		return i.Op.String()
	}
}
