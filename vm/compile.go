package vm

import (
	"github.com/coregx/rex/syntax"
)

// Compile parses and compiles a pattern into an executable Program.
//
// The whole tree is wrapped so the emitted program begins with Save 0 and
// ends with Save 1, Match: capture group 0 spans the entire match.
func Compile(pattern string) (*Program, error) {
	ast, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	c := &compiler{names: []string{""}}
	c.push(Inst{Op: OpSave, Slot: 0})
	c.compile(ast)
	c.push(Inst{Op: OpSave, Slot: 1})
	c.push(Inst{Op: OpMatch})

	prog := &Program{
		insts:   c.insts,
		names:   c.names,
		source:  pattern,
		numCaps: len(c.names),
		prefix:  literalPrefix(c.insts),
	}
	if len(prog.prefix) == 0 {
		prog.altPrefixes = alternatePrefixes(c.insts)
	}
	return prog, nil
}

type compiler struct {
	insts []Inst
	// names holds capture group names indexed by group number. It grows as
	// capture nodes are encountered; entry 0 (the whole match) stays "".
	names []string
}

// compile emits the instructions for one node, depth first.
func (c *compiler) compile(n syntax.Node) {
	switch n := n.(type) {
	case syntax.Empty:
		// Matches the empty string; no instructions.
	case syntax.Literal:
		c.push(Inst{Op: OpChar, Ch: n.Ch, Fold: n.Fold})
	case syntax.AnyChar:
		c.push(Inst{Op: OpAny, DotNL: n.DotNL})
	case syntax.Class:
		c.push(Inst{Op: OpCharClass, Ranges: n.Ranges, Negated: n.Negated, Fold: n.Fold})
	case syntax.Begin:
		c.push(Inst{Op: OpEmptyBegin, Multiline: n.Multiline})
	case syntax.End:
		c.push(Inst{Op: OpEmptyEnd, Multiline: n.Multiline})
	case syntax.WordBoundary:
		c.push(Inst{Op: OpWordBoundary, Positive: n.Positive})
	case syntax.Capture:
		c.setName(n.Index, n.Name)
		c.push(Inst{Op: OpSave, Slot: 2 * n.Index})
		c.compile(n.Sub)
		c.push(Inst{Op: OpSave, Slot: 2*n.Index + 1})
	case syntax.Concat:
		for _, sub := range n.Subs {
			c.compile(sub)
		}
	case syntax.Alternate:
		split := c.emptySplit()
		j1 := len(c.insts)
		c.compile(n.Left)
		jmp := c.emptyJump()
		j2 := len(c.insts)
		c.compile(n.Right)
		j3 := len(c.insts)
		c.setSplit(split, j1, j2)
		c.setJump(jmp, j3)
	case syntax.Repeat:
		c.compileRepeat(n)
	default:
		panic("vm: unknown syntax node")
	}
}

func (c *compiler) compileRepeat(n syntax.Repeat) {
	switch n.Kind {
	case syntax.ZeroOne:
		split := c.emptySplit()
		j1 := len(c.insts)
		c.compile(n.Sub)
		j2 := len(c.insts)
		if n.Greedy {
			c.setSplit(split, j1, j2)
		} else {
			c.setSplit(split, j2, j1)
		}
	case syntax.ZeroMore:
		j1 := len(c.insts)
		split := c.emptySplit()
		j2 := len(c.insts)
		c.compile(n.Sub)
		jmp := c.emptyJump()
		j3 := len(c.insts)
		c.setJump(jmp, j1)
		if n.Greedy {
			c.setSplit(split, j2, j3)
		} else {
			c.setSplit(split, j3, j2)
		}
	case syntax.OneMore:
		j1 := len(c.insts)
		c.compile(n.Sub)
		split := c.emptySplit()
		j2 := len(c.insts)
		if n.Greedy {
			c.setSplit(split, j1, j2)
		} else {
			c.setSplit(split, j2, j1)
		}
	default:
		panic("vm: unknown repeat kind")
	}
}

func (c *compiler) push(inst Inst) {
	c.insts = append(c.insts, inst)
}

func (c *compiler) setName(group int, name string) {
	for len(c.names) <= group {
		c.names = append(c.names, "")
	}
	c.names[group] = name
}

// emptySplit emits a Split with placeholder targets and returns its pc.
func (c *compiler) emptySplit() int {
	c.push(Inst{Op: OpSplit})
	return len(c.insts) - 1
}

// setSplit patches a placeholder Split. Patching any other instruction is
// an internal invariant violation.
func (c *compiler) setSplit(pc, x, y int) {
	if c.insts[pc].Op != OpSplit {
		panic("vm: patch target is not a Split instruction")
	}
	c.insts[pc].X = x
	c.insts[pc].Y = y
}

// emptyJump emits a Jump with a placeholder target and returns its pc.
func (c *compiler) emptyJump() int {
	c.push(Inst{Op: OpJump})
	return len(c.insts) - 1
}

func (c *compiler) setJump(pc, x int) {
	if c.insts[pc].Op != OpJump {
		panic("vm: patch target is not a Jump instruction")
	}
	c.insts[pc].X = x
}

// literalPrefix collects the leading run of case-sensitive Char
// instructions, skipping the initial Save 0. Every match must begin with
// these characters, so the search layer can use them as a cheap pre-filter.
func literalPrefix(insts []Inst) []rune {
	var pre []rune
	for _, inst := range insts[1:] {
		if inst.Op != OpChar || inst.Fold {
			break
		}
		pre = append(pre, inst.Ch)
	}
	return pre
}

// maxAltPrefixes caps how many alternative literal prefixes are collected
// for the multi-literal pre-filter.
const maxAltPrefixes = 32

// alternatePrefixes derives a set of literal strings such that every match
// begins with one of them, by walking the epsilon transitions from the
// program start. The walk succeeds only when every path reaches a
// case-sensitive Char before consuming input or matching; a reachable
// assertion, class, Any or Match aborts the extraction.
func alternatePrefixes(insts []Inst) [][]rune {
	visited := make([]bool, len(insts))
	var starts []int
	var walk func(pc int) bool
	walk = func(pc int) bool {
		if visited[pc] {
			return true
		}
		visited[pc] = true
		switch insts[pc].Op {
		case OpSave:
			return walk(pc + 1)
		case OpJump:
			return walk(insts[pc].X)
		case OpSplit:
			return walk(insts[pc].X) && walk(insts[pc].Y)
		case OpChar:
			if insts[pc].Fold {
				return false
			}
			starts = append(starts, pc)
			return true
		default:
			return false
		}
	}
	if !walk(0) || len(starts) < 2 || len(starts) > maxAltPrefixes {
		return nil
	}
	lits := make([][]rune, 0, len(starts))
	for _, start := range starts {
		var lit []rune
		for pc := start; pc < len(insts) && insts[pc].Op == OpChar && !insts[pc].Fold; pc++ {
			lit = append(lit, insts[pc].Ch)
		}
		lits = append(lits, lit)
	}
	return lits
}
