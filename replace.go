package rex

import (
	"strconv"
	"strings"
)

// Replacer produces the replacement text for one match.
//
// Three implementations cover the common cases: Template expands $N and
// $name references against the match's captures, Literal inserts a fixed
// string, and ReplacerFunc computes the replacement from the captures.
type Replacer interface {
	Replace(caps *Captures) string
}

// Template is a replacement string in which $N, $name, ${name} and $$ are
// expanded per Expand.
type Template string

// Replace implements Replacer.
func (t Template) Replace(caps *Captures) string {
	return Expand(caps, string(t))
}

// Literal is a replacement string used verbatim, without expansion.
type Literal string

// Replace implements Replacer.
func (l Literal) Replace(*Captures) string {
	return string(l)
}

// ReplacerFunc adapts a function to the Replacer interface.
type ReplacerFunc func(caps *Captures) string

// Replace implements Replacer.
func (f ReplacerFunc) Replace(caps *Captures) string {
	return f(caps)
}

// Replace replaces the leftmost match in text with the replacement
// provided. If there is no match, text is returned unchanged.
func (re *Regex) Replace(text string, rep Replacer) string {
	return re.ReplaceN(text, 1, rep)
}

// ReplaceAll replaces all non-overlapping matches in text with the
// replacement provided.
func (re *Regex) ReplaceAll(text string, rep Replacer) string {
	return re.ReplaceN(text, 0, rep)
}

// ReplaceN replaces at most limit non-overlapping matches in text with the
// replacement provided. A limit of 0 replaces all matches.
func (re *Regex) ReplaceN(text string, limit int, rep Replacer) string {
	s := newSearchText(text)
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, locs := range re.iterate(s, true, limit) {
		caps := &Captures{text: text, locs: s.toByteLocs(locs), names: re.names}
		pos := caps.Pos(0)
		b.WriteString(text[last:pos[0]])
		b.WriteString(rep.Replace(caps))
		last = pos[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Expand expands all $ references in template against the captures:
//
//	$N      the text of capture group N (an unsigned integer)
//	$name   the text of the named capture group
//	${name} the braced forms of the above
//	$$      a literal $
//
// A reference that names no capture group expands to the empty string; a $
// followed by neither a reference nor another $ is kept as-is. Templates
// are scanned directly; malformed input is tolerated, never an error.
func Expand(caps *Captures, template string) string {
	if !strings.ContainsRune(template, '$') {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); {
		if template[i] != '$' {
			b.WriteByte(template[i])
			i++
			continue
		}
		if i+1 >= len(template) {
			b.WriteByte('$')
			break
		}
		switch c := template[i+1]; {
		case c == '$':
			b.WriteByte('$')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte('$')
				i++
				continue
			}
			b.WriteString(resolveRef(caps, template[i+2:i+2+end]))
			i += 2 + end + 1
		default:
			j := i + 1
			for j < len(template) && isRefByte(template[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte('$')
				i++
				continue
			}
			b.WriteString(resolveRef(caps, template[i+1:j]))
			i = j
		}
	}
	return b.String()
}

// resolveRef resolves one $ reference: a decimal number selects a group by
// index, anything else by name. Unknown references resolve to "".
func resolveRef(caps *Captures, name string) string {
	if name == "" {
		return ""
	}
	if n, err := strconv.Atoi(name); err == nil {
		return caps.At(n)
	}
	return caps.Name(name)
}

func isRefByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
