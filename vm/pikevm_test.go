package vm

import (
	"reflect"
	"testing"
)

// run compiles the pattern and executes it over text, returning the match
// boundaries as character indices, or (-1, -1) when there is no match.
func run(t *testing.T, pattern, text string) (int, int) {
	t.Helper()
	prog := mustCompile(t, pattern)
	locs := NewPikeVM(prog).Run([]rune(text), false)
	if locs == nil {
		return -1, -1
	}
	return locs[0], locs[1]
}

func TestRunBasic(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		s, e    int
	}{
		{`a`, "a", 0, 1},
		{`a`, "ba", 1, 2},
		{`a`, "b", -1, -1},
		{`abc`, "xabcy", 1, 4},
		{`a+`, "aaa", 0, 3},
		{`a+?`, "aaa", 0, 1},
		{`a*`, "aaa", 0, 3},
		{`a*`, "bbb", 0, 0},
		{`a?`, "a", 0, 1},
		{``, "abc", 0, 0},
		{``, "", 0, 0},
		{`.`, "\na", 1, 2},
		{`(?s).`, "\na", 0, 1},
		// The left alternative wins under priority.
		{`a|ab`, "ab", 0, 1},
		{`ab|a`, "ab", 0, 2},
		// Greedy repeats take as much as the rest of the pattern allows.
		{`a*b`, "aab", 0, 3},
		{`<([^>]+)>`, "<strong>x</strong>", 0, 8},
	}

	for _, tt := range tests {
		s, e := run(t, tt.pattern, tt.text)
		if s != tt.s || e != tt.e {
			t.Errorf("Run(%q, %q) = (%d, %d), want (%d, %d)",
				tt.pattern, tt.text, s, e, tt.s, tt.e)
		}
	}
}

func TestRunAnchors(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		s, e    int
	}{
		{`^a`, "ab", 0, 1},
		{`^b`, "ab", -1, -1},
		{`a$`, "ba", 1, 2},
		{`b$`, "ba", -1, -1},
		{`^$`, "", 0, 0},
		{`^$`, "a", -1, -1},
		{`^ab$`, "ab", 0, 2},
		{`\Aab\z`, "ab", 0, 2},
		{`(?m)^b`, "a\nb", 2, 3},
		{`(?m)a$`, "a\nb", 0, 1},
		// Without m, $ only matches at the very end.
		{`a$`, "a\nb", -1, -1},
	}

	for _, tt := range tests {
		s, e := run(t, tt.pattern, tt.text)
		if s != tt.s || e != tt.e {
			t.Errorf("Run(%q, %q) = (%d, %d), want (%d, %d)",
				tt.pattern, tt.text, s, e, tt.s, tt.e)
		}
	}
}

func TestRunWordBoundary(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		s, e    int
	}{
		{`\bfoo\b`, "foo", 0, 3},
		{`\bfoo\b`, "foobar", -1, -1},
		{`\bfoo\b`, "a foo b", 2, 5},
		{`\Boo\B`, "foobar", 1, 3},
		{`\Bfoo`, "foo", -1, -1},
		// Underscore is a word character.
		{`\bfoo\b`, "_foo", -1, -1},
	}

	for _, tt := range tests {
		s, e := run(t, tt.pattern, tt.text)
		if s != tt.s || e != tt.e {
			t.Errorf("Run(%q, %q) = (%d, %d), want (%d, %d)",
				tt.pattern, tt.text, s, e, tt.s, tt.e)
		}
	}
}

func TestRunClasses(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		s, e    int
	}{
		{`[a-c]+`, "abcd", 0, 3},
		{`[^a]+`, "aabba", 2, 4},
		{`\d+`, "abc123def", 3, 6},
		{`\D+`, "123abc", 3, 6},
		{`\w+`, "!hi_there!", 1, 9},
		{`\s+`, "a \t b", 1, 4},
		{`[[:upper:]]+`, "aBCd", 1, 3},
		{`\pN+`, "abⅡⅢcd", 2, 4},
	}

	for _, tt := range tests {
		s, e := run(t, tt.pattern, tt.text)
		if s != tt.s || e != tt.e {
			t.Errorf("Run(%q, %q) = (%d, %d), want (%d, %d)",
				tt.pattern, tt.text, s, e, tt.s, tt.e)
		}
	}
}

func TestRunCaseFolding(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		s, e    int
	}{
		{`(?i)abc`, "aBc", 0, 3},
		{`(?i)ABC`, "abc", 0, 3},
		{`abc`, "aBc", -1, -1},
		{`(?i)[a-c]+`, "AbC", 0, 3},
		{`(?i)σ`, "Σ", 0, 1},
	}

	for _, tt := range tests {
		s, e := run(t, tt.pattern, tt.text)
		if s != tt.s || e != tt.e {
			t.Errorf("Run(%q, %q) = (%d, %d), want (%d, %d)",
				tt.pattern, tt.text, s, e, tt.s, tt.e)
		}
	}
}

func TestRunCaptures(t *testing.T) {
	prog := mustCompile(t, `(a+)(b+)`)
	locs := NewPikeVM(prog).Run([]rune("xaabby"), true)
	want := []int{1, 5, 1, 3, 3, 5}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("Run captures = %v, want %v", locs, want)
	}
}

func TestRunCapturesUnmatchedGroup(t *testing.T) {
	prog := mustCompile(t, `(a)|(b)`)
	locs := NewPikeVM(prog).Run([]rune("b"), true)
	want := []int{0, 1, -1, -1, 0, 1}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("Run captures = %v, want %v", locs, want)
	}
}

func TestRunCapturesRepeated(t *testing.T) {
	// The group records its last iteration.
	prog := mustCompile(t, `(a.)+`)
	locs := NewPikeVM(prog).Run([]rune("axayaz"), true)
	want := []int{0, 6, 4, 6}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("Run captures = %v, want %v", locs, want)
	}
}

func TestRunWithoutCaptures(t *testing.T) {
	// With wantCaps off only the match boundary is tracked.
	prog := mustCompile(t, `(a+)(b+)`)
	locs := NewPikeVM(prog).Run([]rune("aabb"), false)
	want := []int{0, 4}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("Run = %v, want %v", locs, want)
	}
}

func TestRunPrefixSkip(t *testing.T) {
	// The literal prefix lets the simulation skip ahead without changing
	// the result.
	prog := mustCompile(t, `needle\d`)
	if got := string(prog.Prefix()); got != "needle" {
		t.Fatalf("Prefix = %q, want %q", got, "needle")
	}
	locs := NewPikeVM(prog).Run([]rune("a needless needle7 x"), false)
	want := []int{11, 18}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("Run = %v, want %v", locs, want)
	}
}

func TestRunNoExponentialBlowup(t *testing.T) {
	// The classic pathological case for backtrackers: (a+)+ against a long
	// run of 'a' with a trailing 'b'. Thread dedup keeps this linear.
	text := make([]rune, 0, 41)
	for i := 0; i < 40; i++ {
		text = append(text, 'a')
	}
	text = append(text, 'b')
	prog := mustCompile(t, `(a+)+$`)
	if locs := NewPikeVM(prog).Run(text, false); locs != nil {
		t.Errorf("Run = %v, want no match", locs)
	}
}

func TestRunLongestAtLeftmost(t *testing.T) {
	// Greedy repeats extend the match after the first Match fires.
	s, e := run(t, `a+`, "baaa")
	if s != 1 || e != 4 {
		t.Errorf("Run = (%d, %d), want (1, 4)", s, e)
	}
}
