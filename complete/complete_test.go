package complete

import (
	"testing"

	"github.com/tgaillar/linenoise/ansi"
)

func TestSinkAddOrdersCaseInsensitively(t *testing.T) {
	var s Sink
	for _, c := range []string{"banana", "Apple", "cherry", "apricot"} {
		s.Add(c)
	}
	want := []string{"Apple", "apricot", "banana", "cherry"}
	if s.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(want))
	}
	for i, w := range want {
		if got := s.At(i); got != w {
			t.Fatalf("At(%d) = %q, want %q", i, got, w)
		}
	}
}

// Completion prefix law (spec §8): in list mode, after TAB with >=2
// candidates, the buffer's new content at [start..] is the longest common
// prefix of all candidates.
func TestListReturnsLongestCommonPrefix(t *testing.T) {
	e := NewEngine()
	e.Callback = func(line, word string, start, end int, sink *Sink) {
		sink.Add("hello")
		sink.Add("hello there")
		sink.Add("help")
	}

	outcome, grid := e.List("hel", "hel", 0, 3, 0, func() {}, 80)
	if outcome.Text != "hel" {
		t.Fatalf("Text = %q, want %q (the common prefix of hello/hello there/help)", outcome.Text, "hel")
	}
	if len(grid) == 0 {
		t.Fatal("expected a rendered grid for >=2 candidates")
	}
}

func TestListSingleCandidateAppendsCharAndIsFinal(t *testing.T) {
	e := NewEngine()
	e.Callback = func(line, word string, start, end int, sink *Sink) {
		sink.Add("hello")
	}

	outcome, grid := e.List("h", "h", 0, 1, 0, func() {}, 80)
	if outcome.Text != "hello " {
		t.Fatalf("Text = %q, want %q", outcome.Text, "hello ")
	}
	if !outcome.Changed {
		t.Fatal("Changed should be true")
	}
	if outcome.AdvanceExisting {
		t.Fatal("AdvanceExisting should be false when no append char follows")
	}
	if grid != nil {
		t.Fatalf("single-candidate completion should not render a grid, got %v", grid)
	}
}

// spec §4.4's "(or advance over it if already present)": when the append
// char already follows the replaced word in the live buffer,
// linenoise.c's completeLine does current->pos++ instead of inserting a
// duplicate (linenoise.c's insert_char/completion_append_char dance).
func TestListSingleCandidateAdvancesOverExistingAppendChar(t *testing.T) {
	e := NewEngine()
	e.Callback = func(line, word string, start, end int, sink *Sink) {
		sink.Add("hello")
	}

	// Buffer is "h world"; the space right after "h" already is AppendChar.
	outcome, grid := e.List("h world", "h", 0, 1, ' ', func() {}, 80)
	if outcome.Text != "hello" {
		t.Fatalf("Text = %q, want %q (no duplicate append char)", outcome.Text, "hello")
	}
	if !outcome.Changed {
		t.Fatal("Changed should be true")
	}
	if !outcome.AdvanceExisting {
		t.Fatal("AdvanceExisting should be true when the append char is already present")
	}
	if grid != nil {
		t.Fatalf("single-candidate completion should not render a grid, got %v", grid)
	}
}

func TestListNoCandidatesBells(t *testing.T) {
	e := NewEngine()
	rang := false
	e.Callback = func(line, word string, start, end int, sink *Sink) {}

	outcome, grid := e.List("zz", "zz", 0, 2, 0, func() { rang = true }, 80)
	if !rang {
		t.Fatal("expected bell on no candidates")
	}
	if outcome.Changed {
		t.Fatal("Changed should be false on no candidates")
	}
	if grid != nil {
		t.Fatalf("expected no grid, got %v", grid)
	}
}

func TestRotationCyclesThenWrapsWithBell(t *testing.T) {
	e := NewEngine()
	e.Callback = func(line, word string, start, end int, sink *Sink) {
		sink.Add("foo")
		sink.Add("bar")
	}

	var rendered []string
	render := func(candidate string) { rendered = append(rendered, candidate) }

	keys := []ansi.Key{ansi.TAB, ansi.TAB, ansi.CTRL_A}
	i := 0
	readKey := func() (ansi.Key, error) {
		k := keys[i]
		i++
		return k, nil
	}

	bells := 0
	outcome, err := e.Rotation("foo", "", 0, 0, render, func() { bells++ }, readKey)
	if err != nil {
		t.Fatalf("Rotation: %v", err)
	}
	if bells != 1 {
		t.Fatalf("bells = %d, want 1 (reaching the original-word slot rings the bell)", bells)
	}
	// "bar" (sorted first), then "foo" after the first TAB, then the
	// past-the-end virtual slot (the original, empty word) after the second.
	want := []string{"bar", "foo", ""}
	if len(rendered) != len(want) {
		t.Fatalf("rendered = %v, want %v", rendered, want)
	}
	for idx, w := range want {
		if rendered[idx] != w {
			t.Fatalf("rendered[%d] = %q, want %q", idx, rendered[idx], w)
		}
	}
	if outcome.Text != "" {
		t.Fatalf("Text = %q, want %q (past-the-end slot keeps the original word)", outcome.Text, "")
	}
	if outcome.Reinject == nil || *outcome.Reinject != ansi.CTRL_A {
		t.Fatalf("Reinject = %v, want CTRL_A", outcome.Reinject)
	}
}

func TestRotationEscapeRestoresOriginalWord(t *testing.T) {
	e := NewEngine()
	e.Callback = func(line, word string, start, end int, sink *Sink) {
		sink.Add("foo")
	}
	readKey := func() (ansi.Key, error) { return ansi.ESCAPE, nil }

	outcome, err := e.Rotation("wo", "wo", 0, 2, func(string) {}, func() {}, readKey)
	if err != nil {
		t.Fatalf("Rotation: %v", err)
	}
	if outcome.Text != "wo" {
		t.Fatalf("Text = %q, want original word %q", outcome.Text, "wo")
	}
}

func TestCommonPrefix(t *testing.T) {
	cases := []struct{ a, b, want string }{
		{"hello", "help", "hel"},
		{"hello", "hello", "hello"},
		{"abc", "xyz", ""},
		{"", "abc", ""},
	}
	for _, c := range cases {
		if got := commonPrefix(c.a, c.b); got != c.want {
			t.Fatalf("commonPrefix(%q, %q) = %q, want %q", c.a, c.b, got, c.want)
		}
	}
}
