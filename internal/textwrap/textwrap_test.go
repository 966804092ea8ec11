package textwrap

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap_EmptyInput(t *testing.T) {
	if got := Wrap("   \n ", 20); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestWrap_ShortText(t *testing.T) {
	got := Wrap("Dolor lumbar mecánico.", 40)
	want := []string{"Dolor lumbar mecánico."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWrap_RespectsWidth(t *testing.T) {
	text := strings.Repeat("Gonalgia mecánica con déficit de fuerza en cuádriceps. ", 8)
	lines := Wrap(text, 30)
	if len(lines) < 2 {
		t.Fatalf("expected several lines, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n > 30 {
			t.Errorf("line %d has %d runes: %q", i, n, l)
		}
	}
	if strings.Join(lines, " ") != strings.TrimSpace(text) {
		t.Error("wrapping lost or reordered words")
	}
}

func TestWrap_Paragraphs(t *testing.T) {
	got := Wrap("uno dos\n\n\ntres\ncuatro", 20)
	want := []string{"uno dos", "", "tres", "cuatro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWrap_LongWord(t *testing.T) {
	got := Wrap("ver https://example.com/imagenes/rx-rodilla.png", 12)
	for _, l := range got {
		if utf8.RuneCountInString(l) > 12 {
			t.Errorf("line too long: %q", l)
		}
	}
	if got[0] != "ver" {
		t.Errorf("expected first line 'ver', got %q", got[0])
	}
}

func TestWrap_DefaultWidth(t *testing.T) {
	lines := Wrap(strings.Repeat("a ", 100), 0)
	for _, l := range lines {
		if utf8.RuneCountInString(l) > DefaultWidth {
			t.Errorf("line exceeds default width: %d", utf8.RuneCountInString(l))
		}
	}
}

func TestFill_Indent(t *testing.T) {
	got := Fill("uno dos tres\n\ncuatro", 10, "  ")
	want := "  uno dos\n  tres\n\n  cuatro"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
