package assistant

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kinai/kinai/internal/model"
)

type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "Radiculopatía, Ciatalgia, Parestesias", []string{"Radiculopatía", "Ciatalgia", "Parestesias"}},
		{"label and backticks", "```Salida: Edema postraumático, Derrame articular.```", []string{"Edema postraumático", "Derrame articular"}},
		{"blank entries", " , a,, b , ", []string{"a", "b"}},
		{"capped", "1,2,3,4,5,6,7,8", []string{"1", "2", "3", "4", "5", "6"}},
		{"newlines", "uno\ndos, tres", []string{"uno", "dos", "tres"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTerms(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTerms(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarizeProgress(t *testing.T) {
	gen := &fakeGenerator{out: "  Buena evolución.  "}
	a := New(gen, zerolog.Nop())

	p := model.Patient{ID: "p", FullName: "Ana Gómez", Diagnosis: "Lumbalgia"}
	sessions := []model.Session{
		{Date: "2024-02-15", PainLevel: 3, Objective: "fuerza"},
		{Date: "2024-01-10", PainLevel: 7, Objective: "analgesia"},
	}

	got := a.SummarizeProgress(context.Background(), p, sessions)
	if got != "Buena evolución." {
		t.Errorf("unexpected summary %q", got)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Ana Gómez") || !strings.Contains(prompt, "Lumbalgia") {
		t.Error("prompt is missing patient data")
	}
	if strings.Index(prompt, "2024-01-10") > strings.Index(prompt, "2024-02-15") {
		t.Error("expected sessions oldest first in prompt")
	}
	if sessions[0].Date != "2024-02-15" {
		t.Error("caller's slice was reordered")
	}
}

func TestSummarizeProgressFallbacks(t *testing.T) {
	ctx := context.Background()
	p := model.Patient{ID: "p"}

	failing := New(&fakeGenerator{err: errors.New("network down")}, zerolog.Nop())
	if got := failing.SummarizeProgress(ctx, p, nil); got != FallbackSummary {
		t.Errorf("expected fallback, got %q", got)
	}

	empty := New(&fakeGenerator{out: "  "}, zerolog.Nop())
	if got := empty.SummarizeProgress(ctx, p, nil); got != EmptySummary {
		t.Errorf("expected empty-answer text, got %q", got)
	}

	unconfigured := New(nil, zerolog.Nop())
	if got := unconfigured.SummarizeProgress(ctx, p, nil); got != FallbackSummary {
		t.Errorf("expected fallback when unconfigured, got %q", got)
	}
}

func TestSuggestTerminology(t *testing.T) {
	gen := &fakeGenerator{out: "Gonalgia mecánica, Estrés patelofemoral"}
	a := New(gen, zerolog.Nop())

	got := a.SuggestTerminology(context.Background(), "le duele la rodilla")
	if !reflect.DeepEqual(got, []string{"Gonalgia mecánica", "Estrés patelofemoral"}) {
		t.Errorf("unexpected terms %v", got)
	}
	if !strings.Contains(gen.prompts[0], "le duele la rodilla") {
		t.Error("prompt is missing the input text")
	}
}

func TestSuggestTerminologyBlankSkipsCall(t *testing.T) {
	gen := &fakeGenerator{out: "x"}
	if got := New(gen, zerolog.Nop()).SuggestTerminology(context.Background(), "   "); got != nil {
		t.Errorf("expected no terms, got %v", got)
	}
	if len(gen.prompts) != 0 {
		t.Error("generator called for blank input")
	}
}

func TestSuggestTerminologyFailure(t *testing.T) {
	a := New(&fakeGenerator{err: errors.New("quota exceeded")}, zerolog.Nop())
	if got := a.SuggestTerminology(context.Background(), "hormigueo"); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func samplePatient() model.Patient {
	return model.Patient{ID: "p1", FullName: "Ana Gómez"}
}
