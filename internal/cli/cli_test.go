package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/kinai/kinai/internal/clinic"
)

type row struct {
	ID       string `json:"id"`
	Document string `json:"documentId"`
	Pain     int    `json:"painLevel"`
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, "json", row{ID: "p1", Document: "0123", Pain: 7}, nil); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"id\": \"p1\",\n  \"documentId\": \"0123\",\n  \"painLevel\": 7\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	rows := []row{{ID: "p1", Document: "12345678", Pain: 7}}
	if err := render(&buf, "yaml", rows, nil); err != nil {
		t.Fatal(err)
	}
	want := "- id: p1\n  documentId: \"12345678\"\n  painLevel: 7\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	err := render(&buf, "text", row{ID: "p1"}, func(w io.Writer) { fmt.Fprintln(w, "hola") })
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hola\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if err := render(io.Discard, "xml", row{}, nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestApplySessionFlags(t *testing.T) {
	fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	sessionFlags(fs)
	if err := fs.Parse([]string{"--evolution", "Mejora", "--pain", "12", "--objective", ""}); err != nil {
		t.Fatal(err)
	}

	draft := clinic.SessionForm{
		Date:      "2024-01-10",
		Time:      "09:00",
		Objective: "Movilidad",
		Treatment: "TENS",
		Evolution: "Inicio",
		PainLevel: 7,
	}
	got := applySessionFlags(fs, draft)

	want := draft
	want.Evolution = "Mejora"
	want.Objective = ""
	want.PainLevel = 10
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplySessionFlagsUntouched(t *testing.T) {
	fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	sessionFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	draft := clinic.SessionForm{Date: "2024-01-10", PainLevel: 3}
	if got := applySessionFlags(fs, draft); got != draft {
		t.Errorf("got %+v, want %+v", got, draft)
	}
}

func TestOrDash(t *testing.T) {
	if orDash("  ") != "-" || orDash("x") != "x" {
		t.Error("orDash")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"patient add", "patient list", "patient show", "session add", "session edit",
		"summary", "suggest", "export csv", "export pdf", "export xlsx", "export json", "import", "stats"}
	for _, path := range want {
		cmd, _, err := RootCmd.Find(strings.Fields(path))
		if err != nil || cmd == RootCmd {
			t.Errorf("command %q not registered", path)
		}
	}
}
