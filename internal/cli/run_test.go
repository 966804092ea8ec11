package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/kinai/kinai/internal/app"
	"github.com/kinai/kinai/internal/model"
)

// run executes the root command against db and decodes its JSON output into v.
func run(t *testing.T, db string, v any, args ...string) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--db", db, "--format", "json"}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	if err := json.Unmarshal(out.Bytes(), v); err != nil {
		t.Fatalf("%v: decode %q: %v", args, out.String(), err)
	}
}

func TestPatientAndSessionCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("KINAI_BACKEND", "sqlite")
	t.Setenv("KINAI_LOG_LEVEL", "error")
	t.Setenv("GEMINI_API_KEY", "")
	db := filepath.Join(home, "kinai.db")

	var p model.Patient
	run(t, db, &p, "patient", "add",
		"--name", "Ana Gómez",
		"--document", "12345678",
		"--diagnosis", "Lumbalgia mecánica",
		"--static", "Hiperlordosis",
		"-a", "Rx=https://example.com/rx.png")
	if p.ID == "" {
		t.Fatal("patient ID not assigned")
	}
	if p.Diagnosis != "Lumbalgia mecánica" || p.StaticInspection != "Hiperlordosis" {
		t.Errorf("form fields lost across wizard steps: %+v", p)
	}
	if len(p.Attachments) != 1 || p.Attachments[0].Name != "Rx" || p.Attachments[0].URL != "https://example.com/rx.png" {
		t.Errorf("attachments = %+v", p.Attachments)
	}

	var s model.Session
	run(t, db, &s, "session", "add", p.ID, "--objective", "Movilidad lumbar", "--pain", "7")
	if s.PatientID != p.ID || s.Objective != "Movilidad lumbar" || s.PainLevel != 7 {
		t.Errorf("session = %+v", s)
	}
	if s.Date == "" || s.Time == "" {
		t.Errorf("session date/time not defaulted: %+v", s)
	}

	var edited model.Session
	run(t, db, &edited, "session", "edit", s.ID, "--evolution", "Mejora")
	if edited.ID != s.ID || edited.Evolution != "Mejora" {
		t.Errorf("edited = %+v", edited)
	}
	if edited.Objective != s.Objective || edited.PainLevel != 7 || edited.Date != s.Date {
		t.Errorf("edit changed untouched fields: %+v", edited)
	}

	var d app.Detail
	run(t, db, &d, "patient", "show", p.ID)
	if d.Patient.ID != p.ID || d.Stats.SessionCount != 1 {
		t.Fatalf("detail = %+v", d)
	}
	if len(d.Sessions) != 1 || d.Sessions[0].Evolution != "Mejora" || d.Sessions[0].Objective != "Movilidad lumbar" {
		t.Errorf("stored sessions = %+v", d.Sessions)
	}
}
