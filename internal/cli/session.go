package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kinai/kinai/internal/app"
	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/model"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record and correct treatment sessions",
}

func init() {
	add := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Record a session for a patient",
		Long:  "Record a session. Date and time default to now and the pain level to 5.",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionAdd,
	}
	sessionFlags(add.Flags())

	edit := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Correct a recorded session",
		Long:  "Correct a session. Only the flags given change; everything else keeps its stored value.",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionEdit,
	}
	sessionFlags(edit.Flags())

	sessionCmd.AddCommand(add, edit)
	RootCmd.AddCommand(sessionCmd)
}

func sessionFlags(f *pflag.FlagSet) {
	f.String("date", "", "Date (YYYY-MM-DD)")
	f.String("time", "", "Time (HH:MM)")
	f.String("objective", "", "Session objective")
	f.String("treatment", "", "Treatment applied")
	f.String("evolution", "", "Evolution")
	f.String("observations", "", "Observations")
	f.StringP("pain", "p", "", "Pain level on the 0-10 scale")
	f.String("pain-map-url", "", "Link to a pain map image")
	f.String("pain-map-image", "", "Inline pain map image (data URL)")
}

// applySessionFlags overrides the draft fields whose flags were given.
func applySessionFlags(f *pflag.FlagSet, d clinic.SessionForm) clinic.SessionForm {
	set := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	set("date", &d.Date)
	set("time", &d.Time)
	set("objective", &d.Objective)
	set("treatment", &d.Treatment)
	set("evolution", &d.Evolution)
	set("observations", &d.Observations)
	set("pain-map-url", &d.PainMapURL)
	set("pain-map-image", &d.PainMapImage)
	if f.Changed("pain") {
		raw, _ := f.GetString("pain")
		d.PainLevel = model.ParsePainLevel(raw)
	}
	return d
}

func runSessionAdd(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	if err := a.OpenPatient(args[0]); err != nil {
		exitErr("session add", err)
	}
	saveSession(cmd, a, "session add")
}

func runSessionEdit(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	s, ok := a.Records().Session(args[0])
	if !ok {
		exitErr("session edit", fmt.Errorf("%w: %s", app.ErrSessionNotFound, args[0]))
	}
	if err := a.OpenPatient(s.PatientID); err != nil {
		exitErr("session edit", err)
	}
	if err := a.EditSession(s.ID); err != nil {
		exitErr("session edit", err)
	}
	saveSession(cmd, a, "session edit")
}

func saveSession(cmd *cobra.Command, a *app.App, op string) {
	draft := applySessionFlags(cmd.Flags(), a.State().Editor.Draft)
	if err := a.SetSessionDraft(draft); err != nil {
		exitErr(op, err)
	}

	s, ok, err := a.SaveSession(cmd.Context())
	if err != nil {
		exitErr(op, err)
	}
	if !ok {
		exitErr(op, app.ErrSessionNotFound)
	}

	emit(cmd, s, func(w io.Writer) {
		fmt.Fprintf(w, "saved session %s for %s (%s %s, EVA %d/10)\n", s.ID, s.PatientID, s.Date, s.Time, s.PainLevel)
	})
}
