package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/app"
)

type suggestResult struct {
	Form   string   `json:"form"`
	Field  string   `json:"field"`
	Terms  []string `json:"terms"`
	Result string   `json:"result,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "suggest <text...>",
		Short: "Suggest clinical terminology for a finding",
		Long: "Suggest technical terms for free text as it would be typed into a form field.\n" +
			"With --apply N the N-th term is appended to the text the way the form does it.",
		Args: cobra.MinimumNArgs(1),
		Run:  runSuggest,
	}

	cmd.Flags().String("form", "patient", "Form: patient or session")
	cmd.Flags().String("field", "", "Field name (default: diagnosis or objective)")
	cmd.Flags().String("patient", "", "Patient ID (required for the session form)")
	cmd.Flags().Int("apply", 0, "Apply the N-th suggested term (1-based)")

	RootCmd.AddCommand(cmd)
}

func runSuggest(cmd *cobra.Command, args []string) {
	formName, _ := cmd.Flags().GetString("form")
	field, _ := cmd.Flags().GetString("field")
	patientID, _ := cmd.Flags().GetString("patient")
	apply, _ := cmd.Flags().GetInt("apply")

	form, err := app.ParseForm(formName)
	if err != nil {
		exitErr("suggest", err)
	}
	if field == "" {
		field = app.SuggestFields(form)[0]
	}
	text := strings.Join(args, " ")

	a, cols := openApp(cmd)
	defer cols.Close()

	switch form {
	case app.FormSession:
		if patientID == "" {
			exitErr("suggest", fmt.Errorf("--patient is required for the session form"))
		}
		if err := a.OpenPatient(patientID); err != nil {
			exitErr("suggest", err)
		}
	default:
		a.StartRegistration()
	}
	if err := a.SetField(form, field, text); err != nil {
		exitErr("suggest", err)
	}

	done, err := a.RequestSuggestions(cmd.Context(), form, field)
	if err != nil {
		exitErr("suggest", err)
	}
	if done == nil {
		exitErr("suggest", fmt.Errorf("nothing to look up"))
	}
	<-done

	res := suggestResult{Form: form.String(), Field: field, Terms: a.State().Suggestion(form).Terms}
	if apply > 0 {
		if apply > len(res.Terms) {
			exitErr("suggest", fmt.Errorf("--apply %d: only %d terms suggested", apply, len(res.Terms)))
		}
		if err := a.ApplyTerm(form, res.Terms[apply-1]); err != nil {
			exitErr("suggest", err)
		}
		res.Result, _ = a.Field(form, field)
	} else {
		a.DismissSuggestions(form)
	}

	emit(cmd, res, func(w io.Writer) {
		if len(res.Terms) == 0 {
			fmt.Fprintln(w, "no suggestions")
		}
		for i, t := range res.Terms {
			fmt.Fprintf(w, "%d. %s\n", i+1, t)
		}
		if res.Result != "" {
			fmt.Fprintf(w, "\n%s\n", res.Result)
		}
	})
}
