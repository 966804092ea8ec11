package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/textwrap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary <patient-id>",
		Short: "Ask the assistant for a progress summary",
		Long:  "Summarize a patient's evolution across sessions. Needs GEMINI_API_KEY; without it a fixed notice is printed.",
		Args:  cobra.ExactArgs(1),
		Run:   runSummary,
	}

	RootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	if err := a.OpenPatient(args[0]); err != nil {
		exitErr("summary", err)
	}
	done := a.RequestSummary(cmd.Context())
	if done == nil {
		exitErr("summary", fmt.Errorf("patient %s has no sessions", args[0]))
	}
	<-done

	report := a.State().Report
	emit(cmd, report, func(w io.Writer) {
		fmt.Fprintln(w, textwrap.Fill(report.Text, textWidth, ""))
	})
}
