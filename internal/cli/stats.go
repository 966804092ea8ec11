package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	cols, err := openStore(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		exitErr("open store", err)
	}
	defer cols.Close()

	stats, err := cols.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	emit(cmd, stats, func(w io.Writer) {
		fmt.Fprintf(w, "backend:     %s (%s)\n", stats.Backend, stats.Location)
		if stats.SizeBytes > 0 {
			fmt.Fprintf(w, "size:        %d bytes\n", stats.SizeBytes)
		}
		fmt.Fprintf(w, "patients:    %d (%d bytes)\n", stats.Patients, stats.PatientsBytes)
		fmt.Fprintf(w, "sessions:    %d (%d bytes)\n", stats.Sessions, stats.SessionsBytes)
		fmt.Fprintf(w, "attachments: %d\n", stats.Attachments)
	})
}
