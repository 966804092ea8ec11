package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import records from a JSON backup",
		Long:  "Import patients and sessions from a backup produced by 'export json' (file or stdin). Records whose IDs already exist are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read backup", err)
	}

	var b store.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		exitErr("parse json", err)
	}

	cfg := loadConfig()
	log := newLogger(cfg)
	cols, err := openStore(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("open store", err)
	}
	defer cols.Close()

	res, err := cols.ImportBackup(cmd.Context(), b)
	if err != nil {
		exitErr("import", err)
	}
	log.Info().Int("patients", res.Patients).Int("sessions", res.Sessions).Int("skipped", res.Skipped).Msg("backup imported")

	emit(cmd, res, func(w io.Writer) {
		fmt.Fprintf(w, "imported %d patients and %d sessions, skipped %d\n", res.Patients, res.Sessions, res.Skipped)
	})
}
