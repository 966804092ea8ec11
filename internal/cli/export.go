package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records as CSV, PDF, XLSX or a JSON backup",
}

func init() {
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export every patient and session as CSV",
		Run:   runExportCSV,
	}
	pdfCmd := &cobra.Command{
		Use:   "pdf <patient-id>",
		Short: "Export one patient's clinical record as PDF",
		Args:  cobra.ExactArgs(1),
		Run:   runExportPDF,
	}
	xlsxCmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export every patient and session as an Excel workbook",
		Run:   runExportXLSX,
	}
	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Export a JSON backup (for import)",
		Run:   runExportJSON,
	}

	for _, c := range []*cobra.Command{csvCmd, pdfCmd, xlsxCmd, jsonCmd} {
		c.Flags().StringP("output", "o", "", "Output file, - for stdout")
		exportCmd.AddCommand(c)
	}
	RootCmd.AddCommand(exportCmd)
}

// writeOutput writes to the -o path, the default name, or stdout for "-".
func writeOutput(cmd *cobra.Command, defaultName string, write func(w io.Writer) error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = defaultName
	}
	if path == "-" || path == "" {
		if err := write(cmd.OutOrStdout()); err != nil {
			exitErr("export", err)
		}
		return
	}

	f, err := os.Create(path)
	if err != nil {
		exitErr("create output", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		exitErr("export", err)
	}
	if err := f.Close(); err != nil {
		exitErr("close output", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
}

func runExportCSV(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	r := a.Records()
	writeOutput(cmd, export.CSVFileName(time.Now()), func(w io.Writer) error {
		_, err := io.WriteString(w, export.RenderAllRecords(r.Patients, r.Sessions))
		return err
	})
}

func runExportPDF(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	if err := a.OpenPatient(args[0]); err != nil {
		exitErr("export pdf", err)
	}
	p, _ := a.Records().Patient(args[0])
	writeOutput(cmd, export.PDFFileName(p), func(w io.Writer) error {
		return a.ExportPDF(cmd.Context(), w)
	})
}

func runExportXLSX(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	r := a.Records()
	writeOutput(cmd, export.XLSXFileName(time.Now()), func(w io.Writer) error {
		return export.RenderWorkbook(w, r.Patients, r.Sessions)
	})
}

func runExportJSON(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	cols, err := openStore(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		exitErr("open store", err)
	}
	defer cols.Close()

	b := cols.ExportBackup(cmd.Context(), time.Now())
	writeOutput(cmd, "-", func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	})
}
