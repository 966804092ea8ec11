package export

import (
	"strings"

	"github.com/kinai/kinai/internal/model"
)

// RenderAllRecords renders every patient and session as CSV: a PACIENTES
// section and a SESIONES section, each with a header row. Every field is
// quoted and embedded quotes are doubled.
func RenderAllRecords(patients []model.Patient, sessions []model.Session) string {
	var b strings.Builder

	b.WriteString("PACIENTES\n")
	b.WriteString(strings.Join(PatientHeader, ",") + "\n")
	for _, p := range patients {
		writeRow(&b, patientRow(p))
	}

	b.WriteString("\nSESIONES\n")
	b.WriteString(strings.Join(SessionHeader, ",") + "\n")
	for _, row := range sessionRows(patients, sessions) {
		writeRow(&b, row)
	}

	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(f))
	}
	b.WriteByte('\n')
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
