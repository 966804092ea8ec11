// Package export renders the clinical records as CSV, XLSX and PDF files.
package export

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/kinai/kinai/internal/model"
)

// UnknownPatient names the owner of a session whose patient is missing.
const UnknownPatient = "Desconocido"

var (
	PatientHeader = []string{
		"Nombre", "Documento", "Nacimiento", "Sexo", "Fecha Consulta", "Profesion",
		"Dominancia", "Telefono", "Derivacion", "Diagnostico", "Inspeccion Estatica",
		"Inspeccion Dinamica", "Palpacion", "Auscultacion", "Percusion", "Adjuntos",
	}
	SessionHeader = []string{
		"Paciente", "Fecha", "Hora", "Dolor EVA", "Objetivo", "Tratamiento", "Evolucion",
	}
)

func patientRow(p model.Patient) []string {
	attachments := lo.Map(p.Attachments, func(a model.Attachment, _ int) string {
		return a.Name + ": " + a.URL
	})
	return []string{
		p.FullName, p.DocumentID, p.BirthDate, p.Sex, p.ConsultationDate, p.Profession,
		string(p.Handedness), p.Phone, p.Referral, p.Diagnosis, p.StaticInspection,
		p.DynamicInspection, p.Palpation, p.Auscultation, p.Percussion,
		strings.Join(attachments, "; "),
	}
}

func sessionRows(patients []model.Patient, sessions []model.Session) [][]string {
	names := lo.SliceToMap(patients, func(p model.Patient) (string, string) {
		return p.ID, p.FullName
	})
	return lo.Map(sessions, func(s model.Session, _ int) []string {
		name, ok := names[s.PatientID]
		if !ok {
			name = UnknownPatient
		}
		return []string{
			name, s.Date, s.Time, strconv.Itoa(s.PainLevel), s.Objective, s.Treatment, s.Evolution,
		}
	})
}

var whitespace = regexp.MustCompile(`\s+`)

// CSVFileName names the full CSV export for the given day.
func CSVFileName(now time.Time) string {
	return "ClinicaFisiatrica_Export_" + now.Format("2006-01-02") + ".csv"
}

// XLSXFileName names the full workbook export for the given day.
func XLSXFileName(now time.Time) string {
	return "ClinicaFisiatrica_Export_" + now.Format("2006-01-02") + ".xlsx"
}

// PDFFileName names a patient's record file.
func PDFFileName(p model.Patient) string {
	return "Ficha_" + whitespace.ReplaceAllString(p.FullName, "_") + ".pdf"
}
