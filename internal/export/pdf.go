package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/model"
)

// Page geometry in millimetres.
const (
	pdfMargin       = 20.0
	pdfTop          = 20.0
	pdfRule         = 190.0
	pdfWrapWidth    = 160.0
	pdfSectionBreak = 270.0
	pdfSessionBreak = 250.0
	pdfLineBottom   = 285.0
)

// NotRecorded replaces empty free-text fields in the printed record.
const NotRecorded = "No registrado"

type pdfWriter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *pdfWriter) newPage() {
	w.doc.AddPage()
	w.y = pdfTop
}

func (w *pdfWriter) breakIfPast(limit float64) {
	if w.y > limit {
		w.newPage()
	}
}

func (w *pdfWriter) font(style string, size float64, r, g, b int) {
	w.doc.SetFont("Helvetica", style, size)
	w.doc.SetTextColor(r, g, b)
}

func (w *pdfWriter) text(x float64, s string) {
	w.doc.Text(x, w.y, w.tr(s))
}

// wrapped prints s wrapped to the column width and returns the line count.
func (w *pdfWriter) wrapped(x float64, s string, lineHeight float64) int {
	// SplitText measures runes against a 256-entry width table.
	lines := w.doc.SplitText(latin1(s), pdfWrapWidth)
	for _, l := range lines {
		if w.y > pdfLineBottom {
			w.newPage()
		}
		w.doc.Text(x, w.y, w.tr(l))
		w.y += lineHeight
	}
	return len(lines)
}

func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}

func (w *pdfWriter) rule(gray int) {
	w.doc.SetDrawColor(gray, gray, gray)
	w.doc.Line(pdfMargin, w.y, pdfRule, w.y)
}

func (w *pdfWriter) section(title, content string) {
	w.breakIfPast(pdfSectionBreak)
	w.font("B", 10, 79, 70, 229)
	w.text(pdfMargin, strings.ToUpper(title))
	w.y += 5
	w.font("I", 10, 60, 60, 60)
	if strings.TrimSpace(content) == "" {
		content = NotRecorded
	}
	w.wrapped(pdfMargin+5, content, 5)
	w.y += 7
}

// RenderPatientRecord writes the patient's clinical record as PDF. Sessions
// of the patient are listed newest first on the pages after the record.
func RenderPatientRecord(out io.Writer, p model.Patient, sessions []model.Session, now time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle("Ficha "+p.FullName, true)

	w := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	w.newPage()

	w.font("", 22, 30, 58, 138)
	w.text(pdfMargin, "FICHA CLÍNICA KINÉSICA")
	w.y += 10
	w.font("", 10, 100, 100, 100)
	w.text(pdfMargin, "Fecha de exportación: "+now.Format("02/01/2006"))
	w.y += 15
	w.rule(200)
	w.y += 10

	w.font("B", 14, 0, 0, 0)
	w.text(pdfMargin, strings.ToUpper(p.FullName))
	w.y += 7
	w.font("", 10, 0, 0, 0)
	w.text(pdfMargin, fmt.Sprintf("DNI: %s | Nacimiento: %s | Sexo: %s", p.DocumentID, p.BirthDate, p.Sex))
	w.y += 5
	w.text(pdfMargin, fmt.Sprintf("Profesión: %s | Dominancia: %s", p.Profession, p.Handedness))
	w.y += 15

	w.section("Diagnóstico Principal", p.Diagnosis)
	w.section("Antecedentes Médicos", p.MedicalHistory)
	w.section("ICE (Ideas, Creencias, Expectativas)", p.ICE)
	w.section("Determinantes Sociales", p.SocialDeterminants)
	w.section("Cronopatología", p.Chronopathology)
	w.section("Red Flags / Banderas Rojas", p.RedFlags)

	w.y += 5
	w.breakIfPast(pdfSectionBreak)
	w.font("B", 10, 30, 58, 138)
	w.text(pdfMargin, "HALLAZGOS DE EXPLORACIÓN")
	w.y += 7

	w.section("Inspección Estática", p.StaticInspection)
	w.section("Inspección Dinámica", p.DynamicInspection)
	w.section("Palpación", p.Palpation)
	w.section("Auscultación", p.Auscultation)
	w.section("Percusión", p.Percussion)

	own := clinic.SessionsForPatient(sessions, p.ID)
	if len(own) > 0 {
		w.newPage()
		w.font("", 16, 30, 58, 138)
		w.text(pdfMargin, "HISTORIAL DE EVOLUCIONES")
		w.y += 15

		for _, s := range own {
			w.breakIfPast(pdfSessionBreak)

			w.font("B", 11, 0, 0, 0)
			w.text(pdfMargin, fmt.Sprintf("%s - Dolor EVA: %d/10", s.Date, s.PainLevel))
			w.y += 5

			w.font("", 9, 0, 0, 0)
			w.wrapped(pdfMargin+5, "Objetivo: "+s.Objective, 4)
			w.wrapped(pdfMargin+5, "Tratamiento: "+s.Treatment, 4)
			w.wrapped(pdfMargin+5, "Evolución: "+s.Evolution, 4)
			w.y += 5
			w.rule(240)
			w.y += 5
		}
	}

	if err := doc.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
