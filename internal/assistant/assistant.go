// Package assistant produces AI-written progress summaries and clinical
// terminology suggestions. Failures never escape: callers always get a
// displayable fallback.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kinai/kinai/internal/model"
)

const (
	// FallbackSummary is returned when the model could not be reached.
	FallbackSummary = "Error al conectar con el asistente de IA clínico."
	// EmptySummary is returned when the model answered with no text.
	EmptySummary = "No se pudo generar el análisis en este momento."

	// MaxTerms caps the number of suggested terms.
	MaxTerms = 6
)

// ErrNotConfigured is returned by generators that have no credentials.
var ErrNotConfigured = errors.New("ai assistant not configured")

// Service is what the rest of the app needs from the assistant.
type Service interface {
	SummarizeProgress(ctx context.Context, p model.Patient, sessions []model.Session) string
	SuggestTerminology(ctx context.Context, text string) []string
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Assistant implements Service on top of a Generator.
type Assistant struct {
	gen Generator
	log zerolog.Logger
}

// New returns an Assistant. A nil gen behaves as not configured.
func New(gen Generator, log zerolog.Logger) *Assistant {
	return &Assistant{gen: gen, log: log}
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	if a.gen == nil {
		return "", ErrNotConfigured
	}
	return a.gen.Generate(ctx, prompt)
}

// SummarizeProgress asks for a clinical summary of the patient's evolution.
func (a *Assistant) SummarizeProgress(ctx context.Context, p model.Patient, sessions []model.Session) string {
	text, err := a.generate(ctx, summaryPrompt(p, sessions))
	if err != nil {
		a.log.Warn().Err(err).Str("patient", p.ID).Msg("progress summary failed")
		return FallbackSummary
	}
	if strings.TrimSpace(text) == "" {
		return EmptySummary
	}
	return strings.TrimSpace(text)
}

// SuggestTerminology asks for up to MaxTerms technical terms describing text.
// Blank input and failures yield no terms.
func (a *Assistant) SuggestTerminology(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	out, err := a.generate(ctx, terminologyPrompt(text))
	if err != nil {
		a.log.Warn().Err(err).Msg("terminology suggestion failed")
		return nil
	}
	return ParseTerms(out)
}

var outputLabel = regexp.MustCompile(`(?i)salida:`)

// ParseTerms extracts the comma-separated terms of a model answer.
func ParseTerms(out string) []string {
	out = strings.ReplaceAll(out, "`", "")
	out = outputLabel.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, "\n", ",")

	var terms []string
	for _, t := range strings.Split(out, ",") {
		t = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(t), "."))
		if t == "" {
			continue
		}
		terms = append(terms, t)
		if len(terms) == MaxTerms {
			break
		}
	}
	return terms
}

func summaryPrompt(p model.Patient, sessions []model.Session) string {
	ordered := append([]model.Session(nil), sessions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	var b strings.Builder
	b.WriteString("Sos un kinesiólogo con amplia experiencia en rehabilitación y razonamiento clínico.\n")
	b.WriteString("Analizá la evolución del siguiente paciente.\n\n")
	fmt.Fprintf(&b, "PACIENTE: %s\n", p.FullName)
	fmt.Fprintf(&b, "Diagnóstico inicial: %s\n", p.Diagnosis)
	fmt.Fprintf(&b, "Antecedentes: %s\n", p.MedicalHistory)
	if p.RedFlags != "" {
		fmt.Fprintf(&b, "Banderas rojas registradas: %s\n", p.RedFlags)
	}
	b.WriteString("\nSESIONES:\n")
	for _, s := range ordered {
		fmt.Fprintf(&b, "- %s | EVA %d/10 | Objetivo: %s | Evolución: %s\n", s.Date, s.PainLevel, s.Objective, s.Evolution)
	}
	b.WriteString("\nRespondé con: 1) un resumen del progreso funcional, ")
	b.WriteString("2) banderas rojas o estancamientos detectados, ")
	b.WriteString("3) tres enfoques terapéuticos basados en evidencia para las próximas sesiones.\n")
	return b.String()
}

func terminologyPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Convertí la siguiente descripción coloquial en terminología clínica kinésica precisa.\n")
	fmt.Fprintf(&b, "Devolvé solo los términos separados por comas, como máximo %d.\n\n", MaxTerms)
	b.WriteString("Entrada: \"Le duele la rodilla cuando sube escaleras\"\n")
	b.WriteString("Salida: Gonalgia mecánica, Disfunción femoropatelar, Déficit de fuerza en cuádriceps\n\n")
	fmt.Fprintf(&b, "Entrada: %q\nSalida:", text)
	return b.String()
}
