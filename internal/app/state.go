package app

import (
	"fmt"

	"github.com/kinai/kinai/internal/clinic"
)

// View is the screen currently shown.
type View int

const (
	ViewDashboard View = iota
	ViewPatientDetail
	ViewNewPatient
)

func (v View) String() string {
	switch v {
	case ViewPatientDetail:
		return "patient-detail"
	case ViewNewPatient:
		return "new-patient"
	default:
		return "dashboard"
	}
}

// Form identifies a form instance that owns its own suggestion state.
type Form int

const (
	FormPatient Form = iota
	FormSession
)

func (f Form) String() string {
	if f == FormSession {
		return "session"
	}
	return "patient"
}

// ParseForm maps "patient" or "session" to a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "patient":
		return FormPatient, nil
	case "session":
		return FormSession, nil
	}
	return 0, fmt.Errorf("unknown form %q (want patient or session)", s)
}

// SuggestionKind tags the Suggestion variant.
type SuggestionKind int

const (
	SuggestNone SuggestionKind = iota
	SuggestLoading
	SuggestReady
)

// Suggestion is the terminology suggestion state of one form. Field is set
// while loading and when ready; Terms only when ready.
type Suggestion struct {
	Kind  SuggestionKind `json:"kind"`
	Field string         `json:"field,omitempty"`
	Terms []string       `json:"terms,omitempty"`
}

// Wizard is the two-step patient intake form.
type Wizard struct {
	Step        int                        `json:"step"`
	Form        clinic.PatientForm         `json:"form"`
	Attachments []clinic.PendingAttachment `json:"attachments"`
}

// SessionEditor holds the session form draft. EditingID is empty when the
// draft is a new session.
type SessionEditor struct {
	Draft       clinic.SessionForm `json:"draft"`
	EditingID   string             `json:"editingId,omitempty"`
	PainDisplay int                `json:"painDisplay"`
}

// Report is the AI progress summary shown on the patient detail view.
type Report struct {
	Busy bool   `json:"busy"`
	Text string `json:"text,omitempty"`
}

// State is a snapshot of everything the presentation layer shows.
type State struct {
	Records         clinic.Records `json:"-"`
	View            View           `json:"view"`
	ActivePatientID string         `json:"activePatientId,omitempty"`
	Search          string         `json:"search,omitempty"`
	Wizard          Wizard         `json:"wizard"`
	Editor          SessionEditor  `json:"editor"`
	Report          Report         `json:"report"`
	Suggestions     [2]Suggestion  `json:"suggestions"`
	PDFBusy         bool           `json:"pdfBusy"`
}

// Suggestion returns the suggestion state of form f.
func (s State) Suggestion(f Form) Suggestion {
	return s.Suggestions[f]
}
