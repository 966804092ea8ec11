package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/kinai/kinai/internal/assistant"
	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/model"
)

// RequestSummary asks the assistant for a progress summary of the open
// patient. It returns a channel closed once the response has been handled,
// or nil when a summary is already pending, no patient is open or the
// patient has no sessions.
func (a *App) RequestSummary(ctx context.Context) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.Report.Busy {
		return nil
	}
	p, ok := a.st.Records.Patient(a.st.ActivePatientID)
	if !ok {
		return nil
	}
	sessions := clinic.SessionsForPatient(a.st.Records.Sessions, p.ID)
	if len(sessions) == 0 {
		return nil
	}

	a.reportGen++
	gen := a.reportGen
	a.st.Report = Report{Busy: true}

	done := make(chan struct{})
	go func() {
		defer close(done)
		text := a.summarize(ctx, p, sessions)

		a.mu.Lock()
		defer a.mu.Unlock()
		a.st.Report.Busy = false
		if gen != a.reportGen || a.st.ActivePatientID != p.ID {
			a.log.Debug().Str("patient", p.ID).Msg("discarding stale summary")
			return
		}
		a.st.Report.Text = text
	}()
	return done
}

func (a *App) summarize(ctx context.Context, p model.Patient, sessions []model.Session) (text string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("summarize progress")
			text = assistant.FallbackSummary
		}
	}()
	return a.ai.SummarizeProgress(ctx, p, sessions)
}

func (a *App) suggest(ctx context.Context, text string) (terms []string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("suggest terminology")
			terms = nil
		}
	}()
	return a.ai.SuggestTerminology(ctx, text)
}

// RequestSuggestions asks the assistant for terminology matching the
// current value of field in form f. It returns a channel closed once the
// response has been handled, or nil when f already has a pending request or
// the field is blank.
func (a *App) RequestSuggestions(ctx context.Context, f Form, field string) (<-chan struct{}, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ptr, err := a.field(f, field)
	if err != nil {
		return nil, err
	}
	if a.st.Suggestions[f].Kind == SuggestLoading {
		return nil, nil
	}
	text := *ptr
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	a.suggestGen[f]++
	gen := a.suggestGen[f]
	a.st.Suggestions[f] = Suggestion{Kind: SuggestLoading, Field: field}

	done := make(chan struct{})
	go func() {
		defer close(done)
		terms := a.suggest(ctx, text)

		a.mu.Lock()
		defer a.mu.Unlock()
		if gen != a.suggestGen[f] {
			a.log.Debug().Stringer("form", f).Str("field", field).Msg("discarding stale suggestions")
			return
		}
		a.st.Suggestions[f] = Suggestion{Kind: SuggestReady, Field: field, Terms: terms}
	}()
	return done, nil
}

// ApplyTerm appends " (term)" to the suggested field of form f, or sets the
// field to term when it is empty, and dismisses the suggestions.
func (a *App) ApplyTerm(f Form, term string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	sg := a.st.Suggestions[f]
	if sg.Kind != SuggestReady {
		return fmt.Errorf("no %s suggestions to apply", f)
	}
	ptr, err := a.field(f, sg.Field)
	if err != nil {
		return err
	}
	if *ptr == "" {
		*ptr = term
	} else {
		*ptr = fmt.Sprintf("%s (%s)", *ptr, term)
	}
	a.resetSuggestion(f)
	return nil
}

// DismissSuggestions resets form f's suggestions to none.
func (a *App) DismissSuggestions(f Form) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetSuggestion(f)
}

// SetField sets one text field of form f by its JSON name.
func (a *App) SetField(f Form, name, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	ptr, err := a.field(f, name)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// Field returns one text field of form f by its JSON name.
func (a *App) Field(f Form, name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ptr, err := a.field(f, name)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// field resolves a form field by its JSON name. The patient form is only
// reachable during registration and the session form only with a patient
// open.
func (a *App) field(f Form, name string) (*string, error) {
	switch f {
	case FormPatient:
		if err := a.registering(); err != nil {
			return nil, err
		}
		if ptr := patientField(&a.st.Wizard.Form, name); ptr != nil {
			return ptr, nil
		}
	case FormSession:
		if a.st.ActivePatientID == "" {
			return nil, ErrNoActivePatient
		}
		if ptr := sessionField(&a.st.Editor.Draft, name); ptr != nil {
			return ptr, nil
		}
	}
	return nil, fmt.Errorf("%w: %s form has no %q", ErrUnknownField, f, name)
}

func patientField(p *clinic.PatientForm, name string) *string {
	switch name {
	case "diagnosis":
		return &p.Diagnosis
	case "medicalHistory":
		return &p.MedicalHistory
	case "ice":
		return &p.ICE
	case "socialDeterminants":
		return &p.SocialDeterminants
	case "chronopathology":
		return &p.Chronopathology
	case "redFlags":
		return &p.RedFlags
	case "staticInspection":
		return &p.StaticInspection
	case "dynamicInspection":
		return &p.DynamicInspection
	case "palpation":
		return &p.Palpation
	case "auscultation":
		return &p.Auscultation
	case "percussion":
		return &p.Percussion
	}
	return nil
}

func sessionField(s *clinic.SessionForm, name string) *string {
	switch name {
	case "objective":
		return &s.Objective
	case "treatment":
		return &s.Treatment
	case "evolution":
		return &s.Evolution
	case "observations":
		return &s.Observations
	}
	return nil
}

// SuggestFields lists the field names accepted for form f.
func SuggestFields(f Form) []string {
	if f == FormSession {
		return []string{"objective", "treatment", "evolution", "observations"}
	}
	return []string{
		"diagnosis", "medicalHistory", "ice", "socialDeterminants", "chronopathology",
		"redFlags", "staticInspection", "dynamicInspection", "palpation", "auscultation", "percussion",
	}
}
