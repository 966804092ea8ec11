// Package app is the presentation boundary: it owns the in-memory records
// and the view state, dispatches user actions to the clinic commands and
// persists the results.
//
// All transitions are serialized by one mutex. AI requests run in the
// background and report back through the same lock; a response that arrives
// after the user moved on is dropped.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kinai/kinai/internal/assistant"
	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/export"
	"github.com/kinai/kinai/internal/model"
)

var (
	ErrNameRequired    = errors.New("full name is required")
	ErrNoActivePatient = errors.New("no patient is open")
	ErrPatientNotFound = errors.New("patient not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownField    = errors.New("unknown form field")
	ErrBusy            = errors.New("operation already in progress")
	ErrWizardStep      = errors.New("wizard is not on that step")
	ErrAttachmentIndex = errors.New("attachment row out of range")
	ErrNotRegistering  = errors.New("no registration in progress")
)

// Persister writes whole collections. *store.Collections satisfies it.
type Persister interface {
	SavePatients(ctx context.Context, patients []model.Patient) error
	SaveSessions(ctx context.Context, sessions []model.Session) error
}

// App serializes user actions over one State.
type App struct {
	mu    sync.Mutex
	st    State
	store Persister
	ai    assistant.Service
	deps  clinic.Deps
	log   zerolog.Logger

	reportGen  uint64
	suggestGen [2]uint64
}

// New builds an App over records already loaded from the store.
func New(records clinic.Records, store Persister, ai assistant.Service, deps clinic.Deps, log zerolog.Logger) *App {
	a := &App{store: store, ai: ai, deps: deps, log: log}
	a.st.Records = records
	a.st.View = ViewDashboard
	a.st.Wizard = Wizard{Step: 1}
	a.st.Editor = a.blankEditor()
	return a
}

// State returns a snapshot. Record slices are shared and must not be
// modified.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.st
	st.Wizard.Attachments = append([]clinic.PendingAttachment(nil), a.st.Wizard.Attachments...)
	return st
}

// Records returns the current collections.
func (a *App) Records() clinic.Records {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.Records
}

func (a *App) blankEditor() SessionEditor {
	now := a.deps.Now().Local()
	return SessionEditor{
		Draft: clinic.SessionForm{
			Date:      now.Format(clinic.DateLayout),
			Time:      now.Format(clinic.TimeLayout),
			PainLevel: model.DefaultPainDisplay,
		},
		PainDisplay: model.DefaultPainDisplay,
	}
}

// leavePatient drops everything tied to the open patient. In-flight AI
// responses for it become stale.
func (a *App) leavePatient() {
	a.st.Editor = a.blankEditor()
	a.st.Report.Text = ""
	a.reportGen++
	a.resetSuggestion(FormSession)
}

func (a *App) resetSuggestion(f Form) {
	a.st.Suggestions[f] = Suggestion{}
	a.suggestGen[f]++
}

// ShowDashboard navigates to the patient list.
func (a *App) ShowDashboard() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.leavePatient()
	a.st.ActivePatientID = ""
	a.st.View = ViewDashboard
}

// SetSearch sets the dashboard search term.
func (a *App) SetSearch(term string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.Search = term
}

// OpenPatient navigates to the detail view of patient id.
func (a *App) OpenPatient(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.st.Records.Patient(id); !ok {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	if a.st.ActivePatientID != id {
		a.leavePatient()
	}
	a.st.ActivePatientID = id
	a.st.View = ViewPatientDetail
	return nil
}

// StartRegistration opens an empty intake wizard on step 1.
func (a *App) StartRegistration() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.leavePatient()
	a.st.ActivePatientID = ""
	a.st.Wizard = Wizard{Step: 1}
	a.resetSuggestion(FormPatient)
	a.st.View = ViewNewPatient
}

func (a *App) registering() error {
	if a.st.View != ViewNewPatient {
		return ErrNotRegistering
	}
	return nil
}

// WizardNext moves the wizard from step 1 to step 2.
func (a *App) WizardNext() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return err
	}
	if a.st.Wizard.Step != 1 {
		return ErrWizardStep
	}
	a.st.Wizard.Step = 2
	return nil
}

// WizardBack moves the wizard from step 2 to step 1.
func (a *App) WizardBack() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return err
	}
	if a.st.Wizard.Step != 2 {
		return ErrWizardStep
	}
	a.st.Wizard.Step = 1
	return nil
}

// SetPatientForm replaces the wizard form fields.
func (a *App) SetPatientForm(f clinic.PatientForm) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return err
	}
	a.st.Wizard.Form = f
	return nil
}

// AddAttachmentRow appends an empty attachment row and returns its index.
func (a *App) AddAttachmentRow() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return 0, err
	}
	a.st.Wizard.Attachments = append(a.st.Wizard.Attachments, clinic.PendingAttachment{})
	return len(a.st.Wizard.Attachments) - 1, nil
}

// UpdateAttachmentRow sets the name and URL of row i.
func (a *App) UpdateAttachmentRow(i int, name, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.st.Wizard.Attachments) {
		return fmt.Errorf("%w: %d", ErrAttachmentIndex, i)
	}
	a.st.Wizard.Attachments[i] = clinic.PendingAttachment{Name: name, URL: url}
	return nil
}

// RemoveAttachmentRow deletes row i.
func (a *App) RemoveAttachmentRow(i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return err
	}
	rows := a.st.Wizard.Attachments
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("%w: %d", ErrAttachmentIndex, i)
	}
	a.st.Wizard.Attachments = append(rows[:i:i], rows[i+1:]...)
	return nil
}

// SubmitRegistration registers the wizard's patient, persists the patient
// collection and returns to the dashboard.
func (a *App) SubmitRegistration(ctx context.Context) (model.Patient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registering(); err != nil {
		return model.Patient{}, err
	}
	if a.st.Wizard.Step != 2 {
		return model.Patient{}, ErrWizardStep
	}
	if strings.TrimSpace(a.st.Wizard.Form.FullName) == "" {
		return model.Patient{}, ErrNameRequired
	}

	records, p := clinic.RegisterPatient(a.st.Records, a.st.Wizard.Form, a.st.Wizard.Attachments, a.deps)
	a.st.Records = records
	a.st.Wizard = Wizard{Step: 1}
	a.resetSuggestion(FormPatient)
	a.st.View = ViewDashboard

	a.log.Info().Str("patient", p.ID).Int("attachments", len(p.Attachments)).Msg("patient registered")
	if err := a.store.SavePatients(ctx, records.Patients); err != nil {
		a.log.Error().Err(err).Msg("save patients")
		return p, fmt.Errorf("save patients: %w", err)
	}
	return p, nil
}

// EditSession loads session id of the open patient into the editor.
func (a *App) EditSession(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.ActivePatientID == "" {
		return ErrNoActivePatient
	}
	s, ok := a.st.Records.Session(id)
	if !ok || s.PatientID != a.st.ActivePatientID {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	a.st.Editor = SessionEditor{
		Draft:       clinic.FormFromSession(s),
		EditingID:   s.ID,
		PainDisplay: s.PainLevel,
	}
	return nil
}

// SetSessionDraft replaces the editor draft. The pain display follows the
// draft's clamped pain level.
func (a *App) SetSessionDraft(f clinic.SessionForm) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.ActivePatientID == "" {
		return ErrNoActivePatient
	}
	a.st.Editor.Draft = f
	a.st.Editor.PainDisplay = model.ClampPain(f.PainLevel)
	return nil
}

// SaveSession adds the draft as a new session, or updates the session being
// edited, and persists the session collection. It reports false when the
// edited session no longer exists, in which case nothing is stored.
func (a *App) SaveSession(ctx context.Context) (model.Session, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.ActivePatientID == "" {
		return model.Session{}, false, ErrNoActivePatient
	}

	records, s, ok := clinic.AddOrUpdateSession(a.st.Records, a.st.ActivePatientID, a.st.Editor.Draft, a.st.Editor.EditingID, a.deps)
	editing := a.st.Editor.EditingID
	a.st.Editor = a.blankEditor()
	a.st.Report.Text = ""
	a.reportGen++
	a.resetSuggestion(FormSession)
	if !ok {
		a.log.Warn().Str("session", editing).Msg("edited session no longer exists")
		return model.Session{}, false, nil
	}
	a.st.Records = records

	a.log.Info().Str("session", s.ID).Str("patient", s.PatientID).Bool("edit", editing != "").Msg("session saved")
	if err := a.store.SaveSessions(ctx, records.Sessions); err != nil {
		a.log.Error().Err(err).Msg("save sessions")
		return s, true, fmt.Errorf("save sessions: %w", err)
	}
	return s, true, nil
}

// CancelEdit discards the draft and edit target. Without an edit in
// progress it does nothing.
func (a *App) CancelEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.Editor.EditingID == "" {
		return
	}
	a.st.Editor = a.blankEditor()
}

// ExportPDF renders the open patient's record to w.
func (a *App) ExportPDF(ctx context.Context, w io.Writer) error {
	a.mu.Lock()
	if a.st.PDFBusy {
		a.mu.Unlock()
		return ErrBusy
	}
	p, ok := a.st.Records.Patient(a.st.ActivePatientID)
	if !ok {
		a.mu.Unlock()
		return ErrNoActivePatient
	}
	sessions := a.st.Records.Sessions
	a.st.PDFBusy = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.st.PDFBusy = false
		a.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := export.RenderPatientRecord(w, p, sessions, a.deps.Now()); err != nil {
		a.log.Error().Err(err).Str("patient", p.ID).Msg("render pdf")
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
