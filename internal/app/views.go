package app

import (
	"github.com/samber/lo"

	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/model"
)

// DashboardRow is one line of the patient list.
type DashboardRow struct {
	Patient   model.Patient `json:"patient"`
	Diagnosis string        `json:"diagnosis"`
	Stats     clinic.Stats  `json:"stats"`
}

// Dashboard lists the patients matching the current search term.
func (a *App) Dashboard() []DashboardRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := a.st.Records.Sessions
	return lo.Map(clinic.FilteredPatients(a.st.Records.Patients, a.st.Search), func(p model.Patient, _ int) DashboardRow {
		return DashboardRow{
			Patient:   p,
			Diagnosis: clinic.DiagnosisLabel(p),
			Stats:     clinic.PatientStats(sessions, p.ID),
		}
	})
}

// Detail is the patient detail view.
type Detail struct {
	Patient    model.Patient       `json:"patient"`
	Age        string              `json:"age"`
	Stats      clinic.Stats        `json:"stats"`
	Sessions   []model.Session     `json:"sessions"`
	Chart      []clinic.ChartPoint `json:"chart"`
	ChartReady bool                `json:"chartReady"`
	Report     Report              `json:"report"`
	Editor     SessionEditor       `json:"editor"`
	Suggestion Suggestion          `json:"suggestion"`
}

// Detail renders the open patient.
func (a *App) Detail() (Detail, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.st.Records.Patient(a.st.ActivePatientID)
	if !ok {
		return Detail{}, ErrNoActivePatient
	}
	sessions := a.st.Records.Sessions
	chart := clinic.ChartSeries(sessions, p.ID)
	return Detail{
		Patient:    p,
		Age:        clinic.AgeLabel(p.BirthDate, a.deps.Now().Local()),
		Stats:      clinic.PatientStats(sessions, p.ID),
		Sessions:   clinic.SessionsForPatient(sessions, p.ID),
		Chart:      chart,
		ChartReady: clinic.ChartReady(chart),
		Report:     a.st.Report,
		Editor:     a.st.Editor,
		Suggestion: a.st.Suggestions[FormSession],
	}, nil
}
