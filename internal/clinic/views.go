package clinic

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/kinai/kinai/internal/model"
)

const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	ChartLayout = "01/02"

	// NoDiagnosis is shown in place of an empty diagnosis.
	NoDiagnosis = "Sin diagnóstico"
	// NotAvailable is shown when a value cannot be derived.
	NotAvailable = "N/A"
)

// FilteredPatients returns the patients whose name contains term
// (case-insensitive) or whose document ID contains term verbatim.
// An empty term matches everyone. Collection order is kept.
func FilteredPatients(patients []model.Patient, term string) []model.Patient {
	lower := strings.ToLower(term)
	return lo.Filter(patients, func(p model.Patient, _ int) bool {
		return strings.Contains(strings.ToLower(p.FullName), lower) ||
			strings.Contains(p.DocumentID, term)
	})
}

// SessionsForPatient returns the patient's sessions, most recent first by
// date and time. Equal moments keep their stored order.
func SessionsForPatient(sessions []model.Session, patientID string) []model.Session {
	out := ofPatient(sessions, patientID)
	sort.SliceStable(out, func(i, j int) bool {
		return sessionMoment(out[i]).After(sessionMoment(out[j]))
	})
	return out
}

// ChartPoint is one entry of the pain evolution chart.
type ChartPoint struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Pain  int    `json:"pain"`
}

// ChartSeries returns the patient's pain levels oldest first.
func ChartSeries(sessions []model.Session, patientID string) []ChartPoint {
	out := ofPatient(sessions, patientID)
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).Before(parseDate(out[j].Date))
	})
	return lo.Map(out, func(s model.Session, _ int) ChartPoint {
		label := s.Date
		if d := parseDate(s.Date); !d.IsZero() {
			label = d.Format(ChartLayout)
		}
		return ChartPoint{Label: label, Date: s.Date, Pain: s.PainLevel}
	})
}

// ChartReady reports whether there are enough points to draw a trend.
func ChartReady(points []ChartPoint) bool {
	return len(points) >= 2
}

// Stats summarizes a patient's visits.
type Stats struct {
	SessionCount    int    `json:"session_count"`
	LastSessionDate string `json:"last_session_date,omitempty"` // "" when there are no sessions
}

// PatientStats counts the patient's sessions and finds the latest visit date.
func PatientStats(sessions []model.Session, patientID string) Stats {
	own := ofPatient(sessions, patientID)
	st := Stats{SessionCount: len(own)}
	if len(own) > 0 {
		last := lo.MaxBy(own, func(a, b model.Session) bool {
			return parseDate(a.Date).After(parseDate(b.Date))
		})
		st.LastSessionDate = last.Date
	}
	return st
}

// Age returns the whole years between birthDate and today. ok is false when
// the birth date is missing or unreadable; callers must not treat that as 0.
func Age(birthDate string, today time.Time) (age int, ok bool) {
	b, err := time.Parse(DateLayout, strings.TrimSpace(birthDate))
	if err != nil {
		return 0, false
	}
	age = today.Year() - b.Year()
	if today.Month() < b.Month() || (today.Month() == b.Month() && today.Day() < b.Day()) {
		age--
	}
	return age, true
}

// AgeLabel renders Age for display.
func AgeLabel(birthDate string, today time.Time) string {
	age, ok := Age(birthDate, today)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%d años", age)
}

// DiagnosisLabel renders the patient's diagnosis for display.
func DiagnosisLabel(p model.Patient) string {
	if strings.TrimSpace(p.Diagnosis) == "" {
		return NoDiagnosis
	}
	return p.Diagnosis
}

func ofPatient(sessions []model.Session, patientID string) []model.Session {
	return lo.Filter(sessions, func(s model.Session, _ int) bool {
		return s.PatientID == patientID
	})
}

func parseDate(s string) time.Time {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return d
}

// sessionMoment combines date and time. A missing or bad time counts as
// midnight; a bad date gives the zero time.
func sessionMoment(s model.Session) time.Time {
	d := parseDate(s.Date)
	if d.IsZero() {
		return d
	}
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s.Time))
	if err != nil {
		return d
	}
	return d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}
