// Package clinic holds the patient and session collections together with
// the commands that change them and the views derived from them.
//
// Everything here is a pure function of its arguments: commands return new
// Records and never modify the slices they were given. Persisting the result
// is the caller's job.
package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/kinai/kinai/internal/model"
)

// Records is the in-memory data store: the current patient and session
// collections in insertion order.
type Records struct {
	Patients []model.Patient `json:"patients"`
	Sessions []model.Session `json:"sessions"`
}

// Patient returns the patient with the given ID.
func (r Records) Patient(id string) (model.Patient, bool) {
	for _, p := range r.Patients {
		if p.ID == id {
			return p, true
		}
	}
	return model.Patient{}, false
}

// Session returns the session with the given ID.
func (r Records) Session(id string) (model.Session, bool) {
	for _, s := range r.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}

// Deps supplies the clock and identifier sources used by commands.
type Deps struct {
	Now             func() time.Time
	NewID           func() string
	NewAttachmentID func() string
}

// DefaultDeps uses the wall clock, ULIDs for records and random UUIDs for
// attachments.
func DefaultDeps() Deps {
	return Deps{
		Now:             time.Now,
		NewID:           func() string { return ulid.Make().String() },
		NewAttachmentID: func() string { return uuid.NewString() },
	}
}

// PatientForm carries the intake wizard fields.
type PatientForm struct {
	FullName         string           `json:"fullName"`
	DocumentID       string           `json:"documentId"`
	BirthDate        string           `json:"birthDate"`
	Sex              string           `json:"sex"`
	ConsultationDate string           `json:"consultationDate"`
	Profession       string           `json:"profession"`
	Handedness       model.Handedness `json:"dominance"`
	Phone            string           `json:"phone"`
	Referral         string           `json:"referral"`
	Diagnosis        string           `json:"diagnosis"`
	MedicalHistory   string           `json:"medicalHistory"`

	ICE                string `json:"ice"`
	SocialDeterminants string `json:"socialDeterminants"`
	Chronopathology    string `json:"chronopathology"`
	RedFlags           string `json:"redFlags"`

	StaticInspection  string `json:"staticInspection"`
	DynamicInspection string `json:"dynamicInspection"`
	Palpation         string `json:"palpation"`
	Auscultation      string `json:"auscultation"`
	Percussion        string `json:"percussion"`
}

// PendingAttachment is an attachment row typed into the wizard but not yet
// saved.
type PendingAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SessionForm carries the editable fields of a session.
type SessionForm struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Objective    string `json:"objective"`
	Treatment    string `json:"treatment"`
	Evolution    string `json:"evolution"`
	Observations string `json:"observations"`
	PainLevel    int    `json:"painLevel"`
	PainMapURL   string `json:"painMapUrl"`
	PainMapImage string `json:"painMapImage"`
}

// FormFromSession copies the editable fields of s into a form.
func FormFromSession(s model.Session) SessionForm {
	return SessionForm{
		Date:         s.Date,
		Time:         s.Time,
		Objective:    s.Objective,
		Treatment:    s.Treatment,
		Evolution:    s.Evolution,
		Observations: s.Observations,
		PainLevel:    s.PainLevel,
		PainMapURL:   s.PainMapURL,
		PainMapImage: s.PainMapImage,
	}
}
