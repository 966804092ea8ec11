package clinic

import (
	"strings"

	"github.com/samber/lo"

	"github.com/kinai/kinai/internal/model"
)

// UnnamedPatient is stored when the wizard is submitted without a name.
const UnnamedPatient = "Sin Nombre"

// RegisterPatient appends a new patient built from the intake form.
// Attachment rows with a blank URL are dropped.
func RegisterPatient(r Records, f PatientForm, pending []PendingAttachment, deps Deps) (Records, model.Patient) {
	now := deps.Now()

	name := strings.TrimSpace(f.FullName)
	if name == "" {
		name = UnnamedPatient
	}
	consultation := f.ConsultationDate
	if strings.TrimSpace(consultation) == "" {
		consultation = now.Local().Format(DateLayout)
	}

	kept := lo.Filter(pending, func(a PendingAttachment, _ int) bool {
		return strings.TrimSpace(a.URL) != ""
	})
	attachments := lo.Map(kept, func(a PendingAttachment, _ int) model.Attachment {
		return model.Attachment{ID: deps.NewAttachmentID(), Name: a.Name, URL: a.URL}
	})

	p := model.Patient{
		ID:                 deps.NewID(),
		FullName:           name,
		DocumentID:         f.DocumentID,
		BirthDate:          f.BirthDate,
		Sex:                f.Sex,
		ConsultationDate:   consultation,
		Profession:         f.Profession,
		Handedness:         f.Handedness,
		Phone:              f.Phone,
		Referral:           f.Referral,
		Diagnosis:          f.Diagnosis,
		MedicalHistory:     f.MedicalHistory,
		ICE:                f.ICE,
		SocialDeterminants: f.SocialDeterminants,
		Chronopathology:    f.Chronopathology,
		RedFlags:           f.RedFlags,
		StaticInspection:   f.StaticInspection,
		DynamicInspection:  f.DynamicInspection,
		Palpation:          f.Palpation,
		Auscultation:       f.Auscultation,
		Percussion:         f.Percussion,
		Attachments:        attachments,
		CreatedAt:          now.UnixMilli(),
	}

	patients := make([]model.Patient, 0, len(r.Patients)+1)
	patients = append(patients, r.Patients...)
	patients = append(patients, p)
	return Records{Patients: patients, Sessions: r.Sessions}, p
}

// AddOrUpdateSession appends a new session for patientID, or, when
// editingID is set, replaces the editable fields of that session in place.
// Editing an ID that does not exist changes nothing and reports false.
func AddOrUpdateSession(r Records, patientID string, f SessionForm, editingID string, deps Deps) (Records, model.Session, bool) {
	f.PainLevel = model.ClampPain(f.PainLevel)

	if editingID != "" {
		_, idx, found := lo.FindIndexOf(r.Sessions, func(s model.Session) bool { return s.ID == editingID })
		if !found {
			return r, model.Session{}, false
		}
		sessions := append([]model.Session(nil), r.Sessions...)
		s := applyForm(sessions[idx], f)
		sessions[idx] = s
		return Records{Patients: r.Patients, Sessions: sessions}, s, true
	}

	s := applyForm(model.Session{
		ID:        deps.NewID(),
		PatientID: patientID,
		CreatedAt: deps.Now().UnixMilli(),
	}, f)

	sessions := make([]model.Session, 0, len(r.Sessions)+1)
	sessions = append(sessions, r.Sessions...)
	sessions = append(sessions, s)
	return Records{Patients: r.Patients, Sessions: sessions}, s, true
}

func applyForm(s model.Session, f SessionForm) model.Session {
	s.Date = f.Date
	s.Time = f.Time
	s.Objective = f.Objective
	s.Treatment = f.Treatment
	s.Evolution = f.Evolution
	s.Observations = f.Observations
	s.PainLevel = f.PainLevel
	s.PainMapURL = f.PainMapURL
	s.PainMapImage = f.PainMapImage
	return s
}
