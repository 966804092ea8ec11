// Package model defines the clinical record types shared by every layer.
package model

import "strings"

// Handedness is the patient's dominant side.
type Handedness string

const (
	HandRight      Handedness = "diestro"
	HandLeft       Handedness = "zurdo"
	HandAmbidexter Handedness = "ambidiestro"
)

// ValidHandedness maps accepted spellings to their canonical value.
var ValidHandedness = map[string]Handedness{
	"diestro":      HandRight,
	"zurdo":        HandLeft,
	"ambidiestro":  HandAmbidexter,
	"right":        HandRight,
	"left":         HandLeft,
	"ambidextrous": HandAmbidexter,
}

// ParseHandedness returns the canonical handedness for s, or "" when s is
// blank or unknown.
func ParseHandedness(s string) Handedness {
	return ValidHandedness[strings.ToLower(strings.TrimSpace(s))]
}

// Attachment is a named link to an external document or image.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Patient is one registered individual together with the intake findings.
// JSON names match the layout persisted by earlier versions of the app.
type Patient struct {
	ID               string     `json:"id"`
	FullName         string     `json:"fullName"`
	DocumentID       string     `json:"documentId"`
	BirthDate        string     `json:"birthDate"`
	Sex              string     `json:"sex"`
	ConsultationDate string     `json:"consultationDate"`
	Profession       string     `json:"profession"`
	Handedness       Handedness `json:"dominance"`
	Phone            string     `json:"phone"`
	Referral         string     `json:"referral,omitempty"`
	Diagnosis        string     `json:"diagnosis"`
	MedicalHistory   string     `json:"medicalHistory"`

	// Biopsychosocial step.
	ICE                string `json:"ice"`
	SocialDeterminants string `json:"socialDeterminants"`
	Chronopathology    string `json:"chronopathology"`
	RedFlags           string `json:"redFlags"`

	// Physical exam step.
	StaticInspection  string `json:"staticInspection"`
	DynamicInspection string `json:"dynamicInspection"`
	Palpation         string `json:"palpation"`
	Auscultation      string `json:"auscultation"`
	Percussion        string `json:"percussion"`

	Attachments []Attachment `json:"attachments"`
	CreatedAt   int64        `json:"createdAt"` // unix millis
}
