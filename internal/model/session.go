package model

import (
	"strconv"
	"strings"
)

const (
	MinPain = 0
	MaxPain = 10

	// DefaultPainDisplay is the value the session form shows when idle.
	DefaultPainDisplay = 5
)

// Session is one clinical visit of a patient.
type Session struct {
	ID           string `json:"id"`
	PatientID    string `json:"patientId"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM
	Objective    string `json:"objective"`
	Treatment    string `json:"treatment"`
	Evolution    string `json:"evolution"`
	Observations string `json:"observations"`
	PainLevel    int    `json:"painLevel"` // VAS 0-10
	PainMapURL   string `json:"painMapUrl,omitempty"`
	PainMapImage string `json:"painMapImage,omitempty"`
	CreatedAt    int64  `json:"createdAt"` // unix millis
}

// ClampPain forces n into the VAS range.
func ClampPain(n int) int {
	if n < MinPain {
		return MinPain
	}
	if n > MaxPain {
		return MaxPain
	}
	return n
}

// ParsePainLevel reads a pain level typed by the user. The leading integer
// of s is used ("7.5" and "7abc" give 7); anything without one gives 0.
func ParsePainLevel(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow: sign decides which bound
		if s[0] == '-' {
			return MinPain
		}
		return MaxPain
	}
	return ClampPain(n)
}
