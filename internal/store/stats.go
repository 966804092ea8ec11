package store

import (
	"context"
	"os"
)

// Stats holds storage statistics.
type Stats struct {
	Backend       string `json:"backend"`
	Location      string `json:"location"`
	SizeBytes     int64  `json:"size_bytes,omitempty"`
	Patients      int    `json:"patients"`
	Sessions      int    `json:"sessions"`
	Attachments   int    `json:"attachments"`
	PatientsBytes int    `json:"patients_bytes"`
	SessionsBytes int    `json:"sessions_bytes"`
}

// Stats returns storage statistics.
func (c *Collections) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: c.kv.Backend(), Location: c.kv.Location()}

	if st.Backend == "sqlite" {
		if info, err := os.Stat(st.Location); err == nil {
			st.SizeBytes = info.Size()
		}
	}

	for key, n := range map[string]*int{PatientsKey: &st.PatientsBytes, SessionsKey: &st.SessionsBytes} {
		raw, _, err := c.kv.Get(ctx, key)
		if err != nil {
			return st, err
		}
		*n = len(raw)
	}

	patients, sessions := c.Load(ctx)
	st.Patients = len(patients)
	st.Sessions = len(sessions)
	for _, p := range patients {
		st.Attachments += len(p.Attachments)
	}

	return st, nil
}
