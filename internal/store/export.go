package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kinai/kinai/internal/model"
)

// BackupVersion is the current backup document version.
const BackupVersion = 1

// Backup is a full copy of both collections.
type Backup struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Patients   []model.Patient `json:"patients"`
	Sessions   []model.Session `json:"sessions"`
}

// ImportResult counts what an import added.
type ImportResult struct {
	Patients int `json:"patients"`
	Sessions int `json:"sessions"`
	Skipped  int `json:"skipped"`
}

// ExportBackup returns every stored record.
func (c *Collections) ExportBackup(ctx context.Context, now time.Time) Backup {
	patients, sessions := c.Load(ctx)
	return Backup{
		Version:    BackupVersion,
		ExportedAt: now.UTC(),
		Patients:   patients,
		Sessions:   sessions,
	}
}

// ImportBackup appends the records of b whose IDs are not stored yet.
// Existing records are never overwritten.
func (c *Collections) ImportBackup(ctx context.Context, b Backup) (ImportResult, error) {
	var res ImportResult
	if b.Version > BackupVersion {
		return res, fmt.Errorf("unsupported backup version %d", b.Version)
	}

	patients, sessions := c.Load(ctx)
	if c.ReadFailed() {
		return res, fmt.Errorf("import: %w", ErrReadFailed)
	}

	seen := make(map[string]bool, len(patients)+len(sessions))
	for _, p := range patients {
		seen[p.ID] = true
	}
	for _, s := range sessions {
		seen[s.ID] = true
	}

	for _, p := range b.Patients {
		if p.ID == "" || seen[p.ID] {
			res.Skipped++
			continue
		}
		seen[p.ID] = true
		patients = append(patients, p)
		res.Patients++
	}
	for _, s := range b.Sessions {
		if s.ID == "" || seen[s.ID] {
			res.Skipped++
			continue
		}
		seen[s.ID] = true
		s.PainLevel = model.ClampPain(s.PainLevel)
		sessions = append(sessions, s)
		res.Sessions++
	}

	if res.Patients > 0 {
		if err := c.SavePatients(ctx, patients); err != nil {
			return res, err
		}
	}
	if res.Sessions > 0 {
		if err := c.SaveSessions(ctx, sessions); err != nil {
			return res, err
		}
	}
	return res, nil
}
