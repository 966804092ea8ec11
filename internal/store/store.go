// Package store persists the patient and session collections in a durable
// key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kinai/kinai/internal/model"
)

// Fixed logical names of the two persisted collections.
const (
	PatientsKey = "kinai_patients"
	SessionsKey = "kinai_sessions"
)

// ErrReadFailed is returned by saves of a collection whose last read hit a
// backend error. Overwriting it would replace records that could not be seen.
var ErrReadFailed = errors.New("collection could not be read")

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value under key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error

	// Backend names the implementation ("sqlite", "redis").
	Backend() string

	// Location describes where data lives (file path or address).
	Location() string

	// Close releases the backend.
	Close() error
}

// Collections reads and writes the patient and session collections as JSON
// blobs, one per key, always overwriting the whole collection.
type Collections struct {
	kv  KV
	log zerolog.Logger

	mu     sync.Mutex
	failed map[string]bool
}

// NewCollections wraps kv.
func NewCollections(kv KV, log zerolog.Logger) *Collections {
	return &Collections{kv: kv, log: log, failed: make(map[string]bool)}
}

// KV returns the underlying backend.
func (c *Collections) KV() KV { return c.kv }

// Load reads both collections. It never fails: a missing, unreadable or
// malformed blob is treated as an empty collection. A backend read error
// also yields an empty collection, but marks it so that saving it is
// refused until a later Load reads it successfully.
func (c *Collections) Load(ctx context.Context) ([]model.Patient, []model.Session) {
	return loadCollection[model.Patient](ctx, c, PatientsKey),
		loadCollection[model.Session](ctx, c, SessionsKey)
}

func loadCollection[T any](ctx context.Context, c *Collections, key string) []T {
	raw, found, err := c.kv.Get(ctx, key)
	c.setFailed(key, err != nil)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("read failed, starting empty")
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("stored data unreadable, starting empty")
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// SavePatients overwrites the stored patient collection.
func (c *Collections) SavePatients(ctx context.Context, patients []model.Patient) error {
	if patients == nil {
		patients = []model.Patient{}
	}
	return c.save(ctx, PatientsKey, patients, len(patients))
}

// SaveSessions overwrites the stored session collection.
func (c *Collections) SaveSessions(ctx context.Context, sessions []model.Session) error {
	if sessions == nil {
		sessions = []model.Session{}
	}
	return c.save(ctx, SessionsKey, sessions, len(sessions))
}

func (c *Collections) setFailed(key string, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[key] = failed
}

// ReadFailed reports whether the last read of either collection hit a
// backend error.
func (c *Collections) ReadFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[PatientsKey] || c.failed[SessionsKey]
}

func (c *Collections) save(ctx context.Context, key string, v any, n int) error {
	c.mu.Lock()
	failed := c.failed[key]
	c.mu.Unlock()
	if failed {
		return fmt.Errorf("write %s: %w", key, ErrReadFailed)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	c.log.Debug().Str("key", key).Int("records", n).Int("bytes", len(b)).Msg("saved")
	return nil
}

// Close closes the backend.
func (c *Collections) Close() error {
	return c.kv.Close()
}
