package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinai/kinai/internal/model"
)

// flakyKV fails every Get while failGet is set.
type flakyKV struct {
	KV
	failGet bool
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("i/o timeout")
	}
	return f.KV.Get(ctx, key)
}

func newFlakyCollections(t *testing.T) (*Collections, *flakyKV) {
	t.Helper()
	kv := &flakyKV{KV: newTestKV(t)}
	return NewCollections(kv, zerolog.Nop()), kv
}

func TestReadErrorBlocksOverwrite(t *testing.T) {
	ctx := context.Background()
	c, kv := newFlakyCollections(t)
	require.NoError(t, c.SavePatients(ctx, samplePatients()))

	kv.failGet = true
	patients, _ := c.Load(ctx)
	assert.Empty(t, patients)
	assert.True(t, c.ReadFailed())

	err := c.SavePatients(ctx, []model.Patient{{ID: "new"}})
	assert.ErrorIs(t, err, ErrReadFailed)

	kv.failGet = false
	patients, _ = c.Load(ctx)
	assert.Equal(t, samplePatients(), patients)
	assert.False(t, c.ReadFailed())
	require.NoError(t, c.SavePatients(ctx, append(patients, model.Patient{ID: "new"})))
}

func TestImportRefusedAfterReadError(t *testing.T) {
	ctx := context.Background()
	c, kv := newFlakyCollections(t)
	require.NoError(t, c.SavePatients(ctx, samplePatients()))

	kv.failGet = true
	_, err := c.ImportBackup(ctx, Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now(),
		Patients:   []model.Patient{{ID: "imported", FullName: "Nuevo"}},
	})
	assert.ErrorIs(t, err, ErrReadFailed)

	kv.failGet = false
	patients, _ := c.Load(ctx)
	assert.Len(t, patients, 2)
}

func TestMissingCollectionDoesNotBlockSave(t *testing.T) {
	ctx := context.Background()
	c, _ := newFlakyCollections(t)

	patients, _ := c.Load(ctx)
	assert.Empty(t, patients)
	assert.False(t, c.ReadFailed())
	require.NoError(t, c.SavePatients(ctx, samplePatients()))
}
