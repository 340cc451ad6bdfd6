package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	rows map[string]*StoredSnapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]*StoredSnapshot)}
}

func (m *memoryStore) SaveSnapshot(key string, format Format, payload []byte) error {
	m.rows[key] = &StoredSnapshot{Key: key, Format: format, Payload: payload}
	return nil
}

func (m *memoryStore) LoadSnapshot(key string) (*StoredSnapshot, error) {
	s, ok := m.rows[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return s, nil
}

func TestPersistenceRestoreEmpty(t *testing.T) {
	codec, _ := NewCodec(FormatJSON)
	p := NewPersistence(newMemoryStore(), codec, "")

	s, dropped, err := p.Restore()

	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Empty(t, s.Plugins)
}

func TestPersistenceRestoreReconciles(t *testing.T) {
	codec, _ := NewCodec(FormatCompact)
	p := NewPersistence(newMemoryStore(), codec, "")
	require.NoError(t, p.Save(sampleSnapshot()))

	s, dropped, err := p.Restore()

	require.NoError(t, err)
	assert.Len(t, dropped, 2)
	require.Len(t, s.Plugins, 1)
	assert.Equal(t, "https://github.com/a/done", s.Plugins[0].URL)
}

func TestPersistenceRestoreAcrossFormats(t *testing.T) {
	store := newMemoryStore()
	jsonCodec, _ := NewCodec(FormatJSON)
	require.NoError(t, NewPersistence(store, jsonCodec, "k").Save(sampleSnapshot()))

	compact, _ := NewCodec(FormatCompact)
	s, _, err := NewPersistence(store, compact, "k").Restore()

	require.NoError(t, err)
	assert.Len(t, s.Plugins, 1)
}

func TestPersistenceWithDuckDB(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	codec, _ := NewCodec(FormatCompact)
	p := NewPersistence(repo, codec, DefaultSnapshotKey)
	require.NoError(t, p.Save(sampleSnapshot()))

	s, _, err := p.Restore()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Data["https://github.com/a/done"].Ships["Falcon"].Guns)
}
