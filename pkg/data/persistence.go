package data

import (
	"errors"
	"fmt"
)

// DefaultSnapshotKey is the row the game data store is persisted under.
const DefaultSnapshotKey = "game-data"

// SnapshotStore is the storage backend used by Persistence.
type SnapshotStore interface {
	SaveSnapshot(key string, format Format, payload []byte) error
	LoadSnapshot(key string) (*StoredSnapshot, error)
}

// Persistence writes snapshots with the configured codec and restores them,
// reconciling away interrupted loads.
type Persistence struct {
	store SnapshotStore
	codec Codec
	key   string
}

func NewPersistence(store SnapshotStore, codec Codec, key string) *Persistence {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &Persistence{store: store, codec: codec, key: key}
}

func (p *Persistence) Save(s *Snapshot) error {
	payload, err := p.codec.Encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return p.store.SaveSnapshot(p.key, p.codec.Format(), payload)
}

// Restore loads and reconciles the stored snapshot. A missing snapshot yields
// an empty one. Snapshots written in another format are decoded with the
// codec they were written with.
func (p *Persistence) Restore() (*Snapshot, []string, error) {
	stored, err := p.store.LoadSnapshot(p.key)
	if errors.Is(err, ErrSnapshotNotFound) {
		return NewSnapshot(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	codec := p.codec
	if stored.Format != codec.Format() {
		if codec, err = NewCodec(stored.Format); err != nil {
			return nil, nil, err
		}
	}

	s, err := codec.Decode(stored.Payload)
	if err != nil {
		return nil, nil, err
	}
	dropped := s.Reconcile()
	return s, dropped, nil
}
