package data

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"
)

// Snapshot is the persisted shape of the plugin store.
type Snapshot struct {
	Plugins  []*Plugin               `json:"plugins"`
	Data     map[string]*PluginData  `json:"pluginData"`
	Progress map[string]LoadProgress `json:"loadState"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Data:     make(map[string]*PluginData),
		Progress: make(map[string]LoadProgress),
	}
}

// Reconcile drops every plugin whose load never completed successfully in
// the process that wrote the snapshot: no progress record, still loading,
// or failed. It returns the URLs it removed.
func (s *Snapshot) Reconcile() []string {
	var dropped []string
	kept := s.Plugins[:0]
	for _, p := range s.Plugins {
		progress, ok := s.Progress[p.URL]
		if !ok || progress.IsLoading || progress.Failed() {
			dropped = append(dropped, p.URL)
			delete(s.Data, p.URL)
			delete(s.Progress, p.URL)
			continue
		}
		kept = append(kept, p)
	}
	s.Plugins = kept
	return dropped
}

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// Codec serializes snapshots.
type Codec interface {
	Format() Format
	Encode(s *Snapshot) ([]byte, error)
	Decode(b []byte) (*Snapshot, error)
}

// NewCodec resolves a format name once at startup.
func NewCodec(format Format) (Codec, error) {
	switch format {
	case FormatJSON, "":
		return jsonCodec{}, nil
	case FormatCompact:
		return newCompactCodec()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonCodec struct{}

func (jsonCodec) Format() Format { return FormatJSON }

func (jsonCodec) Encode(s *Snapshot) ([]byte, error) {
	return jsonAPI.MarshalIndent(s, "", "  ")
}

func (jsonCodec) Decode(b []byte) (*Snapshot, error) {
	return decodeSnapshot(b)
}

// compactCodec is JSON without whitespace, zstd-compressed.
type compactCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCompactCodec() (*compactCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &compactCodec{enc: enc, dec: dec}, nil
}

func (c *compactCodec) Format() Format { return FormatCompact }

func (c *compactCodec) Encode(s *Snapshot) ([]byte, error) {
	raw, err := jsonAPI.Marshal(s)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, nil), nil
}

func (c *compactCodec) Decode(b []byte) (*Snapshot, error) {
	raw, err := c.dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	return decodeSnapshot(raw)
}

func decodeSnapshot(b []byte) (*Snapshot, error) {
	s := NewSnapshot()
	if err := jsonAPI.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Data == nil {
		s.Data = make(map[string]*PluginData)
	}
	if s.Progress == nil {
		s.Progress = make(map[string]LoadProgress)
	}
	for _, d := range s.Data {
		ensureMaps(d)
	}
	return s, nil
}

func ensureMaps(d *PluginData) {
	if d == nil {
		return
	}
	if d.Ships == nil {
		d.Ships = make(map[string]*Ship)
	}
	if d.Variants == nil {
		d.Variants = make(map[string]*Variant)
	}
	if d.Outfits == nil {
		d.Outfits = make(map[string]*Outfit)
	}
}
