package data

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleSnapshot() *Snapshot {
	s := NewSnapshot()
	for _, url := range []string{"https://github.com/a/done", "https://github.com/b/loading", "https://github.com/c/missing"} {
		s.Plugins = append(s.Plugins, &Plugin{URL: url, Enabled: true})
		d := NewPluginData()
		d.Ships["Falcon"] = &Ship{Name: "Falcon", Category: "Light", Thumbnail: "x", Guns: 2}
		s.Data[url] = d
	}
	s.Progress["https://github.com/a/done"] = LoadProgress{Progress: 1, Total: intPtr(1)}
	s.Progress["https://github.com/b/loading"] = LoadProgress{IsLoading: true, Progress: 1, Total: intPtr(3)}
	return s
}

func TestReconcileDropsIncompleteLoads(t *testing.T) {
	s := sampleSnapshot()

	dropped := s.Reconcile()

	assert.ElementsMatch(t, []string{"https://github.com/b/loading", "https://github.com/c/missing"}, dropped)
	require.Len(t, s.Plugins, 1)
	assert.Equal(t, "https://github.com/a/done", s.Plugins[0].URL)
	assert.NotContains(t, s.Data, "https://github.com/b/loading")
	assert.NotContains(t, s.Progress, "https://github.com/b/loading")
}

func TestReconcileDropsFailedLoads(t *testing.T) {
	s := NewSnapshot()
	s.Plugins = []*Plugin{{URL: "u"}}
	s.Progress["u"] = LoadProgress{Error: "fetch failed"}

	dropped := s.Reconcile()

	assert.Equal(t, []string{"u"}, dropped)
	assert.Empty(t, s.Plugins)
}

func TestReconcileKeepsOrder(t *testing.T) {
	s := NewSnapshot()
	for _, url := range []string{"1", "2", "3", "4"} {
		s.Plugins = append(s.Plugins, &Plugin{URL: url})
		s.Progress[url] = LoadProgress{}
	}
	s.Progress["2"] = LoadProgress{IsLoading: true}

	s.Reconcile()

	urls := make([]string, 0, len(s.Plugins))
	for _, p := range s.Plugins {
		urls = append(urls, p.URL)
	}
	assert.Equal(t, []string{"1", "3", "4"}, urls)
}

func TestCodecs(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatCompact} {
		t.Run(string(format), func(t *testing.T) {
			codec, err := NewCodec(format)
			require.NoError(t, err)
			assert.Equal(t, format, codec.Format())

			in := sampleSnapshot()
			in.Data["https://github.com/a/done"].Variants["Falcon (Plasma)"] = &Variant{
				Base: "Falcon", Name: "Falcon (Plasma)", Guns: intPtr(3),
			}

			b, err := codec.Encode(in)
			require.NoError(t, err)

			out, err := codec.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestJSONCodecIsReadable(t *testing.T) {
	codec, _ := NewCodec(FormatJSON)
	b, err := codec.Encode(sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, string(b), `"isLoading": true`)
	assert.Contains(t, string(b), "\n  ")
}

func TestCompactCodecIsSmaller(t *testing.T) {
	s := sampleSnapshot()
	for i := 0; i < 200; i++ {
		name := string(rune('A'+i%26)) + string(rune('a'+i/26))
		s.Data["https://github.com/a/done"].Outfits[name] = &Outfit{Name: name, Category: "Systems"}
	}

	jsonCodec, _ := NewCodec(FormatJSON)
	compact, _ := NewCodec(FormatCompact)
	plain, _ := jsonCodec.Encode(s)
	packed, _ := compact.Encode(s)

	assert.Less(t, len(packed), len(plain))
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewCodec("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestDecodeFillsMissingMaps(t *testing.T) {
	codec, _ := NewCodec(FormatJSON)
	s, err := codec.Decode([]byte(`{"plugins":[{"url":"u"}],"pluginData":{"u":{"ships":{}}}}`))
	require.NoError(t, err)

	assert.NotNil(t, s.Progress)
	assert.NotNil(t, s.Data["u"].Variants)
	assert.NotNil(t, s.Data["u"].Outfits)
}
