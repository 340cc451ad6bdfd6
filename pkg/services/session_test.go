package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmartinho/es-outfitter/pkg/config"
	"github.com/rmartinho/es-outfitter/pkg/data"
)

func testConfig(t *testing.T, apiURL, rawURL, format string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = apiURL
	cfg.RawBaseURL = rawURL
	cfg.DBPath = filepath.Join(t.TempDir(), "outfitter.db")
	cfg.Format = format
	cfg.HTTPTimeout = 5 * time.Second
	return cfg
}

func TestSessionPersistsAcrossRuns(t *testing.T) {
	for _, format := range []string{"json", "compact"} {
		t.Run(format, func(t *testing.T) {
			gh := newFakeGitHub(t)
			raw := newFakeRaw(t)
			cfg := testConfig(t, gh.URL, raw.URL, format)

			s, err := OpenSession(cfg, nil)
			require.NoError(t, err)
			assert.Empty(t, s.Dropped)
			assert.Empty(t, s.Controller.Plugins())

			_, err = s.Controller.AddPlugin(context.Background(), "https://github.com/acme/mod")
			require.NoError(t, err)
			waitLoads(t, s.Controller)
			require.NoError(t, s.Close())

			s, err = OpenSession(cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			plugins := s.Controller.Plugins()
			require.Len(t, plugins, 1)
			assert.Equal(t, rootSHA, plugins[0].SHA)
			assert.Contains(t, s.Controller.Data().Ships, "Falcon")
		})
	}
}

func TestSessionDropsUnfinishedLoads(t *testing.T) {
	gh := newFakeGitHub(t)
	raw := newFakeRaw(t)
	cfg := testConfig(t, gh.URL, raw.URL, "json")

	s, err := OpenSession(cfg, nil)
	require.NoError(t, err)

	// Simulate a process that stopped mid-load.
	snap := s.Controller.Snapshot()
	p, err := Identify("https://github.com/acme/mod")
	require.NoError(t, err)
	snap.Plugins = append(snap.Plugins, p)
	snap.Progress[p.URL] = data.LoadProgress{IsLoading: true}
	s.Controller.Restore(snap)
	require.NoError(t, s.Close())

	s, err = OpenSession(cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []string{"https://github.com/acme/mod"}, s.Dropped)
	assert.Empty(t, s.Controller.Plugins())
}

func TestOpenSessionRejectsBadFormat(t *testing.T) {
	cfg := testConfig(t, "https://api.github.com/", "https://raw.githubusercontent.com", "xml")
	_, err := OpenSession(cfg, nil)
	assert.Error(t, err)
}
