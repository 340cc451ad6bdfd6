package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

type mockLister struct {
	delay time.Duration
}

func (m *mockLister) ListDataFiles(ctx context.Context, p *data.Plugin) ([]string, error) {
	time.Sleep(m.delay)
	p.Branch = "master"
	p.SHA = "sha-" + p.Repo
	return nil, nil
}

type mockFetcher struct{}

func (mockFetcher) GetText(ctx context.Context, url string) (string, error) {
	return "", errors.New("unexpected fetch of " + url)
}

func newTestController(delay time.Duration) *services.Controller {
	return services.NewController(&mockLister{delay: delay}, services.NewLoader(mockFetcher{}, nil, "", 2))
}

func TestAddPluginsRejectsInvalidBeforeLoading(t *testing.T) {
	c := newTestController(0)

	err := addPlugins(context.Background(), c, []string{
		"https://github.com/acme/good",
		"not a url",
	}, true)

	assert.ErrorIs(t, err, services.ErrInvalidSourceURL)
	assert.Empty(t, c.Plugins(), "nothing is added when any url is invalid")
	assert.Equal(t, 0, c.Loading())
}

func TestAddPluginsWaitsForLoads(t *testing.T) {
	c := newTestController(20 * time.Millisecond)

	err := addPlugins(context.Background(), c, []string{
		"https://github.com/acme/one",
		"https://github.com/acme/two",
	}, false)
	require.NoError(t, err)

	plugins := c.Plugins()
	require.Len(t, plugins, 2)
	assert.Equal(t, 0, c.Loading())
	for _, p := range plugins {
		st, ok := c.State(p.URL)
		require.True(t, ok)
		assert.False(t, st.IsLoading(), p.URL)
		assert.Equal(t, "sha-"+p.Repo, p.SHA)
	}
}

func TestAddPluginsWithBase(t *testing.T) {
	c := newTestController(0)

	require.NoError(t, addPlugins(context.Background(), c, []string{"https://github.com/acme/one"}, true))

	plugins := c.Plugins()
	require.Len(t, plugins, 2)
	assert.True(t, plugins[0].IsBase)
	assert.Equal(t, "https://github.com/acme/one", plugins[1].URL)

	// adding again starts nothing new
	require.NoError(t, addPlugins(context.Background(), c, []string{"https://github.com/acme/one"}, true))
	assert.Len(t, c.Plugins(), 2)
}
