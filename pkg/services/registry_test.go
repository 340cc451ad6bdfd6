package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		url  string
		want data.Plugin
	}{
		{
			url:  "https://github.com/acme/mod",
			want: data.Plugin{Owner: "acme", Repo: "mod"},
		},
		{
			url:  "https://github.com/acme/mod/tree/develop",
			want: data.Plugin{Owner: "acme", Repo: "mod", Branch: "develop"},
		},
		{
			url:  "https://github.com/acme/mods/tree/main/plugins/falcon",
			want: data.Plugin{Owner: "acme", Repo: "mods", Branch: "main", Dir: "plugins/falcon"},
		},
		{
			url:  "https://github.com//acme//mod/tree/main//deep/",
			want: data.Plugin{Owner: "acme", Repo: "mod", Branch: "main", Dir: "deep"},
		},
		{
			url:  "https://github.com/endless-sky/endless-sky",
			want: data.Plugin{Owner: "endless-sky", Repo: "endless-sky", IsBase: true},
		},
		{
			url:  "https://github.com/endless-sky/endless-sky-plugins",
			want: data.Plugin{Owner: "endless-sky", Repo: "endless-sky-plugins"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := Identify(tt.url)
			require.NoError(t, err)

			want := tt.want
			want.URL = tt.url
			want.Enabled = true
			assert.Equal(t, &want, got)
		})
	}
}

func TestIdentifyInvalid(t *testing.T) {
	for _, url := range []string{
		"",
		"acme/mod",
		"https://github.com/",
		"https://github.com/acme",
		"://github.com/acme/mod",
	} {
		t.Run(url, func(t *testing.T) {
			_, err := Identify(url)
			assert.ErrorIs(t, err, ErrInvalidSourceURL)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &data.Plugin{URL: "a", Enabled: true}
	b := &data.Plugin{URL: "b", Enabled: true}
	c := &data.Plugin{URL: "c", Enabled: true, IsBase: true}

	assert.True(t, r.Add(a))
	assert.True(t, r.Add(b))
	assert.False(t, r.Add(&data.Plugin{URL: "a"}))
	assert.True(t, r.Add(c))
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.HasBase())

	assert.Equal(t, 1, r.Index("b"))
	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, pluginURLs(r.List()))

	require.NoError(t, r.SetEnabled("a", false))
	p, ok := r.Get("a")
	require.True(t, ok)
	assert.False(t, p.Enabled)
	assert.ErrorIs(t, r.SetEnabled("zzz", true), ErrPluginNotFound)
}

func TestRegistryListReturnsCopies(t *testing.T) {
	r := NewRegistry()
	r.Add(&data.Plugin{URL: "a", Enabled: true})

	list := r.List()
	list[0].Enabled = false

	p, _ := r.Get("a")
	assert.True(t, p.Enabled)
}

func TestRegistryUpdateRefKeepsSHA(t *testing.T) {
	r := NewRegistry()
	r.Add(&data.Plugin{URL: "a", SHA: "old"})

	r.UpdateRef("a", "main", "new")
	p, _ := r.Get("a")
	assert.Equal(t, "main", p.Branch)
	assert.Equal(t, "old", p.SHA)
}

func pluginURLs(plugins []*data.Plugin) []string {
	out := make([]string, len(plugins))
	for i, p := range plugins {
		out[i] = p.URL
	}
	return out
}
