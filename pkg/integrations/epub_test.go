package integrations

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

type mockImages struct {
	getFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockImages) Get(ctx context.Context, url string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return nil, errors.New("not found")
}

func sampleData() *data.PluginData {
	three := 3
	d := data.NewPluginData()
	d.Ships["Falcon"] = &data.Ship{Name: "Falcon", Category: "Light Warship", Thumbnail: "https://raw/falcon.png", Guns: 2, Turrets: 1}
	d.Ships["Bulk Freighter"] = &data.Ship{Name: "Bulk Freighter", Category: "Heavy Freighter", Thumbnail: "https://raw/missing.png"}
	d.Variants["Falcon (Heavy)"] = &data.Variant{Base: "Falcon", Name: "Falcon (Heavy)", Guns: &three,
		Attributes: map[string]string{"category": "Heavy Warship"}}
	d.Outfits["Heavy Laser <Mk II>"] = &data.Outfit{Name: "Heavy Laser <Mk II>", Category: "Guns"}
	return d
}

func readEPub(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	files := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(b)
	}
	return files
}

func TestCreateCatalog(t *testing.T) {
	outputDir := t.TempDir()
	png := testPNG(t, 400, 400)
	images := &mockImages{getFunc: func(ctx context.Context, url string) ([]byte, error) {
		if url == "https://raw/falcon.png" {
			return png, nil
		}
		return nil, errors.New("404")
	}}

	b := NewCatalogBuilder(outputDir, images, nil)
	path, err := b.CreateCatalog(context.Background(), "Fleet: acme/mod", sampleData())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "Fleet_ acme_mod.epub"), path)

	files := readEPub(t, path)
	var pngs, text []string
	for name, body := range files {
		if strings.HasSuffix(name, ".png") {
			pngs = append(pngs, name)
		}
		if strings.HasSuffix(name, ".xhtml") {
			text = append(text, body)
		}
	}
	require.Len(t, pngs, 1, "only the fetchable thumbnail is embedded")

	w, h, _ := decodeSize(t, []byte(files[pngs[0]]))
	assert.Equal(t, 240, w)
	assert.Equal(t, 240, h)

	all := strings.Join(text, "\n")
	assert.Contains(t, all, "Bulk Freighter")
	assert.Contains(t, all, "Guns: 2, Turrets: 1, Bays: 0")
	assert.Contains(t, all, "Variant of Falcon")
	assert.Contains(t, all, "category: Heavy Warship")
	assert.Contains(t, all, "Heavy Laser &lt;Mk II&gt;")
}

func TestCreateCatalogFetchesThumbnailsConcurrently(t *testing.T) {
	png := testPNG(t, 64, 64)
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	calls := make(map[string]int)
	images := &mockImages{getFunc: func(ctx context.Context, url string) ([]byte, error) {
		mu.Lock()
		calls[url]++
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(30 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return png, nil
	}}

	d := data.NewPluginData()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		d.Ships[name] = &data.Ship{Name: name, Thumbnail: "https://raw/" + name + ".png"}
	}
	// shares its thumbnail with ship A
	d.Outfits["A Copy"] = &data.Outfit{Name: "A Copy", Thumbnail: "https://raw/A.png"}

	b := NewCatalogBuilder(t.TempDir(), images, nil)
	b.SetConcurrency(2)
	path, err := b.CreateCatalog(context.Background(), "catalog", d)
	require.NoError(t, err)

	assert.Equal(t, 2, maxInFlight)
	assert.Len(t, calls, 5)
	assert.Equal(t, 1, calls["https://raw/A.png"], "shared thumbnails are fetched once")

	var pngs int
	for name := range readEPub(t, path) {
		if strings.HasSuffix(name, ".png") {
			pngs++
		}
	}
	assert.Equal(t, 5, pngs, "shared thumbnails are embedded once")
}

func TestCreateCatalogCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	images := &mockImages{getFunc: func(ctx context.Context, url string) ([]byte, error) {
		return nil, ctx.Err()
	}}

	b := NewCatalogBuilder(t.TempDir(), images, nil)
	_, err := b.CreateCatalog(ctx, "catalog", sampleData())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreateCatalogWithoutImages(t *testing.T) {
	b := NewCatalogBuilder(t.TempDir(), nil, nil)
	path, err := b.CreateCatalog(context.Background(), "catalog", sampleData())
	require.NoError(t, err)

	for name := range readEPub(t, path) {
		assert.False(t, strings.HasSuffix(name, ".png"), name)
	}
}

func TestCreateCatalogEmpty(t *testing.T) {
	b := NewCatalogBuilder(t.TempDir(), &mockImages{}, nil)
	_, err := b.CreateCatalog(context.Background(), "catalog", data.NewPluginData())
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeFilename("a/b:c"))
	assert.Equal(t, "catalog", sanitizeFilename(" .. "))
}
