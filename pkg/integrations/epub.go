package integrations

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-shiori/go-epub"
	"golang.org/x/sync/errgroup"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

// ImageFetcher downloads thumbnail images.
type ImageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// DefaultImageConcurrency bounds concurrent thumbnail downloads.
const DefaultImageConcurrency = 8

// CatalogBuilder writes the aggregate dataset as an EPUB catalog.
type CatalogBuilder struct {
	outputDir   string
	images      ImageFetcher
	thumbs      *ThumbnailProcessor
	concurrency int
}

// NewCatalogBuilder writes catalogs to outputDir. With a nil fetcher the
// catalog is text only.
func NewCatalogBuilder(outputDir string, images ImageFetcher, thumbs *ThumbnailProcessor) *CatalogBuilder {
	if thumbs == nil {
		thumbs = NewThumbnailProcessor(DefaultThumbnailSettings())
	}
	return &CatalogBuilder{
		outputDir:   outputDir,
		images:      images,
		thumbs:      thumbs,
		concurrency: DefaultImageConcurrency,
	}
}

// SetConcurrency bounds how many thumbnails are downloaded at once.
func (b *CatalogBuilder) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	b.concurrency = n
}

type entry struct {
	name      string
	details   []string
	thumbnail string
}

// CreateCatalog compiles ships, variants and outfits into one EPUB and
// returns its path. Thumbnails that fail to download are left out.
func (b *CatalogBuilder) CreateCatalog(ctx context.Context, title string, d *data.PluginData) (string, error) {
	if d == nil || len(d.Ships)+len(d.Variants)+len(d.Outfits) == 0 {
		return "", fmt.Errorf("no records to export")
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	workDir, err := os.MkdirTemp("", "outfitter-epub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor("es-outfitter")
	e.SetDescription(fmt.Sprintf("%d ships, %d variants, %d outfits",
		len(d.Ships), len(d.Variants), len(d.Outfits)))
	e.SetLang("en")

	sections := []struct {
		title   string
		entries []entry
	}{
		{"Ships", shipEntries(d)},
		{"Variants", variantEntries(d)},
		{"Outfits", outfitEntries(d)},
	}
	var urls []string
	for _, s := range sections {
		for _, en := range s.entries {
			urls = append(urls, en.thumbnail)
		}
	}
	fitted, err := b.fetchThumbnails(ctx, urls)
	if err != nil {
		return "", err
	}

	embedded := make(map[string]string)
	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		if err := b.addSection(e, workDir, s.title, s.entries, fitted, embedded); err != nil {
			return "", fmt.Errorf("failed to add %s: %w", strings.ToLower(s.title), err)
		}
	}

	outputPath := filepath.Join(b.outputDir, sanitizeFilename(title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func (b *CatalogBuilder) addSection(e *epub.Epub, workDir, title string, entries []entry, fitted map[string][]byte, embedded map[string]string) error {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title)))

	for _, en := range entries {
		body.WriteString(`<div class="record">`)
		body.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(en.name)))

		if src := b.addThumbnail(e, workDir, en.thumbnail, fitted, embedded); src != "" {
			body.WriteString(fmt.Sprintf(`<img src="%s" alt="%s"/>`, src, html.EscapeString(en.name)))
		}
		if len(en.details) > 0 {
			body.WriteString("<ul>")
			for _, d := range en.details {
				body.WriteString("<li>" + html.EscapeString(d) + "</li>")
			}
			body.WriteString("</ul>")
		}
		body.WriteString("</div>\n")
	}

	_, err := e.AddSection(body.String(), title, "", "")
	return err
}

// fetchThumbnails downloads and fits every distinct thumbnail URL with
// bounded concurrency. Images that fail to download or decode are left out.
func (b *CatalogBuilder) fetchThumbnails(ctx context.Context, urls []string) (map[string][]byte, error) {
	fitted := make(map[string][]byte)
	if b.images == nil {
		return fitted, nil
	}

	seen := make(map[string]bool)
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		g.Go(func() error {
			raw, err := b.images.Get(ctx, url)
			if err != nil {
				return nil
			}
			img, err := b.thumbs.FitData(raw)
			if err != nil {
				return nil
			}
			mu.Lock()
			fitted[url] = img
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch thumbnails: %w", err)
	}
	return fitted, nil
}

// addThumbnail embeds the fitted image for url once and returns its internal
// path, or "" when there is no usable image.
func (b *CatalogBuilder) addThumbnail(e *epub.Epub, workDir, url string, fitted map[string][]byte, embedded map[string]string) string {
	if internal, ok := embedded[url]; ok {
		return internal
	}
	img, ok := fitted[url]
	if !ok {
		return ""
	}

	name := fmt.Sprintf("thumb-%04d%s", len(embedded)+1, b.thumbs.Extension())
	path := filepath.Join(workDir, name)
	if err := os.WriteFile(path, img, 0644); err != nil {
		return ""
	}
	internal, err := e.AddImage(path, name)
	if err != nil {
		return ""
	}
	embedded[url] = internal
	return internal
}

func shipEntries(d *data.PluginData) []entry {
	out := make([]entry, 0, len(d.Ships))
	for _, s := range d.Ships {
		out = append(out, entry{
			name: s.Name,
			details: []string{
				"Category: " + s.Category,
				fmt.Sprintf("Guns: %d, Turrets: %d, Bays: %d", s.Guns, s.Turrets, s.Bays),
			},
			thumbnail: s.Thumbnail,
		})
	}
	return sortEntries(out)
}

func variantEntries(d *data.PluginData) []entry {
	out := make([]entry, 0, len(d.Variants))
	for _, v := range d.Variants {
		details := []string{"Variant of " + v.Base}
		for _, m := range []struct {
			label string
			n     *int
		}{{"Guns", v.Guns}, {"Turrets", v.Turrets}, {"Bays", v.Bays}} {
			if m.n != nil {
				details = append(details, fmt.Sprintf("%s: %d", m.label, *m.n))
			}
		}
		keys := make([]string, 0, len(v.Attributes))
		for k := range v.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			details = append(details, k+": "+v.Attributes[k])
		}
		out = append(out, entry{name: v.Name, details: details, thumbnail: v.Thumbnail})
	}
	return sortEntries(out)
}

func outfitEntries(d *data.PluginData) []entry {
	out := make([]entry, 0, len(d.Outfits))
	for _, o := range d.Outfits {
		out = append(out, entry{
			name:      o.Name,
			details:   []string{"Category: " + o.Category},
			thumbnail: o.Thumbnail,
		})
	}
	return sortEntries(out)
}

func sortEntries(entries []entry) []entry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})
	return entries
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		result = "catalog"
	}
	return result
}
