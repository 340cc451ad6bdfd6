package services

import (
	"slices"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/sources"
)

// HiddenCategories are ship categories used for test and unfinished ships.
var HiddenCategories = []string{"Unclassified", "Unclassified Minor"}

// IsDegenerateVariant reports whether v only restates its base ship.
func IsDegenerateVariant(v *data.Variant) bool {
	return isZero(v.Guns) && isZero(v.Turrets) && isZero(v.Bays) &&
		v.Thumbnail == "" && len(v.Attributes) == 0
}

func isZero(n *int) bool {
	return n == nil || *n == 0
}

func isHiddenShip(s *data.Ship) bool {
	return s.Category == "" || s.Thumbnail == "" || slices.Contains(HiddenCategories, s.Category)
}

// ThumbnailURL maps a thumbnail token to its image under the plugin root.
func ThumbnailURL(rawBase string, p *data.Plugin, token string) string {
	return sources.RawURL(rawBase, p.Owner, p.Repo, p.SHA, p.Dir, "images/"+token+".png")
}

// TransformPluginData filters out records that are not meant to be shown and
// rewrites thumbnails into absolute URLs. d is modified in place.
func TransformPluginData(d *data.PluginData, p *data.Plugin, rawBase string) *data.PluginData {
	for name, v := range d.Variants {
		if IsDegenerateVariant(v) {
			delete(d.Variants, name)
			continue
		}
		if v.Thumbnail != "" {
			v.Thumbnail = ThumbnailURL(rawBase, p, v.Thumbnail)
		}
	}

	for name, s := range d.Ships {
		if isHiddenShip(s) {
			delete(d.Ships, name)
			continue
		}
		s.Thumbnail = ThumbnailURL(rawBase, p, s.Thumbnail)
	}

	for name, o := range d.Outfits {
		if o.Category == "" {
			delete(d.Outfits, name)
			continue
		}
		if o.Thumbnail != "" {
			o.Thumbnail = ThumbnailURL(rawBase, p, o.Thumbnail)
		}
	}

	return d
}
