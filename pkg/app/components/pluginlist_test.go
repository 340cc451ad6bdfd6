package components

import (
	"strings"
	"testing"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

func item(owner, repo string) PluginListItem {
	return PluginListItem{Plugin: &data.Plugin{
		Owner:   owner,
		Repo:    repo,
		Enabled: true,
		URL:     "https://github.com/" + owner + "/" + repo,
	}}
}

func TestNewPluginList(t *testing.T) {
	list := NewPluginList()

	if list == nil {
		t.Fatal("Expected plugin list to be created")
	}
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}
	if len(list.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(list.Items))
	}
}

func TestSetItems(t *testing.T) {
	list := NewPluginList()

	list.SetItems([]PluginListItem{item("a", "one"), item("a", "two")})

	if len(list.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(list.Items))
	}
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}
}

func TestSetItemsFollowsSelection(t *testing.T) {
	list := NewPluginList()
	list.SetItems([]PluginListItem{item("a", "one"), item("a", "two"), item("a", "three")})
	list.SelectedIndex = 2

	// "one" removed: "three" moves up but stays selected
	list.SetItems([]PluginListItem{item("a", "two"), item("a", "three")})

	if list.SelectedIndex != 1 {
		t.Errorf("Expected SelectedIndex 1, got %d", list.SelectedIndex)
	}
	if got := list.Selected().Plugin.Repo; got != "three" {
		t.Errorf("Expected 'three' selected, got %s", got)
	}
}

func TestSetItemsResetsSelection(t *testing.T) {
	list := NewPluginList()
	list.SetItems([]PluginListItem{item("a", "one"), item("a", "two"), item("a", "three")})
	list.SelectedIndex = 2

	list.SetItems([]PluginListItem{item("a", "one")})

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to be reset to 0, got %d", list.SelectedIndex)
	}
}

func TestNextPrevWrap(t *testing.T) {
	list := NewPluginList()
	list.SetItems([]PluginListItem{item("a", "one"), item("a", "two"), item("a", "three")})

	list.Next()
	list.Next()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected SelectedIndex 2, got %d", list.SelectedIndex)
	}
	list.Next()
	if list.SelectedIndex != 0 {
		t.Errorf("Expected wrap to 0, got %d", list.SelectedIndex)
	}
	list.Prev()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected wrap to 2, got %d", list.SelectedIndex)
	}
}

func TestEmptyList(t *testing.T) {
	list := NewPluginList()

	list.Next()
	list.Prev()

	if list.Selected() != nil {
		t.Error("Expected nil selection for empty list")
	}
	if !strings.Contains(list.View(), "No plugins yet") {
		t.Error("Expected empty message")
	}
}

func TestView(t *testing.T) {
	list := NewPluginList()

	base := item("endless-sky", "endless-sky")
	base.Plugin.IsBase = true
	base.Plugin.Branch = "master"
	base.Plugin.SHA = "0123456789abcdef0123456789abcdef01234567"
	base.Ships = 12

	mod := item("someone", "mod")
	mod.Plugin.Dir = "plugins/mod"
	mod.Plugin.Enabled = false
	mod.Progress = data.LoadProgress{Error: "not found"}

	list.SetItems([]PluginListItem{base, mod})
	view := list.View()

	for _, want := range []string{
		"endless-sky/endless-sky (base game)",
		"master@0123456",
		"Ships: 12",
		"someone/mod/plugins/mod",
		"Error: not found",
		"disabled",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}
