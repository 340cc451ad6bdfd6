package data

// Plugin identifies one add-on source hosted in a remote repository.
type Plugin struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"` // resolved lazily, then cached
	SHA    string `json:"sha,omitempty"`    // root tree of Branch; never re-pointed once set
	Dir    string `json:"dir,omitempty"`

	IsBase  bool   `json:"isBase"`
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

func (p *Plugin) Clone() *Plugin {
	c := *p
	return &c
}

type Ship struct {
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`

	Guns    int `json:"guns"`
	Turrets int `json:"turrets"`
	Bays    int `json:"bays"`
}

// Variant is a named derivative of a Ship. Nil mount counts inherit from Base.
type Variant struct {
	Base      string `json:"base"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`

	Guns    *int `json:"guns"`
	Turrets *int `json:"turrets"`
	Bays    *int `json:"bays"`

	Attributes map[string]string `json:"attributes,omitempty"`
}

type Outfit struct {
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// PluginData is the record set contributed by one file, one plugin, or the
// whole aggregate.
type PluginData struct {
	Ships    map[string]*Ship    `json:"ships"`
	Variants map[string]*Variant `json:"variants"`
	Outfits  map[string]*Outfit  `json:"outfits"`
}

func NewPluginData() *PluginData {
	return &PluginData{
		Ships:    make(map[string]*Ship),
		Variants: make(map[string]*Variant),
		Outfits:  make(map[string]*Outfit),
	}
}

// LoadProgress is the observable state of one plugin's load.
type LoadProgress struct {
	IsLoading bool   `json:"isLoading"`
	Progress  int    `json:"progress"`
	Total     *int   `json:"total,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether the load ended with an error.
func (p LoadProgress) Failed() bool {
	return !p.IsLoading && p.Error != ""
}
