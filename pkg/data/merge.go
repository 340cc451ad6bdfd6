package data

// MergePluginData copies every record of source into target, overwriting
// records of the same name, and returns target. A nil source is a no-op.
func MergePluginData(target, source *PluginData) *PluginData {
	if source == nil {
		return target
	}
	for name, s := range source.Ships {
		target.Ships[name] = s
	}
	for name, v := range source.Variants {
		target.Variants[name] = v
	}
	for name, o := range source.Outfits {
		target.Outfits[name] = o
	}
	return target
}

// FoldPluginData merges parts in order into a fresh PluginData.
func FoldPluginData(parts []*PluginData) *PluginData {
	out := NewPluginData()
	for _, p := range parts {
		MergePluginData(out, p)
	}
	return out
}
