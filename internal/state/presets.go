package state

// Preset is a named grid size offered by the UI.
type Preset struct {
	Name   string
	Width  int
	Height int
}

func (p Preset) Dimensions() Dimensions {
	return Dimensions{Width: p.Width, Height: p.Height}
}

// Presets is the fixed catalog, smallest first.
var Presets = []Preset{
	{Name: "8×8", Width: 8, Height: 8},
	{Name: "16×16", Width: 16, Height: 16},
	{Name: "24×24", Width: 24, Height: 24},
	{Name: "32×32", Width: 32, Height: 32},
	{Name: "48×48", Width: 48, Height: 48},
}

// PresetByName looks a preset up by its display name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames returns the catalog names in order.
func PresetNames() []string {
	names := make([]string, len(Presets))
	for i, p := range Presets {
		names[i] = p.Name
	}
	return names
}
