package camera

// Preset names for common resolutions.
const (
	PresetVGA   = "vga"
	Preset720p  = "720p"
	Preset1080p = "1080p"
)

type resolution struct {
	width, height int
}

var presets = map[string]resolution{
	PresetVGA:   {640, 480},
	Preset720p:  {1280, 720},
	Preset1080p: {1920, 1080},
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{PresetVGA, Preset720p, Preset1080p}
}

// ApplyPreset sets Width and Height from a named preset.
// Returns false if the preset is unknown; the config is left unchanged.
func (c *Config) ApplyPreset(name string) bool {
	r, ok := presets[name]
	if !ok {
		return false
	}
	c.Width, c.Height = r.width, r.height
	return true
}
