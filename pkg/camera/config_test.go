package camera

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("default config should be valid, got %v", errs)
	}
	if cfg.Device != "0" {
		t.Errorf("expected first camera by default, got %q", cfg.Device)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"v4l2 driver", func(c *Config) { c.Driver = DriverV4L2; c.Device = "/dev/video0" }, true},
		{"unknown driver", func(c *Config) { c.Driver = "gstreamer" }, false},
		{"no device", func(c *Config) { c.Device = "" }, false},
		{"width without height", func(c *Config) { c.Width = 640 }, false},
		{"too wide", func(c *Config) { c.Width, c.Height = MaxWidth+1, 480 }, false},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, false},
		{"quality zero", func(c *Config) { c.Quality = 0 }, false},
		{"quality 100", func(c *Config) { c.Quality = 100 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			errs := cfg.Validate()
			if tt.valid && len(errs) > 0 {
				t.Errorf("expected valid, got %v", errs)
			}
			if !tt.valid && len(errs) == 0 {
				t.Error("expected validation errors")
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := DefaultConfig()
		if !cfg.ApplyPreset(name) {
			t.Errorf("preset %q should exist", name)
			continue
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			t.Errorf("preset %q invalid: %v", name, errs)
		}
	}

	cfg := DefaultConfig()
	cfg.ApplyPreset(Preset720p)
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ApplyPreset("8k") {
		t.Error("unknown preset should be rejected")
	}
	if cfg.Width != 1280 {
		t.Error("unknown preset must not modify config")
	}
}
