package guibridge

import (
	"os"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls fonts, scaling and persistence.
type Config struct {
	// SettingsFilePath is where the gui stores window geometry.
	// Empty disables persistence.
	SettingsFilePath string `yaml:"settings_file_path"`

	// BaseFontSize is the font size in logical pixels at scale 1.
	BaseFontSize float32 `yaml:"base_font_size"`

	FontOversampleH int `yaml:"font_oversample_h"`
	FontOversampleV int `yaml:"font_oversample_v"`

	// ScaleAffectsFontSize bakes the atlas at BaseFontSize times the
	// display scale and shrinks it back with the font global scale.
	ScaleAffectsFontSize bool `yaml:"scale_affects_font_size"`

	// ScaleAffectsFontOversample multiplies oversampling by the display
	// scale, rounded up.
	ScaleAffectsFontOversample bool `yaml:"scale_affects_font_oversample"`

	// InitialFormat is the pipeline format used before the first real
	// target is seen. See FormatName for accepted values.
	InitialFormat string `yaml:"initial_format"`

	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		BaseFontSize:               13,
		FontOversampleH:            1,
		FontOversampleV:            1,
		ScaleAffectsFontSize:       true,
		ScaleAffectsFontOversample: true,
		InitialFormat:              FormatName(gputypes.TextureFormatBGRA8UnormSrgb),
	}
}

// LoadConfig reads a YAML config. Keys absent from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.BaseFontSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "base_font_size must be positive, got %v", c.BaseFontSize)
	}
	if c.FontOversampleH < 1 {
		return errors.Wrapf(ErrInvalidConfig, "font_oversample_h must be >= 1, got %d", c.FontOversampleH)
	}
	if c.FontOversampleV < 1 {
		return errors.Wrapf(ErrInvalidConfig, "font_oversample_v must be >= 1, got %d", c.FontOversampleV)
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	return nil
}

// Format resolves InitialFormat. Empty selects bgra8unorm-srgb.
func (c Config) Format() (gputypes.TextureFormat, error) {
	if c.InitialFormat == "" {
		return gputypes.TextureFormatBGRA8UnormSrgb, nil
	}
	f, ok := ParseFormat(c.InitialFormat)
	if !ok {
		return gputypes.TextureFormatUndefined, errors.Wrapf(ErrInvalidConfig, "unknown initial_format %q", c.InitialFormat)
	}
	return f, nil
}

var formatNames = []struct {
	format gputypes.TextureFormat
	name   string
}{
	{gputypes.TextureFormatBGRA8UnormSrgb, "bgra8unorm-srgb"},
	{gputypes.TextureFormatBGRA8Unorm, "bgra8unorm"},
	{gputypes.TextureFormatRGBA8UnormSrgb, "rgba8unorm-srgb"},
	{gputypes.TextureFormatRGBA8Unorm, "rgba8unorm"},
	{gputypes.TextureFormatRGBA16Float, "rgba16float"},
}

// FormatName returns the config spelling of a swapchain format.
func FormatName(f gputypes.TextureFormat) string {
	for _, fn := range formatNames {
		if fn.format == f {
			return fn.name
		}
	}
	if f == gputypes.TextureFormatUndefined {
		return "undefined"
	}
	return "unknown"
}

// ParseFormat is the inverse of FormatName for supported formats.
func ParseFormat(name string) (gputypes.TextureFormat, bool) {
	for _, fn := range formatNames {
		if fn.name == name {
			return fn.format, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}
