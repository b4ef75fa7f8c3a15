package window

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/errors"
)

// AttributesFile is the conventional name of the per-project window
// attributes file, looked up in the working directory.
const AttributesFile = "weft.yaml"

// ThemeMode selects the initial light or dark rendering of a window.
type ThemeMode string

const (
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
)

// Attributes describes the initial state requested for a new window. The
// backend applies what it can; unsupported fields are ignored.
type Attributes struct {
	Title     string    `yaml:"title"`
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	X         *float64  `yaml:"x,omitempty"`
	Y         *float64  `yaml:"y,omitempty"`
	Resizable bool      `yaml:"resizable"`
	Theme     ThemeMode `yaml:"theme"`
}

// DefaultAttributes returns the attributes used when no file overrides
// them.
func DefaultAttributes() Attributes {
	return Attributes{
		Title:     "Weft",
		Width:     800,
		Height:    600,
		Resizable: true,
		Theme:     ThemeSystem,
	}
}

// LoadAttributes reads window attributes from a YAML file. A missing file
// is not an error: the defaults are returned. A file that exists but fails
// to parse is a config error.
func LoadAttributes(path string) (Attributes, error) {
	attrs := DefaultAttributes()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return attrs, nil
		}
		return attrs, &errors.WeftError{
			Op:   "window.LoadAttributes",
			Kind: errors.KindConfig,
			Err:  err,
		}
	}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return attrs, &errors.WeftError{
			Op:   "window.LoadAttributes",
			Kind: errors.KindConfig,
			Err:  err,
		}
	}
	if err := attrs.validate(); err != nil {
		return attrs, &errors.WeftError{
			Op:   "window.LoadAttributes",
			Kind: errors.KindConfig,
			Err:  err,
		}
	}
	return attrs, nil
}

func (a Attributes) validate() error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("window size %gx%g must be positive", a.Width, a.Height)
	}
	switch a.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("unknown theme %q", a.Theme)
	}
}
