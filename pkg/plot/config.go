package plot

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsalign/tsplot/pkg/errors"
	"github.com/tsalign/tsplot/pkg/statsfile"
)

// Output format identifiers.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported chart output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// Default chart dimensions in pixels.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Spec describes one chart to render. Specs come from the [[plot]] tables
// of a plot configuration file, or from [DefaultConfig].
type Spec struct {
	// Name is the output file base name. Required and unique per config.
	Name string `toml:"name"`

	// Title is the chart heading. Defaults to Name.
	Title string `toml:"title"`

	// X selects the parameter axis: length, seed or cost.
	X string `toml:"x"`

	// Y selects the statistics metric: cost, runtime, memory,
	// template_switches, opened_nodes or closed_nodes.
	Y string `toml:"y"`

	// XTransform and YTransform are axis transforms:
	// "linear" (default), "log", or "root:N".
	XTransform string `toml:"x_transform"`
	YTransform string `toml:"y_transform"`

	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// Band shades the min..max range around each mean line.
	Band bool `toml:"band"`

	// Formats lists the output formats. Defaults to ["svg"].
	Formats []string `toml:"formats"`
}

// Config is a decoded plot configuration file.
type Config struct {
	Plots []Spec `toml:"plot"`
}

// DefaultConfig returns the charts rendered when no configuration file is
// given: runtime and memory over sequence length, log-scaled y axes, with
// min..max bands.
func DefaultConfig() Config {
	return Config{Plots: []Spec{
		{Name: "runtime", Title: "Runtime by sequence length", X: "length", Y: "runtime", YTransform: "log", Band: true, Formats: []string{FormatSVG}},
		{Name: "memory", Title: "Memory by sequence length", X: "length", Y: "memory", YTransform: "log", Band: true, Formats: []string{FormatSVG}},
	}}
}

// LoadConfig reads and validates a plot configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "plot config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "plot config %s", path)
	}
	return cfg, nil
}

// Validate checks all specs and applies defaults in place.
func (c *Config) Validate() error {
	if len(c.Plots) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no [[plot]] tables")
	}

	seen := make(map[string]bool, len(c.Plots))
	for i := range c.Plots {
		s := &c.Plots[i]
		if err := s.validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate plot name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "plot without a name")
	}
	if s.Title == "" {
		s.Title = s.Name
	}
	if s.X == "" {
		s.X = "length"
	}
	if !slices.Contains(statsfile.AxisNames, s.X) {
		return errors.New(errors.ErrCodeInvalidMetric, "plot %q: unknown x axis %q (want one of %s)",
			s.Name, s.X, strings.Join(statsfile.AxisNames, ", "))
	}
	if !slices.Contains(statsfile.MetricNames, s.Y) {
		return errors.New(errors.ErrCodeInvalidMetric, "plot %q: unknown y metric %q (want one of %s)",
			s.Name, s.Y, strings.Join(statsfile.MetricNames, ", "))
	}
	if _, err := ParseTransform(s.XTransform); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTransform, err, "plot %q: x_transform", s.Name)
	}
	if _, err := ParseTransform(s.YTransform); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTransform, err, "plot %q: y_transform", s.Name)
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	if len(s.Formats) == 0 {
		s.Formats = []string{FormatSVG}
	}
	for _, f := range s.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "plot %q: invalid format %q (must be 'svg' or 'png')", s.Name, f)
		}
	}
	return nil
}
