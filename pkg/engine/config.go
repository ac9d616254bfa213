package engine

import (
	"bytes"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"gopkg.in/yaml.v3"
)

// defaultSpan applies when neither the config nor a preset sets a span.
const defaultSpan = "4"

// Backend names.
const (
	BackendDouble  = "double"
	BackendDecimal = "decimal"
	BackendBig     = "big"
)

// Config holds all parameters for a scan. Coordinates are decimal strings
// so deep views keep every digit for the big backend.
type Config struct {
	Formula string `yaml:"formula" json:"formula"`
	Preset  string `yaml:"preset" json:"preset,omitempty"`
	Var     string `yaml:"var" json:"var"`

	CenterRe string `yaml:"center_re" json:"center_re"`
	CenterIm string `yaml:"center_im" json:"center_im"`
	// Span is the view width; empty means the preset's suggestion.
	Span     string `yaml:"span" json:"span"`
	Width    int    `yaml:"width" json:"width"`
	Height   int    `yaml:"height" json:"height"`

	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
	Escape        float64 `yaml:"escape" json:"escape"`
	// ClusterTolerance is the distance under which two roots are the same.
	ClusterTolerance float64 `yaml:"cluster_tolerance" json:"cluster_tolerance"`

	Backend   string `yaml:"backend" json:"backend"`     // "double", "decimal" or "big"
	Precision int    `yaml:"precision" json:"precision"` // digits for the big backend
	Workers   int    `yaml:"workers" json:"workers"`
	Format    string `yaml:"format" json:"format"` // "text" or "json"
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preset:           "cubic",
		Var:              "z",
		CenterRe:         "0",
		CenterIm:         "0",
		Width:            64,
		Height:           32,
		MaxIterations:    50,
		Tolerance:        1e-12,
		Escape:           1e100,
		ClusterTolerance: 1e-6,
		Backend:          BackendDouble,
		Precision:        bigdec.DefaultPrecision,
		Workers:          runtime.NumCPU(),
		Format:           "text",
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Validate checks ranges and that coordinates parse.
func (c Config) Validate() error {
	if c.Formula == "" && c.Preset == "" {
		return errors.New("either a formula or a preset is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.MaxIterations <= 0 {
		return errors.Newf("max iterations must be positive, got %d", c.MaxIterations)
	}
	switch c.Backend {
	case BackendDouble, BackendDecimal, BackendBig:
	default:
		return errors.Newf("unknown backend %q (available: double, decimal, big)", c.Backend)
	}
	switch c.Format {
	case "text", "json":
	default:
		return errors.Newf("unknown format %q", c.Format)
	}
	if c.Backend == BackendBig && c.Precision <= 0 {
		return errors.Newf("precision must be positive, got %d", c.Precision)
	}
	for name, s := range map[string]string{"center_re": c.CenterRe, "center_im": c.CenterIm} {
		if _, err := bigdec.Parse(s); err != nil {
			return errors.Wrap(err, name)
		}
	}
	if c.Span != "" {
		span, err := bigdec.Parse(c.Span)
		if err != nil {
			return errors.Wrap(err, "span")
		}
		if span.Sign() <= 0 {
			return errors.Newf("span must be positive, got %s", c.Span)
		}
	}
	return nil
}
