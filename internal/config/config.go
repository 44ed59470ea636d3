// Package config loads the run configuration from YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hcreco/internal/reco"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/truth"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

// Input formats.
const (
	FormatLCIO  = "lcio"
	FormatProio = "proio"
)

type Config struct {
	Seed      int64 `yaml:"seed"`
	Workers   int   `yaml:"workers"`
	BatchSize int   `yaml:"batch_size"`
	// MaxEvents stops the run after this many events when positive.
	MaxEvents int `yaml:"max_events"`

	Truth    Truth     `yaml:"truth"`
	Input    Input     `yaml:"input"`
	Vertex   Vertex    `yaml:"vertex"`
	Output   Output    `yaml:"output"`
	Channels []Channel `yaml:"channels"`
}

type Truth struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

type Input struct {
	Format string `yaml:"format"`
	// TrackCollections are merged in order before preselection.
	TrackCollections []string `yaml:"track_collections"`
	GenCollection    string   `yaml:"gen_collection"`

	// FieldTesla converts LCIO track curvature to transverse momentum.
	FieldTesla float64 `yaml:"field_tesla"`
	// MaxNormChi2 and MinHits define the high-purity flag of input tracks.
	MaxNormChi2 float64 `yaml:"max_norm_chi2"`
	MinHits     int     `yaml:"min_hits"`
	MinPt       float64 `yaml:"min_pt"`
}

type Vertex struct {
	// Resolution is the per-track position uncertainty in cm.
	Resolution float64 `yaml:"resolution"`
}

type Output struct {
	SQLite     string `yaml:"sqlite"`
	JSON       string `yaml:"json"`
	Histograms string `yaml:"histograms"`
}

// Channel is a channel definition starting from an optional preset. Fields
// given next to the preset override it.
type Channel struct {
	Preset       string `yaml:"preset,omitempty"`
	reco.Channel `yaml:",inline"`
}

// UnmarshalYAML fills the preset first and then decodes the node over it,
// keeping unknown fields an error.
func (c *Channel) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: channel must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "preset" {
			continue
		}
		ch, err := reco.Preset(node.Content[i+1].Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i+1].Line, err)
		}
		c.Channel = ch
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	type plain Channel
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode((*plain)(c))
}

// Default reproduces the four built-in channels on LCIO input.
func Default() *Config {
	cfg := &Config{
		Seed:      1,
		Workers:   runtime.NumCPU(),
		BatchSize: 64,
		Truth:     Truth{Enabled: true, Threshold: truth.DefaultThreshold},
		Input: Input{
			Format:           FormatLCIO,
			TrackCollections: []string{"MarlinTrkTracks"},
			GenCollection:    "MCParticle",
			FieldTesla:       3.8,
			MaxNormChi2:      10,
			MinPt:            track.DefaultMinPt,
		},
		Vertex: Vertex{Resolution: vertex.DefaultResolution},
		Output: Output{SQLite: "hcreco.db"},
	}
	for _, ch := range reco.Presets() {
		cfg.Channels = append(cfg.Channels, Channel{Preset: ch.Name, Channel: ch})
	}
	return cfg
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err = Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. A channels list replaces the default
// channels entirely.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Channels = nil
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Channels == nil {
		cfg.Channels = Default().Channels
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and channel definitions.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Truth.Threshold <= 0 {
		return fmt.Errorf("truth threshold must be positive")
	}
	switch c.Input.Format {
	case FormatLCIO, FormatProio:
	default:
		return fmt.Errorf("unknown input format %q", c.Input.Format)
	}
	if len(c.Input.TrackCollections) == 0 {
		return fmt.Errorf("no track collections configured")
	}
	if c.Input.Format == FormatLCIO && c.Input.FieldTesla <= 0 {
		return fmt.Errorf("field_tesla must be positive for LCIO input")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("no channels configured")
	}
	names := map[string]bool{}
	for i := range c.Channels {
		ch := &c.Channels[i].Channel
		if err := ch.Validate(); err != nil {
			return err
		}
		if names[ch.Name] {
			return fmt.Errorf("duplicate channel %s", ch.Name)
		}
		names[ch.Name] = true
	}
	return nil
}

// RecoChannels returns the resolved channel configurations.
func (c *Config) RecoChannels() []reco.Channel {
	chs := make([]reco.Channel, len(c.Channels))
	for i, ch := range c.Channels {
		chs[i] = ch.Channel
	}
	return chs
}
