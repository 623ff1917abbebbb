package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

const (
	DefaultPreset     = "alpha"
	DefaultRate       = 0.5
	DefaultEdgeOffset = 0.1
	DefaultFPS        = 60
	DefaultTheme      = "cyberpunk"
	DefaultAddr       = "127.0.0.1:8080"
	DefaultDataDir    = ".neuroviz"
)

type Config struct {
	Preset     string                 `yaml:"preset" toml:"preset"`
	Network    []netmodel.LayerConfig `yaml:"network,omitempty" toml:"network,omitempty"`
	Spacing    layout.Spacing         `yaml:"spacing" toml:"spacing"`
	Rate       float64                `yaml:"rate" toml:"rate"`
	EdgeOffset float64                `yaml:"edge_offset" toml:"edge_offset"`
	FPS        int                    `yaml:"fps" toml:"fps"`
	Theme      string                 `yaml:"theme" toml:"theme"`
	DataDir    string                 `yaml:"data_dir" toml:"data_dir"`
	Server     ServerConfig           `yaml:"server" toml:"server"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:     DefaultPreset,
		Spacing:    layout.DefaultSpacing(),
		Rate:       DefaultRate,
		EdgeOffset: DefaultEdgeOffset,
		FPS:        DefaultFPS,
		Theme:      DefaultTheme,
		DataDir:    DefaultDataDir,
		Server:     ServerConfig{Addr: DefaultAddr},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a yaml or toml file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Preset = ""
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Preset == "" && len(cfg.Network) == 0 {
		cfg.Preset = DefaultPreset
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the visual parameters. The network itself is validated by
// BuildNetwork.
func (c *Config) Validate() error {
	var errs []error
	if c.Spacing.Layer <= 0 {
		errs = append(errs, fmt.Errorf("spacing.layer must be positive, got %v", c.Spacing.Layer))
	}
	if c.Spacing.Neuron <= 0 {
		errs = append(errs, fmt.Errorf("spacing.neuron must be positive, got %v", c.Spacing.Neuron))
	}
	if math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		errs = append(errs, fmt.Errorf("rate must be finite, got %v", c.Rate))
	}
	if math.IsNaN(c.EdgeOffset) || math.IsInf(c.EdgeOffset, 0) {
		errs = append(errs, fmt.Errorf("edge_offset must be finite, got %v", c.EdgeOffset))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if len(c.Network) == 0 && GetPreset(c.Preset) == nil {
		errs = append(errs, fmt.Errorf("unknown preset %q (available: %v)", c.Preset, ListPresets()))
	}
	return errors.Join(errs...)
}

// BuildNetwork returns the configured network: the explicit layer list if
// present, otherwise the named preset.
func (c *Config) BuildNetwork() (*netmodel.Network, error) {
	layers := c.Network
	if len(layers) == 0 {
		layers = GetPreset(c.Preset)
		if layers == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", c.Preset, ListPresets())
		}
	}
	net, err := netmodel.New(layers)
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	return net, nil
}

func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		Spacing:    c.Spacing,
		Rate:       c.Rate,
		EdgeOffset: c.EdgeOffset,
	}
}
