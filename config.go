package lheplot

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig names one LHE input and its production cross-section in
// picobarns.
type FileConfig struct {
	Path         string  `yaml:"path"`
	Label        string  `yaml:"label"`
	CrossSection float64 `yaml:"cross_section"`
}

// PlotConfig holds normalization and styling options shared by all
// histograms of a run.
type PlotConfig struct {
	Normalize bool    `yaml:"normalize_by_cross_section"`
	Lumi      float64 `yaml:"lumi"`
	LogY      bool    `yaml:"log_scale"`
	Title     string  `yaml:"title"`
}

// Config is the full declarative description of a run. It is loaded
// once, validated, and never mutated afterwards.
type Config struct {
	Files     []FileConfig `yaml:"files"`
	Particles struct {
		Include []int `yaml:"include"`
	} `yaml:"particles"`
	ApplyCuts  bool       `yaml:"apply_cuts"`
	Cuts       []Cut      `yaml:"cuts"`
	Histograms []HistDef  `yaml:"histograms"`
	Plots      PlotConfig `yaml:"plots"`
}

// LoadConfig reads and validates a YAML run configuration. Any invalid
// entry rejects the whole configuration: a malformed definition that
// silently produced an empty histogram would be a worse failure than a
// startup error.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Plots.Lumi == 0 {
		cfg.Plots.Lumi = 1.0
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadHistDefs reads histogram definitions from a standalone YAML file
// with a top-level "histograms" key, overriding any inline list.
func LoadHistDefs(path string) ([]HistDef, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("histograms: %w", err)
	}
	var doc struct {
		Histograms []HistDef `yaml:"histograms"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("histograms %s: %w", path, err)
	}
	if len(doc.Histograms) == 0 {
		return nil, fmt.Errorf("histograms %s: no definitions found", path)
	}
	return doc.Histograms, nil
}

func (cfg *Config) Validate() error {
	if len(cfg.Files) == 0 {
		return fmt.Errorf("no input files")
	}
	for i, fc := range cfg.Files {
		if fc.Path == "" {
			return fmt.Errorf("file %d: empty path", i)
		}
		if fc.Label == "" {
			return fmt.Errorf("file %s: empty label", fc.Path)
		}
	}
	if len(cfg.Particles.Include) == 0 {
		return fmt.Errorf("particles.include is empty")
	}
	for _, c := range cfg.Cuts {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	seen := make(map[string]bool)
	for _, d := range cfg.Histograms {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate histogram name %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// ActiveHistograms returns the definitions whose id lists intersect
// particles.include; the rest can never be filled and are not booked.
func (cfg *Config) ActiveHistograms() []HistDef {
	include := make(map[int]bool)
	for _, id := range cfg.Particles.Include {
		include[id] = true
	}
	var out []HistDef
	for _, d := range cfg.Histograms {
		for _, id := range d.PIDs {
			if include[id] {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// LabelSuffix builds an output-name suffix from the configuration
// flags, like "_cuts_norm_logy".
func (cfg *Config) LabelSuffix() string {
	var labels []string
	if cfg.ApplyCuts {
		labels = append(labels, "cuts")
	}
	if cfg.Plots.Normalize {
		labels = append(labels, "norm")
	}
	if cfg.Plots.LogY {
		labels = append(labels, "logy")
	}
	if len(labels) == 0 {
		return ""
	}
	return "_" + strings.Join(labels, "_")
}
