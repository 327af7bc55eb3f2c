// Package catalog loads the competitor catalog: the synthetic acts the
// player's songs compete against on the weekly chart. Competitors carry
// identity and a base stream count only; the chart simulation perturbs the
// base with market noise instead of modeling their internals.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Competitor struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Artist      string `yaml:"artist"`
	BaseStreams int64  `yaml:"base_streams"`
	Genre       string `yaml:"genre"`
}

type document struct {
	Competitors []Competitor `yaml:"competitors"`
}

// Load reads the competitor catalog from a YAML file. An empty or malformed
// catalog is an error: a chart with no competition is a configuration bug,
// not a playable state.
func Load(path string) ([]Competitor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c document
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Competitors) == 0 {
		return nil, fmt.Errorf("catalog %s lists no competitors", path)
	}
	seen := make(map[string]bool, len(c.Competitors))
	for i, comp := range c.Competitors {
		if comp.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if seen[comp.ID] {
			return nil, fmt.Errorf("catalog id %q duplicated", comp.ID)
		}
		seen[comp.ID] = true
		if comp.BaseStreams <= 0 {
			return nil, fmt.Errorf("catalog id %q has non-positive base_streams", comp.ID)
		}
	}
	return c.Competitors, nil
}
