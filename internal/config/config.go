// Package config provides the layered spiking configuration and its resolver.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recognized option names. Options live at the config top level and may be
// overridden per entity under the samples/genes/variants blocks.
const (
	OptHeritability = "heritability"
	OptInheritance  = "inheritance"
	OptMaxRate      = "max_rate"
	OptMaxMAF       = "max_maf"
	OptAFKey        = "af_key"
	OptANKey        = "an_key"
	OptACKey        = "ac_key"
	OptDefaultAF    = "default_af"
	OptPAR          = "par"
	OptGeneIDKey    = "gene_id_key"
	OptCaseIDs      = "case_ids"
)

// Inheritance mode values for OptInheritance.
const (
	InheritanceDominant  = "dominant"
	InheritanceRecessive = "recessive"
	InheritanceXLinked   = "x-linked"
	InheritanceAdditive  = "additive"
	InheritanceDeNovo    = "de_novo"
)

// Options is one tier of loosely-typed option values.
type Options map[string]any

// Config is the layered configuration: top-level options plus per-entity
// override blocks keyed by sample, gene, and variant identifier.
type Config struct {
	Options  Options
	Samples  map[string]Options
	Genes    map[string]Options
	Variants map[string]Options
}

// New returns an empty configuration.
func New() *Config {
	return &Config{
		Options:  make(Options),
		Samples:  make(map[string]Options),
		Genes:    make(map[string]Options),
		Variants: make(map[string]Options),
	}
}

// yamlConfig mirrors the on-disk YAML layout. Entity identifiers are
// case-sensitive, so the file is decoded directly with yaml.v3 rather
// than through viper's key folding.
type yamlConfig struct {
	Samples  map[string]Options `yaml:"samples"`
	Genes    map[string]Options `yaml:"genes"`
	Variants map[string]Options `yaml:"variants"`
	Options  Options            `yaml:",inline"`
}

// FromYAML parses a layered configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	c := New()
	if raw.Options != nil {
		c.Options = raw.Options
	}
	if raw.Samples != nil {
		c.Samples = raw.Samples
	}
	if raw.Genes != nil {
		c.Genes = raw.Genes
	}
	if raw.Variants != nil {
		c.Variants = raw.Variants
	}
	return c, nil
}

// Load reads a layered configuration file from disk.
// An empty path yields an empty configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromYAML(data)
}

// GeneIDs returns the identifiers of the genes block, in YAML map order
// as decoded (callers needing determinism must sort or track order).
func (c *Config) GeneIDs() []string {
	ids := make([]string, 0, len(c.Genes))
	for id := range c.Genes {
		ids = append(ids, id)
	}
	return ids
}
