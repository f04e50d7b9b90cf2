package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Scope selects which per-entity override block applies to a lookup.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeSample
	ScopeGene
	ScopeVariant
)

func (s Scope) String() string {
	switch s {
	case ScopeSample:
		return "sample"
	case ScopeGene:
		return "gene"
	case ScopeVariant:
		return "variant"
	default:
		return "none"
	}
}

// Tier identifies which precedence tier supplied a resolved value.
type Tier int

const (
	TierEntity Tier = iota // per-entity config block
	TierFlag               // command-line value
	TierFile               // top-level config-file value
	TierDefault            // hard-coded default
)

func (t Tier) String() string {
	switch t {
	case TierEntity:
		return "entity"
	case TierFlag:
		return "flag"
	case TierFile:
		return "file"
	default:
		return "default"
	}
}

// hardDefaults is the lowest precedence tier. Options absent here and
// everywhere else resolve to a MissingOptionError.
var hardDefaults = Options{
	OptHeritability: 0.5,
	OptInheritance:  InheritanceDominant,
	OptPAR:          1.0,
	OptGeneIDKey:    "GENEINFO",
	OptAFKey:        "AF",
	OptANKey:        "AN",
	OptACKey:        "AC",
}

// MissingOptionError reports a lookup that no precedence tier satisfied.
type MissingOptionError struct {
	Option string
	Scope  Scope
	ID     string
}

func (e *MissingOptionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no value for option %q in any config tier", e.Option)
	}
	return fmt.Sprintf("no value for option %q (%s %q) in any config tier", e.Option, e.Scope, e.ID)
}

// Resolver merges the four precedence tiers into one effective value per
// option per entity: entity block, then command-line, then top-level
// config file, then hard-coded default. Resolution is recomputed per
// call; nothing is cached.
type Resolver struct {
	cfg   *Config
	flags Options
	log   *zap.Logger
}

// NewResolver creates a resolver over the given layered configuration.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = New()
	}
	return &Resolver{
		cfg:   cfg,
		flags: make(Options),
		log:   zap.NewNop(),
	}
}

// SetLogger sets the logger for fallback diagnostics.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.log = l
}

// SetFlag records a command-line-supplied option value (second tier).
func (r *Resolver) SetFlag(name string, value any) {
	r.flags[name] = value
}

// entityBlock returns the override block for the entity, if any.
func (r *Resolver) entityBlock(scope Scope, id string) Options {
	switch scope {
	case ScopeSample:
		return r.cfg.Samples[id]
	case ScopeGene:
		return r.cfg.Genes[id]
	case ScopeVariant:
		return r.cfg.Variants[id]
	default:
		return nil
	}
}

// Resolve returns the effective value of an option for an entity, along
// with the tier that supplied it. First match wins.
func (r *Resolver) Resolve(name string, scope Scope, id string) (any, Tier, error) {
	if block := r.entityBlock(scope, id); block != nil {
		if v, ok := block[name]; ok {
			return v, TierEntity, nil
		}
	}
	if v, ok := r.flags[name]; ok {
		return v, TierFlag, nil
	}
	if v, ok := r.cfg.Options[name]; ok {
		return v, TierFile, nil
	}
	if v, ok := hardDefaults[name]; ok {
		r.log.Debug("option resolved from hard default",
			zap.String("option", name),
			zap.Stringer("scope", scope),
			zap.String("id", id))
		return v, TierDefault, nil
	}
	return nil, TierDefault, &MissingOptionError{Option: name, Scope: scope, ID: id}
}

// String resolves an option and coerces it to a string.
func (r *Resolver) String(name string, scope Scope, id string) (string, error) {
	v, _, err := r.Resolve(name, scope, id)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("option %q: %w", name, err)
	}
	return s, nil
}

// Float resolves an option and coerces it to a float64.
func (r *Resolver) Float(name string, scope Scope, id string) (float64, error) {
	v, _, err := r.Resolve(name, scope, id)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", name, err)
	}
	return f, nil
}

// Strings resolves an option and splits it into a comma-separated list.
// List-typed YAML values are passed through.
func (r *Resolver) Strings(name string, scope Scope, id string) ([]string, error) {
	v, _, err := r.Resolve(name, scope, id)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case []string, []any:
		list, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", name, err)
		}
		return list, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}
