package spike

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/inodb/spikely/internal/config"
	"github.com/inodb/spikely/internal/vcf"
)

// UnknownGene is the pseudo-gene collecting records whose INFO column
// lacks the configured gene-ID key.
const UnknownGene = "UNKNOWN_GENE"

// Kind selects the cohort flavor; the allele-frequency fallback chain
// differs between cohort and trio runs.
type Kind int

const (
	KindCohort Kind = iota
	KindTrio
)

// FreqSource identifies which rule of the allele-frequency fallback
// chain produced a variant's weight.
type FreqSource int

const (
	FreqFromAF      FreqSource = iota // INFO value at the configured af_key
	FreqFromACAN                      // AC/AN ratio (cohort runs)
	FreqFromAN                        // 1/(AN+1) (trio runs)
	FreqFromDefault                   // configured default_af
	FreqZero                          // nothing applicable
)

func (s FreqSource) String() string {
	switch s {
	case FreqFromAF:
		return "af_key"
	case FreqFromACAN:
		return "ac/an"
	case FreqFromAN:
		return "1/(an+1)"
	case FreqFromDefault:
		return "default_af"
	default:
		return "zero"
	}
}

// WeightedVariant pairs a catalog record with its resolved
// allele-frequency weight, so weight and record cannot desynchronize.
type WeightedVariant struct {
	Record *vcf.Record
	Weight float64
	Source FreqSource
}

// GeneAggregate groups one gene's variants with its resolved
// inheritance mode and PAR weight. Records are shared references owned
// by the catalog.
type GeneAggregate struct {
	Gene        string
	Inheritance string
	PAR         float64
	Variants    []WeightedVariant
}

// VariantCount returns the number of draw-eligible variants.
func (g *GeneAggregate) VariantCount() int {
	return len(g.Variants)
}

// Weights returns the gene's weight vector, positionally aligned with
// Variants.
func (g *GeneAggregate) Weights() []float64 {
	out := make([]float64, len(g.Variants))
	for i, wv := range g.Variants {
		out[i] = wv.Weight
	}
	return out
}

// GeneSet is the aggregation result: gene aggregates plus the order
// genes were first observed in the catalog.
type GeneSet struct {
	byGene map[string]*GeneAggregate
	order  []string
}

// Gene returns the aggregate for a gene identifier.
func (s *GeneSet) Gene(id string) (*GeneAggregate, bool) {
	g, ok := s.byGene[id]
	return g, ok
}

// Order returns gene identifiers in first-observed catalog order.
func (s *GeneSet) Order() []string {
	return s.order
}

// Len returns the number of genes observed.
func (s *GeneSet) Len() int {
	return len(s.order)
}

// Aggregator partitions the variant catalog by gene and resolves each
// gene's inheritance mode, PAR, and per-variant frequency weights.
type Aggregator struct {
	ctx  *EngineContext
	res  *config.Resolver
	kind Kind
}

// NewAggregator creates an aggregator for the given run kind.
func NewAggregator(ctx *EngineContext, res *config.Resolver, kind Kind) *Aggregator {
	return &Aggregator{ctx: ctx, res: res, kind: kind}
}

// Aggregate builds the gene set from the catalog, evaluating the
// frequency fallback chain once per record.
func (a *Aggregator) Aggregate(cat *vcf.Catalog) (*GeneSet, error) {
	set := &GeneSet{byGene: make(map[string]*GeneAggregate)}

	for _, rec := range cat.Records {
		gene, err := a.geneID(rec)
		if err != nil {
			return nil, err
		}

		agg, ok := set.byGene[gene]
		if !ok {
			mode, err := a.res.String(config.OptInheritance, config.ScopeGene, gene)
			if err != nil {
				return nil, fmt.Errorf("resolve inheritance for gene %s: %w", gene, err)
			}
			par, err := a.res.Float(config.OptPAR, config.ScopeGene, gene)
			if err != nil {
				return nil, fmt.Errorf("resolve par for gene %s: %w", gene, err)
			}
			agg = &GeneAggregate{Gene: gene, Inheritance: mode, PAR: par}
			set.byGene[gene] = agg
			set.order = append(set.order, gene)
		}

		weight, source := a.resolveFrequency(rec)
		a.ctx.Log.Debug("resolved variant frequency",
			zap.String("variant", rec.Key),
			zap.String("gene", gene),
			zap.Float64("maf", weight),
			zap.Stringer("source", source))

		if maxMAF, err := a.res.Float(config.OptMaxMAF, config.ScopeVariant, rec.Key); err == nil && weight > maxMAF {
			a.ctx.Warn("variant exceeds max_maf, excluded from spiking",
				zap.String("variant", rec.Key),
				zap.Float64("maf", weight),
				zap.Float64("max_maf", maxMAF))
			continue
		}

		agg.Variants = append(agg.Variants, WeightedVariant{Record: rec, Weight: weight, Source: source})
	}

	return set, nil
}

// geneID reads the gene identifier from the configured gene-ID INFO
// key, taking the value before the first comma; absent keys map to
// UnknownGene.
func (a *Aggregator) geneID(rec *vcf.Record) (string, error) {
	key, err := a.res.String(config.OptGeneIDKey, config.ScopeVariant, rec.Key)
	if err != nil {
		return "", fmt.Errorf("resolve gene_id_key: %w", err)
	}
	val, ok := rec.InfoFirst(key)
	if !ok || val == "" {
		return UnknownGene, nil
	}
	return val, nil
}

// resolveFrequency walks the fallback chain and returns the first
// applicable weight: af_key value, AC/AN (cohort), 1/(AN+1) (trio),
// configured default_af, else zero.
func (a *Aggregator) resolveFrequency(rec *vcf.Record) (float64, FreqSource) {
	afKey, _ := a.res.String(config.OptAFKey, config.ScopeVariant, rec.Key)
	anKey, _ := a.res.String(config.OptANKey, config.ScopeVariant, rec.Key)
	acKey, _ := a.res.String(config.OptACKey, config.ScopeVariant, rec.Key)

	if raw, ok := rec.InfoFirst(afKey); ok {
		if af, err := strconv.ParseFloat(raw, 64); err == nil {
			return af, FreqFromAF
		}
		a.ctx.Warn("unparseable allele frequency value",
			zap.String("variant", rec.Key),
			zap.String("key", afKey),
			zap.String("value", raw))
	}

	an, anOK := infoFloat(rec, anKey)
	if a.kind == KindCohort {
		if ac, acOK := infoFloat(rec, acKey); acOK && anOK && an > 0 {
			return ac / an, FreqFromACAN
		}
	}
	if a.kind == KindTrio && anOK {
		return 1 / (an + 1), FreqFromAN
	}

	def, err := a.res.Float(config.OptDefaultAF, config.ScopeVariant, rec.Key)
	if err == nil {
		return def, FreqFromDefault
	}
	var missing *config.MissingOptionError
	if !errors.As(err, &missing) {
		a.ctx.Warn("unusable default_af, treating frequency as zero",
			zap.String("variant", rec.Key),
			zap.Error(err))
	}
	return 0, FreqZero
}

func infoFloat(rec *vcf.Record, key string) (float64, bool) {
	raw, ok := rec.InfoFirst(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
