package spike

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/spikely/internal/config"
	"github.com/inodb/spikely/internal/vcf"
)

// CaseSample records the per-sample gating decision of one run.
type CaseSample struct {
	ID           string
	Heritability float64
	Spiked       bool
}

// CohortSampler decides, for each case sample, whether it is spiked and
// which gene and variant(s) spike it, recording draws in a SpikeMap.
type CohortSampler struct {
	ctx   *EngineContext
	res   *config.Resolver
	cfg   *config.Config
	cat   *vcf.Catalog
	genes *GeneSet
}

// NewCohortSampler creates a sampler over an aggregated catalog.
func NewCohortSampler(ctx *EngineContext, res *config.Resolver, cfg *config.Config, cat *vcf.Catalog, genes *GeneSet) *CohortSampler {
	if cfg == nil {
		cfg = config.New()
	}
	return &CohortSampler{ctx: ctx, res: res, cfg: cfg, cat: cat, genes: genes}
}

// parseHeritability splits a heritability value into its numeric value
// and whether it is a hard "=<float>" directive.
func parseHeritability(raw string) (float64, bool, error) {
	hard := strings.HasPrefix(raw, "=")
	if hard {
		raw = raw[1:]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, hard, fmt.Errorf("invalid heritability value %q", raw)
	}
	return f, hard, nil
}

// CaseIDs resolves the case sample set: the configured case_ids list
// when present, otherwise every sample in the VCF header. Unknown
// sample IDs are dropped with a warning.
func (s *CohortSampler) CaseIDs() ([]string, error) {
	ids, err := s.res.Strings(config.OptCaseIDs, config.ScopeNone, "")
	if err != nil {
		var missing *config.MissingOptionError
		if errors.As(err, &missing) {
			return s.cat.Samples, nil
		}
		return nil, err
	}

	out := ids[:0]
	for _, id := range ids {
		if !s.cat.HasSample(id) {
			s.ctx.Warn("case sample not in VCF header, skipping", zap.String("sample", id))
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// eligibleGenes returns the draw-eligible gene aggregates and their PAR
// weight vector: the keys of the config genes block when present
// (sorted for determinism), otherwise every gene observed in the
// catalog in first-seen order.
func eligibleGenes(ctx *EngineContext, cfg *config.Config, genes *GeneSet) ([]*GeneAggregate, []float64) {
	var ids []string
	if len(cfg.Genes) > 0 {
		ids = cfg.GeneIDs()
		sort.Strings(ids)
	} else {
		ids = genes.Order()
	}

	var aggs []*GeneAggregate
	var pars []float64
	for _, id := range ids {
		agg, ok := genes.Gene(id)
		if !ok {
			ctx.Warn("configured gene has no variants in catalog", zap.String("gene", id))
			continue
		}
		aggs = append(aggs, agg)
		pars = append(pars, agg.PAR)
	}
	return aggs, pars
}

// Run executes one sampling pass over the case cohort and returns the
// spike ledger plus the per-sample gating decisions.
func (s *CohortSampler) Run() (*SpikeMap, []CaseSample, error) {
	caseIDs, err := s.CaseIDs()
	if err != nil {
		return nil, nil, err
	}

	spikes := NewSpikeMap()
	aggs, pars := eligibleGenes(s.ctx, s.cfg, s.genes)

	// A run-level "=<fraction>" heritability selects an exact number of
	// samples up front (shuffle-and-take, round half up); membership in
	// that set then replaces the probabilistic gate.
	hardSet, hardMode, err := s.hardSelection(caseIDs)
	if err != nil {
		return nil, nil, err
	}

	cases := make([]CaseSample, 0, len(caseIDs))
	for _, id := range caseIDs {
		cs := CaseSample{ID: id}

		if hardMode {
			cs.Spiked = hardSet[id]
		} else {
			h, err := s.sampleHeritability(id)
			if err != nil {
				return nil, nil, err
			}
			cs.Heritability = h
			cs.Spiked = s.ctx.Rand.Float64() <= h
		}

		if cs.Spiked {
			if err := s.spikeSample(id, aggs, pars, spikes); err != nil {
				return nil, nil, err
			}
		}
		cases = append(cases, cs)
	}

	return spikes, cases, nil
}

// hardSelection pre-draws the spiked sample set when the run-level
// heritability carries the "=" prefix.
func (s *CohortSampler) hardSelection(caseIDs []string) (map[string]bool, bool, error) {
	raw, err := s.res.String(config.OptHeritability, config.ScopeNone, "")
	if err != nil {
		return nil, false, err
	}
	f, hard, err := parseHeritability(raw)
	if err != nil {
		return nil, false, err
	}
	if !hard {
		return nil, false, nil
	}

	count := int(math.Round(f * float64(len(caseIDs))))
	if count > len(caseIDs) {
		count = len(caseIDs)
	}
	if count < 0 {
		count = 0
	}

	shuffled := make([]string, len(caseIDs))
	copy(shuffled, caseIDs)
	s.ctx.Rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	set := make(map[string]bool, count)
	for _, id := range shuffled[:count] {
		set[id] = true
	}
	s.ctx.Log.Info("hard heritability selection",
		zap.Float64("fraction", f),
		zap.Int("case_count", len(caseIDs)),
		zap.Int("spike_count", count))
	return set, true, nil
}

// sampleHeritability resolves the probabilistic heritability for one
// sample, clamped by max_rate when configured. A hard "=" directive in
// a sample's entity block is a configuration error: exact-count
// selection is only meaningful at the run level.
func (s *CohortSampler) sampleHeritability(id string) (float64, error) {
	raw, err := s.res.String(config.OptHeritability, config.ScopeSample, id)
	if err != nil {
		return 0, err
	}
	h, hard, err := parseHeritability(raw)
	if err != nil {
		return 0, fmt.Errorf("sample %s: %w", id, err)
	}
	if hard {
		return 0, fmt.Errorf("sample %s: hard heritability %q not allowed per sample", id, raw)
	}

	if maxRate, err := s.res.Float(config.OptMaxRate, config.ScopeSample, id); err == nil && h > maxRate {
		s.ctx.Warn("heritability clamped by max_rate",
			zap.String("sample", id),
			zap.Float64("heritability", h),
			zap.Float64("max_rate", maxRate))
		h = maxRate
	}
	return h, nil
}

// spikeSample selects the causal gene and variant(s) for one spiked
// sample and records the draws.
func (s *CohortSampler) spikeSample(id string, aggs []*GeneAggregate, pars []float64, spikes *SpikeMap) error {
	if len(aggs) == 0 {
		s.ctx.Warn("no eligible genes, sample left unspiked", zap.String("sample", id))
		return nil
	}

	gi, err := weightedOrUniform(s.ctx, pars, "gene")
	if err != nil {
		return fmt.Errorf("select gene for sample %s: %w", id, err)
	}
	agg := aggs[gi]

	if agg.VariantCount() == 0 {
		s.ctx.Warn("selected gene has no eligible variants",
			zap.String("sample", id),
			zap.String("gene", agg.Gene))
		return nil
	}

	alleles := 1
	if agg.Inheritance == config.InheritanceRecessive {
		alleles = 2
	}

	weights := agg.Weights()
	if isDeNovo(agg.Inheritance) {
		// Rare variants should dominate spontaneous-mutation draws.
		weights = InvertWeights(weights)
	}

	for i := 0; i < alleles; i++ {
		vi, err := weightedOrUniform(s.ctx, weights, "variant")
		if err != nil {
			return fmt.Errorf("select variant in gene %s: %w", agg.Gene, err)
		}
		rec := agg.Variants[vi].Record

		dosage, capped := spikes.Add(rec.Key, id)
		if capped {
			s.ctx.DosageCaps++
			s.ctx.Warn("dosage exceeded homozygous, capped",
				zap.String("sample", id),
				zap.String("variant", rec.Key))
		}
		s.cat.MarkSpiked(rec.Key)

		s.ctx.Log.Debug("spiked sample",
			zap.String("sample", id),
			zap.String("gene", agg.Gene),
			zap.String("variant", rec.Key),
			zap.Int("dosage", dosage))
	}

	return nil
}

// isDeNovo reports whether an inheritance mode names a de novo model
// (case-insensitive substring match).
func isDeNovo(mode string) bool {
	return strings.Contains(strings.ToLower(mode), config.InheritanceDeNovo)
}
