package spike

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/inodb/spikely/internal/config"
	"github.com/inodb/spikely/internal/ped"
	"github.com/inodb/spikely/internal/vcf"
)

// Trio names the three members of one family.
type Trio struct {
	FamilyID string
	Proband  string
	Mother   string
	Father   string
}

// TrioSampler spikes a recessive genotype into a mother/father/proband
// family: one maternal-allele draw and one paternal-allele draw, each
// recorded for the carrier parent and the proband.
type TrioSampler struct {
	ctx      *EngineContext
	res      *config.Resolver
	cfg      *config.Config
	cat      *vcf.Catalog
	genes    *GeneSet
	pedigree *ped.File // nil when the trio was given directly
}

// NewTrioSampler creates a trio sampler. The pedigree may be nil when
// mother/father/proband IDs are supplied directly.
func NewTrioSampler(ctx *EngineContext, res *config.Resolver, cfg *config.Config, cat *vcf.Catalog, genes *GeneSet, pedigree *ped.File) *TrioSampler {
	if cfg == nil {
		cfg = config.New()
	}
	return &TrioSampler{ctx: ctx, res: res, cfg: cfg, cat: cat, genes: genes, pedigree: pedigree}
}

// ResolveTrio derives the trio from the pedigree. With an empty
// probandID the first affected individual with both parents recorded is
// chosen.
func (s *TrioSampler) ResolveTrio(probandID string) (Trio, error) {
	if s.pedigree == nil {
		return Trio{}, fmt.Errorf("no pedigree loaded")
	}

	var proband *ped.Individual
	if probandID != "" {
		ind, ok := s.pedigree.Individual(probandID)
		if !ok {
			return Trio{}, fmt.Errorf("proband %q not found in pedigree", probandID)
		}
		proband = ind
	} else {
		for _, ind := range s.pedigree.Individuals {
			if ind.Affection == ped.AffectionAffected &&
				ind.FatherID != ped.NoParent && ind.MotherID != ped.NoParent {
				proband = ind
				break
			}
		}
		if proband == nil {
			return Trio{}, fmt.Errorf("no affected individual with both parents in pedigree")
		}
	}

	if proband.FatherID == ped.NoParent || proband.MotherID == ped.NoParent {
		return Trio{}, fmt.Errorf("proband %q is missing a recorded parent", proband.ID)
	}

	return Trio{
		FamilyID: proband.FamilyID,
		Proband:  proband.ID,
		Mother:   proband.MotherID,
		Father:   proband.FatherID,
	}, nil
}

// Validate checks the trio against the VCF header (fatal) and the
// pedigree (recoverable: missing parent rows and sex/affection
// mismatches are warnings).
func (s *TrioSampler) Validate(t Trio) error {
	for _, id := range []string{t.Proband, t.Mother, t.Father} {
		if id == "" {
			return fmt.Errorf("trio is incomplete: proband=%q mother=%q father=%q", t.Proband, t.Mother, t.Father)
		}
		if !s.cat.HasSample(id) {
			return fmt.Errorf("trio sample %q not in VCF header", id)
		}
	}

	if s.pedigree == nil {
		return nil
	}

	if father, ok := s.pedigree.Individual(t.Father); !ok {
		s.ctx.Warn("father not found in pedigree", zap.String("sample", t.Father))
	} else if father.Sex != ped.SexMale {
		s.ctx.Warn("pedigree sex mismatch for father",
			zap.String("sample", t.Father), zap.Int("sex", father.Sex))
	}

	if mother, ok := s.pedigree.Individual(t.Mother); !ok {
		s.ctx.Warn("mother not found in pedigree", zap.String("sample", t.Mother))
	} else if mother.Sex != ped.SexFemale {
		s.ctx.Warn("pedigree sex mismatch for mother",
			zap.String("sample", t.Mother), zap.Int("sex", mother.Sex))
	}

	if proband, ok := s.pedigree.Individual(t.Proband); ok && proband.Affection != ped.AffectionAffected {
		s.ctx.Warn("proband not marked affected in pedigree",
			zap.String("sample", t.Proband), zap.Int("affection", proband.Affection))
	}

	return nil
}

// Run executes one sampling pass for the family.
func (s *TrioSampler) Run(t Trio) (*SpikeMap, error) {
	if err := s.Validate(t); err != nil {
		return nil, err
	}

	spikes := NewSpikeMap()

	spiked, err := s.gateFamily(t)
	if err != nil {
		return nil, err
	}
	if !spiked {
		s.ctx.Log.Info("family not selected for spiking", zap.String("family", t.FamilyID))
		return spikes, nil
	}

	aggs, pars := eligibleGenes(s.ctx, s.cfg, s.genes)
	if len(aggs) == 0 {
		s.ctx.Warn("no eligible genes, family left unspiked", zap.String("family", t.FamilyID))
		return spikes, nil
	}

	gi, err := weightedOrUniform(s.ctx, pars, "gene")
	if err != nil {
		return nil, fmt.Errorf("select gene for family %s: %w", t.FamilyID, err)
	}
	agg := aggs[gi]

	// A trio models one causal allele per parent; anything but a
	// recessive gene cannot produce an affected proband this way.
	if agg.Inheritance != config.InheritanceRecessive {
		return nil, fmt.Errorf("trio mode requires a recessive gene, %s has inheritance %q", agg.Gene, agg.Inheritance)
	}
	if agg.VariantCount() == 0 {
		s.ctx.Warn("selected gene has no eligible variants", zap.String("gene", agg.Gene))
		return spikes, nil
	}

	weights := agg.Weights()
	for _, parent := range []string{t.Mother, t.Father} {
		vi, err := weightedOrUniform(s.ctx, weights, "variant")
		if err != nil {
			return nil, fmt.Errorf("select variant in gene %s: %w", agg.Gene, err)
		}
		rec := agg.Variants[vi].Record

		for _, carrier := range []string{parent, t.Proband} {
			if _, capped := spikes.Add(rec.Key, carrier); capped {
				s.ctx.DosageCaps++
				s.ctx.Warn("dosage exceeded homozygous, capped",
					zap.String("sample", carrier),
					zap.String("variant", rec.Key))
			}
		}
		s.cat.MarkSpiked(rec.Key)

		s.ctx.Log.Debug("spiked family allele",
			zap.String("family", t.FamilyID),
			zap.String("parent", parent),
			zap.String("gene", agg.Gene),
			zap.String("variant", rec.Key))
	}

	return spikes, nil
}

// gateFamily applies the heritability gate once per family, keyed by
// the proband. A hard "=<fraction>" directive over a single family
// rounds to spike-or-not.
func (s *TrioSampler) gateFamily(t Trio) (bool, error) {
	raw, err := s.res.String(config.OptHeritability, config.ScopeSample, t.Proband)
	if err != nil {
		return false, err
	}
	h, hard, err := parseHeritability(raw)
	if err != nil {
		return false, fmt.Errorf("family %s: %w", t.FamilyID, err)
	}
	if hard {
		return math.Round(h) >= 1, nil
	}

	if maxRate, err := s.res.Float(config.OptMaxRate, config.ScopeSample, t.Proband); err == nil && h > maxRate {
		s.ctx.Warn("heritability clamped by max_rate",
			zap.String("family", t.FamilyID),
			zap.Float64("heritability", h),
			zap.Float64("max_rate", maxRate))
		h = maxRate
	}
	return s.ctx.Rand.Float64() <= h, nil
}
