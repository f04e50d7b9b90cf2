package spike

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/spikely/internal/config"
	"github.com/inodb/spikely/internal/ped"
	"github.com/inodb/spikely/internal/vcf"
)

const trioPED = `FAM1	KID	DAD	MOM	1	2	wgs
FAM1	DAD	0	0	1	1	wgs
FAM1	MOM	0	0	2	1	wgs
`

func trioFixture(t *testing.T, cfg *config.Config, pedText string, dataLines ...string) (*TrioSampler, *EngineContext, *vcf.Catalog) {
	t.Helper()
	cat := testCatalog(t, buildVCF([]string{"KID", "DAD", "MOM"}, dataLines...))
	ctx := NewEngineContext(17)
	res := config.NewResolver(cfg)
	set, err := NewAggregator(ctx, res, KindTrio).Aggregate(cat)
	require.NoError(t, err)

	var pedFile *ped.File
	if pedText != "" {
		pedFile, err = ped.Parse(strings.NewReader(pedText))
		require.NoError(t, err)
	}
	return NewTrioSampler(ctx, res, cfg, cat, set, pedFile), ctx, cat
}

func recessiveTrioConfig() *config.Config {
	cfg := config.New()
	cfg.Options[config.OptHeritability] = 1.0
	cfg.Options[config.OptInheritance] = "recessive"
	return cfg
}

func TestTrio_ResolveFromPedigree(t *testing.T) {
	s, _, _ := trioFixture(t, recessiveTrioConfig(), trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)

	trio, err := s.ResolveTrio("")
	require.NoError(t, err)
	assert.Equal(t, Trio{FamilyID: "FAM1", Proband: "KID", Mother: "MOM", Father: "DAD"}, trio)

	trio, err = s.ResolveTrio("KID")
	require.NoError(t, err)
	assert.Equal(t, "KID", trio.Proband)

	_, err = s.ResolveTrio("DAD")
	assert.Error(t, err, "proband without recorded parents must fail")
}

func TestTrio_Run(t *testing.T) {
	s, _, cat := trioFixture(t, recessiveTrioConfig(), trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)

	trio, err := s.ResolveTrio("")
	require.NoError(t, err)
	spikes, err := s.Run(trio)
	require.NoError(t, err)

	// One variant only: both parental draws land on rs1_0. The proband
	// receives one allele from each parent, each parent carries one.
	assert.Equal(t, 2, spikes.Dosage("rs1_0", "KID"))
	assert.Equal(t, 1, spikes.Dosage("rs1_0", "DAD"))
	assert.Equal(t, 1, spikes.Dosage("rs1_0", "MOM"))
	assert.True(t, cat.IsSpiked("rs1_0"))
}

func TestTrio_NonRecessiveGeneIsFatal(t *testing.T) {
	cfg := config.New()
	cfg.Options[config.OptHeritability] = 1.0
	cfg.Options[config.OptInheritance] = "dominant"

	s, _, _ := trioFixture(t, cfg, trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)
	trio, err := s.ResolveTrio("")
	require.NoError(t, err)

	_, err = s.Run(trio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recessive")
}

func TestTrio_ValidateFatalOnMissingVCFSample(t *testing.T) {
	s, _, _ := trioFixture(t, recessiveTrioConfig(), trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)

	err := s.Validate(Trio{Proband: "KID", Mother: "MOM", Father: "GHOST"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GHOST")

	err = s.Validate(Trio{Proband: "KID", Mother: "MOM"})
	assert.Error(t, err, "incomplete trio must fail")
}

func TestTrio_ValidateWarnsOnPedigreeMismatch(t *testing.T) {
	// Parents swapped relative to their pedigree sexes.
	s, ctx, _ := trioFixture(t, recessiveTrioConfig(), trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)

	err := s.Validate(Trio{FamilyID: "FAM1", Proband: "KID", Mother: "DAD", Father: "MOM"})
	require.NoError(t, err, "sex mismatch is a warning, not fatal")
	assert.Equal(t, 2, ctx.Warnings)
}

func TestTrio_HardHeritabilityGate(t *testing.T) {
	cfg := recessiveTrioConfig()
	cfg.Options[config.OptHeritability] = "=1"
	s, _, _ := trioFixture(t, cfg, trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)
	trio, err := s.ResolveTrio("")
	require.NoError(t, err)
	spikes, err := s.Run(trio)
	require.NoError(t, err)
	assert.Equal(t, 1, spikes.Len())

	cfg.Options[config.OptHeritability] = "=0"
	s2, _, _ := trioFixture(t, cfg, trioPED,
		dataLine("1", 100, "rs1", "AN=100;GENEINFO=G1", 3),
	)
	spikes, err = s2.Run(trio)
	require.NoError(t, err)
	assert.Equal(t, 0, spikes.Len())
}
