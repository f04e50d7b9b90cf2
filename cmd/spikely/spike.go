package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/spikely/internal/config"
	"github.com/inodb/spikely/internal/output"
	"github.com/inodb/spikely/internal/spike"
	"github.com/inodb/spikely/internal/vcf"
)

// optionFlags maps spiking-option flag names to config option names.
// Each populates the command-line tier of the resolver when set.
var optionFlags = map[string]string{
	"heritability": config.OptHeritability,
	"inheritance":  config.OptInheritance,
	"par":          config.OptPAR,
	"case-ids":     config.OptCaseIDs,
	"af-key":       config.OptAFKey,
	"an-key":       config.OptANKey,
	"ac-key":       config.OptACKey,
	"default-af":   config.OptDefaultAF,
	"max-rate":     config.OptMaxRate,
	"max-maf":      config.OptMaxMAF,
	"gene-id-key":  config.OptGeneIDKey,
}

// Fallback allele frequency when neither flags nor config supply one.
const builtinDefaultAF = 8.3e-6

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("heritability", "", "probability a case is spiked, or =<fraction> for an exact count")
	cmd.Flags().String("inheritance", "", "inheritance mode: dominant|recessive|x-linked|additive|de_novo")
	cmd.Flags().Float64("par", 0, "population attributable risk weight per gene")
	cmd.Flags().String("case-ids", "", "comma-separated case sample IDs (default: all samples)")
	cmd.Flags().String("af-key", "", "INFO key holding the allele frequency (default AF)")
	cmd.Flags().String("an-key", "", "INFO key holding the allele number (default AN)")
	cmd.Flags().String("ac-key", "", "INFO key holding the allele count (default AC)")
	cmd.Flags().Float64("default-af", builtinDefaultAF, "allele frequency when no INFO rule applies")
	cmd.Flags().Float64("max-rate", 0, "upper bound on probabilistic heritability")
	cmd.Flags().Float64("max-maf", 0, "exclude variants with resolved frequency above this")
	cmd.Flags().String("gene-id-key", "", "INFO key holding the gene identifier (default GENEINFO)")
}

// bindOptionFlags copies explicitly-set option flags into the resolver
// and seeds the documented default_af when nothing else supplies one.
func bindOptionFlags(cmd *cobra.Command, res *config.Resolver, cfg *config.Config) error {
	for flagName, optName := range optionFlags {
		if !cmd.Flags().Changed(flagName) {
			continue
		}
		f := cmd.Flags().Lookup(flagName)
		switch f.Value.Type() {
		case "float64":
			v, err := cmd.Flags().GetFloat64(flagName)
			if err != nil {
				return err
			}
			res.SetFlag(optName, v)
		default:
			v, err := cmd.Flags().GetString(flagName)
			if err != nil {
				return err
			}
			res.SetFlag(optName, v)
		}
	}

	if !cmd.Flags().Changed("default-af") {
		if _, ok := cfg.Options[config.OptDefaultAF]; !ok {
			res.SetFlag(config.OptDefaultAF, builtinDefaultAF)
		}
	}
	return nil
}

// setup loads the layered config, builds the resolver and engine
// context, and reads the input VCF into a catalog.
func setup(cmd *cobra.Command, inputPath string, seed int64) (*config.Config, *config.Resolver, *spike.EngineContext, *vcf.Catalog, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	res := config.NewResolver(cfg)
	res.SetLogger(logger)
	if err := bindOptionFlags(cmd, res, cfg); err != nil {
		return nil, nil, nil, nil, err
	}

	parser, err := vcf.NewParser(inputPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer parser.Close()

	cat, err := vcf.LoadCatalog(parser)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ctx := spike.NewEngineContext(seed)
	ctx.SetLogger(logger)
	ctx.Invocation = strings.Join(os.Args, " ")

	logger.Info("loaded variant catalog",
		zap.String("file", inputPath),
		zap.Int("variants", len(cat.Records)),
		zap.Int("samples", len(cat.Samples)))

	return cfg, res, ctx, cat, nil
}

// writeResults serializes the spiked VCF and the optional dosage
// matrix.
func writeResults(cat *vcf.Catalog, spikes *spike.SpikeMap, ctx *spike.EngineContext, outputFile, matrixFile string) error {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := output.NewWriter(out).Write(cat, spikes, ctx.Invocation); err != nil {
		return err
	}

	if matrixFile != "" {
		if err := output.WriteDosageMatrix(matrixFile, cat, spikes); err != nil {
			return err
		}
	}

	ctx.Log.Info("spiking complete",
		zap.Int("spiked_variants", spikes.Len()),
		zap.Int("warnings", ctx.Warnings),
		zap.Int("dosage_caps", ctx.DosageCaps))
	return nil
}

func newSpikeCmd() *cobra.Command {
	var (
		outputFile string
		matrixFile string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "spike [flags] <input.vcf>",
		Short: "Spike a case/control cohort",
		Long: `Spike reads a disease-variant VCF and injects causal genotypes into the
case samples: each case passes the heritability gate, then one gene is
drawn by PAR weight and one or two variants by allele-frequency weight,
depending on the gene's inheritance mode.`,
		Example: `  spikely spike --seed 42 -o spiked.vcf cohort.vcf
  spikely spike --heritability "=0.3" --case-ids S1,S2,S3 cohort.vcf
  spikely spike --dosage-matrix dosage.npy cohort.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, ctx, cat, err := setup(cmd, args[0], seed)
			if err != nil {
				return err
			}

			set, err := spike.NewAggregator(ctx, res, spike.KindCohort).Aggregate(cat)
			if err != nil {
				return err
			}

			sampler := spike.NewCohortSampler(ctx, res, cfg, cat, set)
			spikes, cases, err := sampler.Run()
			if err != nil {
				return err
			}

			spiked := 0
			for _, c := range cases {
				if c.Spiked {
					spiked++
				}
			}
			ctx.Log.Info("cohort sampled",
				zap.Int("cases", len(cases)),
				zap.Int("spiked_samples", spiked))

			return writeResults(cat, spikes, ctx, outputFile, matrixFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output VCF file (default: stdout)")
	cmd.Flags().StringVar(&matrixFile, "dosage-matrix", "", "also write a NumPy dosage matrix to this path")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time-derived, non-reproducible)")
	addOptionFlags(cmd)

	return cmd
}
