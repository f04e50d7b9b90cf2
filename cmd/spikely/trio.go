package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/spikely/internal/ped"
	"github.com/inodb/spikely/internal/spike"
)

func newTrioCmd() *cobra.Command {
	var (
		outputFile string
		matrixFile string
		seed       int64
		pedFile    string
		probandID  string
		motherID   string
		fatherID   string
	)

	cmd := &cobra.Command{
		Use:   "trio [flags] <input.vcf>",
		Short: "Spike a mother/father/proband trio",
		Long: `Trio spikes a recessive genotype into one family: one maternal and one
paternal allele draw, each recorded for the carrier parent and the
proband. The trio is resolved from a pedigree file, or given directly
with --mother/--father/--proband.`,
		Example: `  spikely trio --ped family.ped --seed 42 -o spiked.vcf trio.vcf
  spikely trio --proband KID --mother MOM --father DAD trio.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, ctx, cat, err := setup(cmd, args[0], seed)
			if err != nil {
				return err
			}

			var pedigree *ped.File
			if pedFile != "" {
				pedigree, err = ped.Load(pedFile)
				if err != nil {
					return err
				}
			}

			set, err := spike.NewAggregator(ctx, res, spike.KindTrio).Aggregate(cat)
			if err != nil {
				return err
			}
			sampler := spike.NewTrioSampler(ctx, res, cfg, cat, set, pedigree)

			trio := spike.Trio{Proband: probandID, Mother: motherID, Father: fatherID}
			if motherID == "" || fatherID == "" {
				if pedigree == nil {
					return fmt.Errorf("either --ped or all of --proband/--mother/--father are required")
				}
				trio, err = sampler.ResolveTrio(probandID)
				if err != nil {
					return err
				}
			}
			ctx.Log.Info("resolved trio",
				zap.String("family", trio.FamilyID),
				zap.String("proband", trio.Proband),
				zap.String("mother", trio.Mother),
				zap.String("father", trio.Father))

			spikes, err := sampler.Run(trio)
			if err != nil {
				return err
			}

			return writeResults(cat, spikes, ctx, outputFile, matrixFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output VCF file (default: stdout)")
	cmd.Flags().StringVar(&matrixFile, "dosage-matrix", "", "also write a NumPy dosage matrix to this path")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time-derived, non-reproducible)")
	cmd.Flags().StringVar(&pedFile, "ped", "", "pedigree file")
	cmd.Flags().StringVar(&probandID, "proband", "", "proband sample ID (default: first affected with both parents)")
	cmd.Flags().StringVar(&motherID, "mother", "", "mother sample ID (bypasses pedigree lookup)")
	cmd.Flags().StringVar(&fatherID, "father", "", "father sample ID (bypasses pedigree lookup)")
	addOptionFlags(cmd)

	return cmd
}
