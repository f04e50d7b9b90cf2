package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/spikely/internal/spike"
)

// Planned cohort variants with no logic yet.

func newDuoCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "duo [flags] <input.vcf>",
		Short:  "Spike a proband plus a single parent (not implemented)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return spike.RunDuo()
		},
	}
}

func newQuartetCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "quartet [flags] <input.vcf>",
		Short:  "Spike a two-sibling family (not implemented)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return spike.RunQuartet()
		},
	}
}

func newPedigreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "pedigree [flags] <input.vcf>",
		Short:  "Spike an arbitrary pedigree (not implemented)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return spike.RunPedigree()
		},
	}
}
