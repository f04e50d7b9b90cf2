// Package output serializes spiking results: the annotated VCF and the
// numeric dosage matrix.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/spikely/internal/spike"
	"github.com/inodb/spikely/internal/vcf"
)

// Header lines appended to the output VCF.
const (
	spikelyInfoLine = `##INFO=<ID=SPIKELY,Number=0,Type=Flag,Description="Genotype spiked in by spikely">`
	gtFormatLine    = `##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`
)

// Writer emits the spiked subset of a catalog as VCF: original
// metadata plus SPIKELY/GT/provenance declarations, then only the
// records present in the spike ledger, each with synthesized genotypes.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a spiked-VCF writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Genotype maps an allele dosage to its VCF genotype string.
func Genotype(dosage int) string {
	switch dosage {
	case 2:
		return "1/1"
	case 1:
		return "0/1"
	default:
		return "0/0"
	}
}

// Write serializes the catalog's spiked records. Records with no ledger
// entry are dropped entirely; invocation is recorded as provenance.
func (wr *Writer) Write(cat *vcf.Catalog, spikes *spike.SpikeMap, invocation string) error {
	for _, line := range cat.MetaLines {
		if err := wr.line(line); err != nil {
			return err
		}
	}
	if err := wr.line(spikelyInfoLine); err != nil {
		return err
	}
	if !cat.HasMetaKey("FORMAT", "GT") {
		if err := wr.line(gtFormatLine); err != nil {
			return err
		}
	}
	if err := wr.line("##spikelyCommand=" + invocation); err != nil {
		return err
	}

	header := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}
	header = append(header, cat.Samples...)
	if err := wr.line(strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, rec := range cat.Records {
		if !spikes.Has(rec.Key) {
			continue
		}

		var sb strings.Builder
		sb.WriteString(rec.FixedColumns("SPIKELY"))
		sb.WriteString("\tGT")
		for _, sample := range cat.Samples {
			sb.WriteByte('\t')
			sb.WriteString(Genotype(spikes.Dosage(rec.Key, sample)))
		}
		if err := wr.line(sb.String()); err != nil {
			return err
		}
	}

	return wr.w.Flush()
}

func (wr *Writer) line(s string) error {
	if _, err := wr.w.WriteString(s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := wr.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
