package spike

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inodb/spikely/internal/vcf"
)

// buildVCF assembles a minimal VCF with the given sample IDs and data
// lines (8+ tab-separated columns each).
func buildVCF(samples []string, dataLines ...string) string {
	var sb strings.Builder
	sb.WriteString("##fileformat=VCFv4.2\n")
	sb.WriteString(`##INFO=<ID=AF,Number=A,Type=Float,Description="Allele Frequency">` + "\n")
	sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")
	if len(samples) > 0 {
		sb.WriteString("\tFORMAT")
		for _, s := range samples {
			sb.WriteString("\t" + s)
		}
	}
	sb.WriteString("\n")
	for _, line := range dataLines {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func testCatalog(t *testing.T, text string) *vcf.Catalog {
	t.Helper()
	parser, err := vcf.NewParserFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse test vcf: %v", err)
	}
	cat, err := vcf.LoadCatalog(parser)
	if err != nil {
		t.Fatalf("load test catalog: %v", err)
	}
	return cat
}

// sampleIDs generates n sample identifiers S001..Snnn.
func sampleIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("S%03d", i+1)
	}
	return ids
}

// dataLine builds one VCF record line with the given INFO column and
// 0/0 genotypes for every sample.
func dataLine(chrom string, pos int, id, info string, nSamples int) string {
	cols := []string{chrom, fmt.Sprintf("%d", pos), id, "A", "G", "50", "PASS", info}
	if nSamples > 0 {
		cols = append(cols, "GT")
		for i := 0; i < nSamples; i++ {
			cols = append(cols, "0/0")
		}
	}
	return strings.Join(cols, "\t")
}
