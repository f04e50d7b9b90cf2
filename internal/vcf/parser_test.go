package vcf

import (
	"strings"
	"testing"
)

const testVCF = `##fileformat=VCFv4.2
##INFO=<ID=AF,Number=A,Type=Float,Description="Allele Frequency">
##INFO=<ID=GENEINFO,Number=1,Type=String,Description="Gene name">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1	S2	S3
1	1001	rs1	A	G	50	PASS	AF=0.01;GENEINFO=BRCA1	GT	0/0	0/0	0/0
1	2002	rs2	C	T	.	PASS	AN=100;DB	GT	0/0	0/0	0/0
2	3003	rs2	G	A	99	PASS	.
`

func TestParser_Records(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	r, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if r == nil {
		t.Fatal("Expected a record, got nil")
	}

	if r.Chrom != "1" {
		t.Errorf("Expected chrom 1, got %s", r.Chrom)
	}
	if r.Pos != 1001 {
		t.Errorf("Expected pos 1001, got %d", r.Pos)
	}
	if r.Key != "rs1_0" {
		t.Errorf("Expected key rs1_0, got %s", r.Key)
	}
	if got, _ := r.InfoFirst("AF"); got != "0.01" {
		t.Errorf("Expected AF=0.01, got %s", got)
	}
	if len(r.Samples) != 3 {
		t.Errorf("Expected 3 sample columns, got %d", len(r.Samples))
	}
	if len(r.Format) != 1 || r.Format[0] != "GT" {
		t.Errorf("Expected FORMAT [GT], got %v", r.Format)
	}
}

func TestParser_FlagInfoAndMissingColumns(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	parser.Next() // rs1
	r, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}

	if !r.HasInfo("DB") {
		t.Error("Expected DB flag to be present")
	}
	if _, ok := r.InfoFirst("DB"); ok {
		t.Error("Flag key should carry no values")
	}

	// Third record has no FORMAT/sample columns and "." INFO.
	r, err = parser.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if len(r.Format) != 0 || len(r.Samples) != 0 {
		t.Errorf("Expected no FORMAT/sample columns, got %v / %v", r.Format, r.Samples)
	}
	if len(r.Info) != 0 {
		t.Errorf("Expected empty INFO map for '.', got %v", r.Info)
	}
}

func TestParser_DuplicateIDKeys(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	var keys []string
	for {
		r, err := parser.Next()
		if err != nil {
			t.Fatalf("Failed to read record: %v", err)
		}
		if r == nil {
			break
		}
		keys = append(keys, r.Key)
	}

	want := []string{"rs1_0", "rs2_0", "rs2_1"}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestParser_SampleHeader(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	samples := parser.SampleNames()
	if len(samples) != 3 || samples[0] != "S1" || samples[2] != "S3" {
		t.Errorf("Unexpected sample names: %v", samples)
	}
	if len(parser.MetaLines()) != 3 {
		t.Errorf("Expected 3 meta lines, got %d", len(parser.MetaLines()))
	}
	if !strings.HasPrefix(parser.ChromLine(), "#CHROM") {
		t.Errorf("Unexpected #CHROM line: %s", parser.ChromLine())
	}
}

func TestParser_MissingHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("1\t100\trs1\tA\tG\t.\tPASS\t.\n"))
	if err == nil {
		t.Fatal("Expected error for missing #CHROM header")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Expected ParseError, got %T", err)
	}
}
