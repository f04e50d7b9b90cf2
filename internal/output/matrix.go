package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/kshedden/gonpy"

	"github.com/inodb/spikely/internal/spike"
	"github.com/inodb/spikely/internal/vcf"
)

// WriteDosageMatrix exports spiked dosages as a NumPy .npy matrix of
// shape (samples, spiked variants), row-major float64. Row order is the
// VCF sample order; column order matches the spiked records in the VCF
// output. Sidecar files <path>.rows and <path>.cols list sample IDs and
// variant keys, one per line.
func WriteDosageMatrix(path string, cat *vcf.Catalog, spikes *spike.SpikeMap) error {
	var cols []string
	for _, rec := range cat.Records {
		if spikes.Has(rec.Key) {
			cols = append(cols, rec.Key)
		}
	}
	rows := cat.Samples

	data := make([]float64, 0, len(rows)*len(cols))
	for _, sample := range rows {
		for _, key := range cols {
			data = append(data, float64(spikes.Dosage(key, sample)))
		}
	}

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("create npy file: %w", err)
	}
	w.Shape = []int{len(rows), len(cols)}
	if err := w.WriteFloat64(data); err != nil {
		return fmt.Errorf("write npy matrix: %w", err)
	}

	if err := writeLines(path+".rows", rows); err != nil {
		return err
	}
	return writeLines(path+".cols", cols)
}

func writeLines(path string, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
