// Package vcf provides VCF file parsing and the in-memory variant catalog.
package vcf

import (
	"fmt"
	"strings"
)

// Record represents a single data line from a VCF file.
// Records are immutable once parsed; the catalog owns them.
type Record struct {
	Chrom   string              // Chromosome name (e.g., "12", "chr12")
	Pos     int64               // 1-based genomic position
	ID      string              // Variant identifier (e.g., rs ID)
	Ref     string              // Reference allele
	Alt     string              // Alternate allele(s), comma-separated as written
	Qual    string              // Quality column as written ("." preserved)
	Filter  string              // Filter status (PASS or filter name)
	RawInfo string              // INFO column exactly as written
	Info    map[string][]string // parsed INFO: key -> ordered values (flags map to nil)
	Format  []string            // FORMAT field keys, empty when column absent
	Samples []string            // per-sample genotype columns, opaque pass-through

	// Key uniquely identifies the record within one file, even when the
	// same ID occurs on multiple lines: "<id>_<occurrence>".
	Key string
}

// HasInfo reports whether the INFO column carries the given key
// (as a flag or with values).
func (r *Record) HasInfo(key string) bool {
	_, ok := r.Info[key]
	return ok
}

// InfoFirst returns the first value stored under the given INFO key.
// Returns "" and false for missing keys and bare flags.
func (r *Record) InfoFirst(key string) (string, bool) {
	vals, ok := r.Info[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// FixedColumns returns the eight fixed VCF columns joined by tabs,
// with extra appended to the INFO column when non-empty.
func (r *Record) FixedColumns(extraInfo string) string {
	info := r.RawInfo
	if extraInfo != "" {
		if info == "." || info == "" {
			info = extraInfo
		} else {
			info = info + ";" + extraInfo
		}
	}
	return strings.Join([]string{
		r.Chrom,
		fmt.Sprintf("%d", r.Pos),
		r.ID,
		r.Ref,
		r.Alt,
		r.Qual,
		r.Filter,
		info,
	}, "\t")
}

// parseInfo parses the INFO column into a key -> values map.
// Values of a key keep their comma-separated order; bare flags map to nil.
func parseInfo(info string) map[string][]string {
	result := make(map[string][]string)
	if info == "." || info == "" {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = strings.Split(parts[1], ",")
		} else {
			// Flag-type INFO field
			result[parts[0]] = nil
		}
	}

	return result
}
