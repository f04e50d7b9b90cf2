package spike

// MaxDosage is the largest meaningful allele dosage: genotypes only
// distinguish absent (0), heterozygous (1), and homozygous (2).
const MaxDosage = 2

// SpikeMap is the mutable output ledger mapping variant key -> sample
// -> allele dosage. Entries are incremented, never overwritten, so
// repeated selection of the same variant for the same sample
// accumulates; accumulation past MaxDosage is capped and reported.
type SpikeMap struct {
	dosages map[string]map[string]int
	order   []string // variant keys in first-spike order
}

// NewSpikeMap creates an empty ledger.
func NewSpikeMap() *SpikeMap {
	return &SpikeMap{dosages: make(map[string]map[string]int)}
}

// Add injects one allele for the sample at the variant, returning the
// new dosage and whether the increment had to be capped at MaxDosage.
func (m *SpikeMap) Add(variantKey, sampleID string) (dosage int, capped bool) {
	samples, ok := m.dosages[variantKey]
	if !ok {
		samples = make(map[string]int)
		m.dosages[variantKey] = samples
		m.order = append(m.order, variantKey)
	}
	d := samples[sampleID] + 1
	if d > MaxDosage {
		d = MaxDosage
		capped = true
	}
	samples[sampleID] = d
	return d, capped
}

// Dosage returns the accumulated dosage for a (variant, sample) pair;
// pairs never spiked report zero.
func (m *SpikeMap) Dosage(variantKey, sampleID string) int {
	return m.dosages[variantKey][sampleID]
}

// Has reports whether any sample was spiked at the variant.
func (m *SpikeMap) Has(variantKey string) bool {
	_, ok := m.dosages[variantKey]
	return ok
}

// Keys returns the spiked variant keys in first-spike order.
func (m *SpikeMap) Keys() []string {
	return m.order
}

// Len returns the number of spiked variants.
func (m *SpikeMap) Len() int {
	return len(m.order)
}
