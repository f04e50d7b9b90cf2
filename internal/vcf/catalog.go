package vcf

import "fmt"

// Catalog is the in-memory representation of one disease-variant VCF:
// header metadata, records in file order, and the sample header.
// It is built once by LoadCatalog and afterwards mutated only by
// AppendMeta and MarkSpiked.
type Catalog struct {
	MetaLines   []string // ## header lines, append-only
	ChromLine   string   // original #CHROM header line
	Records     []*Record
	Samples     []string       // sample IDs in column order
	SampleIndex map[string]int // sample ID -> column index (0-based within samples)

	byKey  map[string]*Record
	spiked map[string]bool
}

// LoadCatalog reads every record from the parser into a new catalog.
func LoadCatalog(p *Parser) (*Catalog, error) {
	c := &Catalog{
		MetaLines:   p.MetaLines(),
		ChromLine:   p.ChromLine(),
		Samples:     p.SampleNames(),
		SampleIndex: make(map[string]int),
		byKey:       make(map[string]*Record),
		spiked:      make(map[string]bool),
	}
	for i, s := range c.Samples {
		c.SampleIndex[s] = i
	}

	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			break
		}
		c.Records = append(c.Records, r)
		c.byKey[r.Key] = r
	}

	return c, nil
}

// HasSample reports whether the sample ID appears in the #CHROM header.
func (c *Catalog) HasSample(id string) bool {
	_, ok := c.SampleIndex[id]
	return ok
}

// Record returns the record with the given dedup key.
func (c *Catalog) Record(key string) (*Record, error) {
	r, ok := c.byKey[key]
	if !ok {
		return nil, fmt.Errorf("no record with key %q in catalog", key)
	}
	return r, nil
}

// AppendMeta appends a ## metadata line to the header.
func (c *Catalog) AppendMeta(line string) {
	c.MetaLines = append(c.MetaLines, line)
}

// MarkSpiked marks the record with the given key as spiked.
func (c *Catalog) MarkSpiked(key string) {
	c.spiked[key] = true
}

// IsSpiked reports whether the record with the given key was spiked.
func (c *Catalog) IsSpiked(key string) bool {
	return c.spiked[key]
}

// HasMetaKey reports whether any metadata line declares the given
// header key with the given ID, e.g. HasMetaKey("FORMAT", "GT") matches
// a line starting "##FORMAT=<ID=GT".
func (c *Catalog) HasMetaKey(kind, id string) bool {
	prefix := "##" + kind + "=<ID=" + id
	for _, line := range c.MetaLines {
		if len(line) >= len(prefix) && line[:len(prefix)] == prefix {
			next := line[len(prefix):]
			if next == "" || next[0] == ',' || next[0] == '>' {
				return true
			}
		}
	}
	return false
}
