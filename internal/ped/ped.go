// Package ped provides pedigree (PED) file parsing.
package ped

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel parent ID meaning "no parent recorded".
const NoParent = "0"

// Sex codes used in PED files.
const (
	SexUnknown = 0
	SexMale    = 1
	SexFemale  = 2
)

// Affection status codes used in PED files.
const (
	AffectionUnknown    = 0
	AffectionUnaffected = 1
	AffectionAffected   = 2
)

// Individual is one pedigree row.
type Individual struct {
	FamilyID  string
	ID        string
	FatherID  string // NoParent when absent
	MotherID  string // NoParent when absent
	Sex       int
	Affection int
	Project   string // optional trailing column
}

// File holds a parsed pedigree with lookup indices.
type File struct {
	Individuals []*Individual

	byID     map[string]*Individual
	byFamily map[string][]*Individual
}

// Parse reads a pedigree from a reader. Lines starting with '#' and
// blank lines are skipped. Columns are tab- or space-separated:
// family_id sample_id paternal_id maternal_id sex affection [project].
func Parse(r io.Reader) (*File, error) {
	f := &File{
		byID:     make(map[string]*Individual),
		byFamily: make(map[string][]*Individual),
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("ped parse error at line %d: expected at least 6 columns, found %d", lineNumber, len(fields))
		}

		ind := &Individual{
			FamilyID: fields[0],
			ID:       fields[1],
			FatherID: fields[2],
			MotherID: fields[3],
		}
		if _, err := fmt.Sscanf(fields[4], "%d", &ind.Sex); err != nil {
			return nil, fmt.Errorf("ped parse error at line %d: invalid sex %q", lineNumber, fields[4])
		}
		if _, err := fmt.Sscanf(fields[5], "%d", &ind.Affection); err != nil {
			return nil, fmt.Errorf("ped parse error at line %d: invalid affection %q", lineNumber, fields[5])
		}
		if len(fields) > 6 {
			ind.Project = fields[6]
		}

		f.Individuals = append(f.Individuals, ind)
		f.byID[ind.ID] = ind
		f.byFamily[ind.FamilyID] = append(f.byFamily[ind.FamilyID], ind)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ped file: %w", err)
	}

	return f, nil
}

// Load parses a pedigree file from disk.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ped file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Individual returns the pedigree row for the given sample ID.
func (f *File) Individual(id string) (*Individual, bool) {
	ind, ok := f.byID[id]
	return ind, ok
}

// Family returns all individuals sharing a family ID, in file order.
func (f *File) Family(familyID string) []*Individual {
	return f.byFamily[familyID]
}

// Parents returns the father and mother rows of the given individual.
// A missing row (absent from the file, or NoParent) is returned as nil.
func (f *File) Parents(ind *Individual) (father, mother *Individual) {
	if ind.FatherID != NoParent {
		father = f.byID[ind.FatherID]
	}
	if ind.MotherID != NoParent {
		mother = f.byID[ind.MotherID]
	}
	return father, mother
}
