package ped

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPED = `# family sample father mother sex affection project
FAM1	CHILD1	DAD1	MOM1	1	2	wgs
FAM1	DAD1	0	0	1	1	wgs
FAM1	MOM1	0	0	2	1	wgs
FAM2	SOLO1	0	0	2	2
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(testPED))
	require.NoError(t, err)
	require.Len(t, f.Individuals, 4)

	child, ok := f.Individual("CHILD1")
	require.True(t, ok)
	assert.Equal(t, "FAM1", child.FamilyID)
	assert.Equal(t, "DAD1", child.FatherID)
	assert.Equal(t, "MOM1", child.MotherID)
	assert.Equal(t, SexMale, child.Sex)
	assert.Equal(t, AffectionAffected, child.Affection)
	assert.Equal(t, "wgs", child.Project)

	solo, ok := f.Individual("SOLO1")
	require.True(t, ok)
	assert.Equal(t, "", solo.Project)
}

func TestParents(t *testing.T) {
	f, err := Parse(strings.NewReader(testPED))
	require.NoError(t, err)

	child, _ := f.Individual("CHILD1")
	father, mother := f.Parents(child)
	require.NotNil(t, father)
	require.NotNil(t, mother)
	assert.Equal(t, "DAD1", father.ID)
	assert.Equal(t, "MOM1", mother.ID)

	// NoParent sentinel yields nil parents.
	solo, _ := f.Individual("SOLO1")
	father, mother = f.Parents(solo)
	assert.Nil(t, father)
	assert.Nil(t, mother)
}

func TestFamily(t *testing.T) {
	f, err := Parse(strings.NewReader(testPED))
	require.NoError(t, err)

	fam := f.Family("FAM1")
	require.Len(t, fam, 3)
	assert.Equal(t, "CHILD1", fam[0].ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("FAM1 CHILD1 0 0 1\n"))
	assert.Error(t, err, "short row should fail")

	_, err = Parse(strings.NewReader("FAM1 CHILD1 0 0 male 2\n"))
	assert.Error(t, err, "non-numeric sex should fail")
}
