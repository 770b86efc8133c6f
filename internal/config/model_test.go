package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKey(t *testing.T) {
	assert.Equal(t, "u", EntryKey("u", ""))
	assert.Equal(t, "u/inlet", EntryKey("u", "inlet"))
}

func TestSectionNames_Order(t *testing.T) {
	m := NewModel()
	m.Set(SectionReferenceSolutions, "u", "0")
	m.Set(BoundarySection("neumann"), "u/top", "0")
	m.Set(SectionInitialConditions, "u", "0")
	m.Set(BoundarySection("dirichlet"), "u/left", "1")
	m.Set(SectionModelParameters, "k", "1")

	assert.Equal(t, []string{
		"model_parameters",
		"boundary_conditions.dirichlet",
		"boundary_conditions.neumann",
		"initial_conditions",
		"reference_solutions",
	}, m.SectionNames())
}

func TestMerge(t *testing.T) {
	a := NewModel()
	a.Run = Run{Model: "heat"}
	a.Set(SectionModelParameters, "k", "1")

	b := NewModel()
	b.Mesh = &Mesh{File: "m.vol"}
	b.Set(SectionModelParameters, "f", "x")
	b.ModelVariables = []*ModelVariable{{Name: "u", Initial: "0"}}

	require.NoError(t, a.Merge(b))
	assert.Equal(t, "m.vol", a.Mesh.File)
	assert.Equal(t, Section{"k": "1", "f": "x"}, a.Sections[SectionModelParameters])
	assert.Len(t, a.ModelVariables, 1)

	c := NewModel()
	c.Run = Run{Model: "other"}
	c.Set(SectionModelParameters, "k", "2")
	err := a.Merge(c)
	assert.ErrorContains(t, err, "duplicate run block")
	assert.ErrorContains(t, err, `duplicate entry "k"`)
}

func TestValidate(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Validate())

	m.Time = Time{Steps: 3}
	m.ModelVariables = []*ModelVariable{{Name: "u", Initial: "0"}, {Name: "u", Initial: "1"}, {Name: "v"}}
	m.Set(SectionModelParameters, "k", "  ")

	err := m.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "step must be positive")
	assert.ErrorContains(t, err, `"u" declared twice`)
	assert.ErrorContains(t, err, `"v": initial is required`)
	assert.ErrorContains(t, err, `entry "k" is empty`)
}
