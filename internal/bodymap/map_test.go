package bodymap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestMap(t *testing.T) *Map {
	t.Helper()
	m, err := Load()
	require.NoError(t, err)
	return m
}

func TestSystemsFor_KnownMedication(t *testing.T) {
	m := loadTestMap(t)

	points := m.SystemsFor([]string{"Metformin"})
	require.Len(t, points, 2)
	assert.Equal(t, "Digestive", points[0].System)
	assert.Equal(t, "Endocrine", points[1].System)

	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 1.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 1.0)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, p.Color)
	}
}

func TestSystemsFor_CaseInsensitiveDedup(t *testing.T) {
	m := loadTestMap(t)

	base := m.SystemsFor([]string{"Metformin"})
	folded := m.SystemsFor([]string{"Metformin", "metformin", "  METFORMIN "})
	assert.Equal(t, base, folded)
}

func TestSystemsFor_OverlappingSystemsDedup(t *testing.T) {
	m := loadTestMap(t)

	// Lisinopril and Atorvastatin both touch Cardiovascular; the output
	// must carry exactly one Cardiovascular point.
	points := m.SystemsFor([]string{"Lisinopril", "Atorvastatin"})
	count := 0
	for _, p := range points {
		if p.System == "Cardiovascular" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSystemsFor_UnknownIgnored(t *testing.T) {
	m := loadTestMap(t)

	assert.Empty(t, m.SystemsFor([]string{"Unobtainium"}))
	assert.Empty(t, m.SystemsFor(nil))

	// Unknown names mixed with known ones contribute nothing.
	assert.Equal(t,
		m.SystemsFor([]string{"Aspirin"}),
		m.SystemsFor([]string{"Aspirin", "Unobtainium"}),
	)
}

func TestSystemsFor_InputNotMutated(t *testing.T) {
	m := loadTestMap(t)

	in := []string{"  metformin ", "Unobtainium"}
	m.SystemsFor(in)
	assert.Equal(t, []string{"  metformin ", "Unobtainium"}, in)
}

func TestSystemForTest(t *testing.T) {
	m := loadTestMap(t)

	sys, ok := m.SystemForTest("ldl")
	require.True(t, ok)
	assert.Equal(t, "Cardiovascular", sys)

	sys, ok = m.SystemForTest(" Creatinine ")
	require.True(t, ok)
	assert.Equal(t, "Renal", sys)

	_, ok = m.SystemForTest("nope")
	assert.False(t, ok)
}

func TestRangeFor(t *testing.T) {
	m := loadTestMap(t)

	r, ok := m.RangeFor("Glucose")
	require.True(t, ok)
	assert.Equal(t, 70.0, r.Low)
	assert.Equal(t, 100.0, r.High)
	assert.Equal(t, "mg/dL", r.Unit)

	_, ok = m.RangeFor("not a test")
	assert.False(t, ok)
}

func TestLoadBytes_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"coordinate out of range", `
systems:
  Cardiovascular: {x: 1.5, y: 0.3, color: "#ef5350", tests: []}
medications: {}
ranges: {}
`},
		{"bad color", `
systems:
  Cardiovascular: {x: 0.5, y: 0.3, color: "red", tests: []}
medications: {}
ranges: {}
`},
		{"range missing unit", `
systems: {}
medications: {}
ranges:
  LDL: {low: 0, high: 130}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadBytes_UnknownSystemReference(t *testing.T) {
	data := `
systems:
  Cardiovascular: {x: 0.5, y: 0.3, color: "#ef5350", tests: []}
medications:
  Lisinopril: [Cardiovascular, Atlantis]
ranges: {}
`
	_, err := LoadBytes([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestLoad_EmbeddedDataValid(t *testing.T) {
	m := loadTestMap(t)
	assert.NotEmpty(t, m.Systems())
	assert.True(t, m.KnownMedication("Metformin"))
}

func TestTestsFor(t *testing.T) {
	m := loadTestMap(t)

	tests := m.TestsFor("cardiovascular")
	require.NotEmpty(t, tests)
	assert.Contains(t, tests, "LDL")
	assert.True(t, sort.StringsAreSorted(tests))

	tests[0] = "mutated"
	assert.NotContains(t, m.TestsFor("Cardiovascular"), "mutated")
}

func TestTestsFor_UnknownSystem(t *testing.T) {
	m := loadTestMap(t)
	assert.Nil(t, m.TestsFor("Atlantis"))
}
