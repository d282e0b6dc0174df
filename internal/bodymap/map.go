package bodymap

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SystemPoint is one body system's render point on the diagram: normalized
// coordinates in the unit square plus its display color.
type SystemPoint struct {
	System string  `json:"system"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
}

// ReferenceRange is the normal band for a lab test.
type ReferenceRange struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
	Unit string  `yaml:"unit" json:"unit"`
}

// Map is the loaded, read-only reference table set. Safe for concurrent use.
type Map struct {
	systems   map[string]systemEntry // canonical system name -> entry
	meds      map[string][]string    // canonical medication name -> display system names
	ranges    map[string]ReferenceRange
	testIndex map[string]string // canonical test name -> display system name
}

type systemEntry struct {
	name  string
	point SystemPoint
	tests []string
}

// SystemsFor maps medication names to the body systems they affect.
//
// Lookups are case-insensitive on trimmed, NFC-normalized names; unknown
// medications contribute nothing and are never an error. The result is
// deduplicated by system: overlapping medications yield one point per
// system. Output is sorted by system name so callers that treat it as a set
// still see deterministic order. The input slice is not mutated.
func (m *Map) SystemsFor(medications []string) []SystemPoint {
	seen := make(map[string]SystemPoint)
	for _, med := range medications {
		for _, sys := range m.meds[canonicalName(med)] {
			entry := m.systems[canonicalName(sys)]
			seen[entry.name] = entry.point
		}
	}

	points := make([]SystemPoint, 0, len(seen))
	for _, p := range seen {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].System < points[j].System })
	return points
}

// TestsFor returns the lab tests tracked for a body system, sorted. The
// returned slice is a copy; callers may mutate it freely. Unknown systems
// yield nil.
func (m *Map) TestsFor(system string) []string {
	entry, ok := m.systems[canonicalName(system)]
	if !ok {
		return nil
	}
	tests := make([]string, len(entry.tests))
	copy(tests, entry.tests)
	sort.Strings(tests)
	return tests
}

// SystemForTest returns the body system a lab test belongs to.
func (m *Map) SystemForTest(test string) (string, bool) {
	sys, ok := m.testIndex[canonicalName(test)]
	return sys, ok
}

// RangeFor returns the reference range for a lab test.
func (m *Map) RangeFor(test string) (ReferenceRange, bool) {
	r, ok := m.ranges[canonicalName(test)]
	return r, ok
}

// Systems returns all body system names, sorted.
func (m *Map) Systems() []string {
	names := make([]string, 0, len(m.systems))
	for _, entry := range m.systems {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// KnownMedication reports whether a medication name has a mapping.
func (m *Map) KnownMedication(name string) bool {
	_, ok := m.meds[canonicalName(name)]
	return ok
}

// canonicalName folds a display name to its lookup key: NFC-normalized,
// trimmed, lowercased.
func canonicalName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
