package bodymap

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed refdata.yaml
var refdataYAML []byte

//go:embed refdata.cue
var schemaCUE string

// rawRefdata mirrors the YAML document shape for decoding.
type rawRefdata struct {
	Systems     map[string]rawSystem      `yaml:"systems"`
	Medications map[string][]string       `yaml:"medications"`
	Ranges      map[string]ReferenceRange `yaml:"ranges"`
}

type rawSystem struct {
	X     float64  `yaml:"x"`
	Y     float64  `yaml:"y"`
	Color string   `yaml:"color"`
	Tests []string `yaml:"tests"`
}

// Load builds the reference Map from the embedded data, validating it
// against the embedded CUE schema first. The result is immutable; load it
// once at process start and share it.
func Load() (*Map, error) {
	return LoadBytes(refdataYAML)
}

// LoadBytes builds a Map from YAML reference data. Exposed so tests can
// exercise the loader with bad data; production callers use Load.
func LoadBytes(data []byte) (*Map, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var raw rawRefdata
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}

	m := &Map{
		systems:   make(map[string]systemEntry, len(raw.Systems)),
		meds:      make(map[string][]string, len(raw.Medications)),
		ranges:    make(map[string]ReferenceRange, len(raw.Ranges)),
		testIndex: make(map[string]string),
	}

	for name, sys := range raw.Systems {
		m.systems[canonicalName(name)] = systemEntry{
			name:  name,
			point: SystemPoint{System: name, X: sys.X, Y: sys.Y, Color: sys.Color},
			tests: sys.Tests,
		}
		for _, test := range sys.Tests {
			m.testIndex[canonicalName(test)] = name
		}
	}

	for med, systems := range raw.Medications {
		for _, sys := range systems {
			if _, ok := m.systems[canonicalName(sys)]; !ok {
				return nil, fmt.Errorf("reference data: medication %q maps to unknown system %q", med, sys)
			}
		}
		m.meds[canonicalName(med)] = systems
	}

	for test, r := range raw.Ranges {
		if r.Low > r.High {
			return nil, fmt.Errorf("reference data: range for %q has low %v > high %v", test, r.Low, r.High)
		}
		m.ranges[canonicalName(test)] = r
	}

	return m, nil
}

// validateSchema unifies the YAML document with the CUE schema and reports
// the first violation.
func validateSchema(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse reference data: %w", err)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("refdata.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile reference schema: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode reference data: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("reference data violates schema: %w", err)
	}

	return nil
}
