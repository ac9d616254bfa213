// Package preset is a registry of named formulas.
package preset

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/formula"
)

// Preset is a named formula with a suggested view.
type Preset struct {
	Name        string
	Source      string
	Description string
	// Span is the suggested width of the view, centred on the origin.
	Span string
}

// Compile compiles the preset's formula in z.
func (p Preset) Compile() (*formula.Formula, error) {
	return formula.Compile(p.Source, formula.DefaultVar)
}

var registry = map[string]Preset{}

// Register adds a preset to the registry, replacing any with the same name.
func Register(p Preset) {
	registry[p.Name] = p
}

// Get returns a preset by name.
func Get(name string) (Preset, error) {
	p, ok := registry[name]
	if !ok {
		return Preset{}, errors.Newf("unknown preset: %s (available: %v)", name, Names())
	}
	return p, nil
}

// Names returns all registered preset names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
