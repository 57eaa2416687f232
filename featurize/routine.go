// Package featurize implements the automatic feature-generation stage:
// it recognizes domain-object columns by name, derives missing
// representations where a derivation path exists, and runs a configurable
// set of featurization routines that append numeric feature columns.
package featurize

import (
	"sort"

	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/materials"
)

// Recognized domain-object column names. Column-name-driven inference is
// a closed table: a column takes part in featurization only if it carries
// one of these names.
const (
	ColComposition   = "composition"
	ColStructure     = "structure"
	ColBandstructure = "bandstructure"
	ColDOS           = "dos"
)

// RecognizedColumns lists the domain-object column names in table order.
var RecognizedColumns = []string{ColComposition, ColStructure, ColBandstructure, ColDOS}

// IsRecognized reports whether a column name is a recognized domain-object
// role.
func IsRecognized(name string) bool {
	for _, c := range RecognizedColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Routine is one feature-generation algorithm. Routines are stateless:
// fitted featurizer snapshots record routine names and reconstruct the
// routines from the registry.
type Routine interface {
	// Name identifies the routine for include/exclude filters and caching.
	Name() string

	// Source is the recognized column the routine consumes.
	Source() string

	// Labels are the feature column names the routine appends, in order.
	Labels() []string

	// Featurize computes the feature vector for one cell of the source
	// column. A returned error marks the row's features NaN without
	// aborting the pipeline.
	Featurize(obj interface{}) ([]float64, error)
}

// registry maps routine names to constructors of their default-configured
// instances.
var registry = map[string]func() Routine{
	"ElementProperty":  func() Routine { return &ElementProperty{} },
	"Stoichiometry":    func() Routine { return &Stoichiometry{} },
	"ElementFraction":  func() Routine { return &ElementFraction{} },
	"DensityFeatures":  func() Routine { return &DensityFeatures{} },
	"LatticeFeatures":  func() Routine { return &LatticeFeatures{} },
	"PackingFeatures":  func() Routine { return &PackingFeatures{} },
	"BandEdgeFeatures": func() Routine { return &BandEdgeFeatures{} },
	"DOSFeatures":      func() Routine { return &DOSFeatures{} },
}

// RoutineByName returns a fresh instance of the named routine.
func RoutineByName(name string) (Routine, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// RoutineNames returns every registered routine name, sorted.
func RoutineNames() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// presetRoutines maps preset names to routine sets. "debug" is the minimal
// smoke-test set, "express" the fast broad set, "heavy" everything.
var presetRoutines = map[string][]string{
	"debug": {
		"ElementProperty",
		"DensityFeatures",
	},
	"express": {
		"ElementProperty",
		"Stoichiometry",
		"DensityFeatures",
		"LatticeFeatures",
		"BandEdgeFeatures",
		"DOSFeatures",
	},
	"heavy": {
		"ElementProperty",
		"Stoichiometry",
		"ElementFraction",
		"DensityFeatures",
		"LatticeFeatures",
		"PackingFeatures",
		"BandEdgeFeatures",
		"DOSFeatures",
	},
}

// derivations is the directed derivation graph between domain
// representations: a missing source column can be computed from another
// recognized column. Currently the single edge structure -> composition.
var derivations = map[string]struct {
	From   string
	Derive func(obj interface{}) (interface{}, error)
}{
	ColComposition: {
		From: ColStructure,
		Derive: func(obj interface{}) (interface{}, error) {
			s, ok := obj.(materials.Structure)
			if !ok {
				if sp, ok := obj.(*materials.Structure); ok {
					s = *sp
				} else {
					return nil, errTypeMismatch(ColStructure, obj)
				}
			}
			return s.Composition(), nil
		},
	},
}

// hasUsableColumn reports whether a frame carries the named column with at
// least one non-missing cell. Columns that exist but are entirely empty
// count as absent for featurization purposes.
func hasUsableColumn(df *dataframe.DataFrame, name string) bool {
	cells, ok := df.Col(name)
	if !ok {
		return false
	}
	for _, v := range cells {
		if !dataframe.IsMissing(v) {
			return true
		}
	}
	return false
}
