package featurize

import (
	"math"
	"sort"

	"github.com/ardunn/automatminer/materials"
	"github.com/ardunn/automatminer/pkg/errors"
)

func errTypeMismatch(source string, obj interface{}) error {
	return errors.Newf("cell is not a usable %s object (%T)", source, obj)
}

// asComposition coerces a cell to a composition. Formula strings are
// parsed; structures contribute their derived composition.
func asComposition(obj interface{}) (materials.Composition, error) {
	switch x := obj.(type) {
	case materials.Composition:
		return x, nil
	case *materials.Composition:
		return *x, nil
	case string:
		return materials.ParseComposition(x)
	case materials.Structure:
		return x.Composition(), nil
	case *materials.Structure:
		return x.Composition(), nil
	default:
		return materials.Composition{}, errTypeMismatch(ColComposition, obj)
	}
}

// ElementProperty computes fraction-weighted statistics of elemental
// properties over a composition: mean, min, max and range of atomic mass,
// atomic number, electronegativity, covalent radius, periodic row and
// group.
type ElementProperty struct{}

var elementPropertyNames = []string{
	"AtomicMass", "AtomicNumber", "Electronegativity", "CovalentRadius", "Row", "Group",
}

func elementPropertyValue(d materials.ElementData, prop string) float64 {
	switch prop {
	case "AtomicMass":
		return d.Mass
	case "AtomicNumber":
		return float64(d.Z)
	case "Electronegativity":
		return d.Electronegativity
	case "CovalentRadius":
		return d.CovalentRadius
	case "Row":
		return float64(d.Row)
	case "Group":
		return float64(d.Group)
	}
	return math.NaN()
}

func (ep *ElementProperty) Name() string   { return "ElementProperty" }
func (ep *ElementProperty) Source() string { return ColComposition }

func (ep *ElementProperty) Labels() []string {
	stats := []string{"mean", "min", "max", "range"}
	out := make([]string, 0, len(elementPropertyNames)*len(stats))
	for _, prop := range elementPropertyNames {
		for _, stat := range stats {
			out = append(out, stat+" "+prop)
		}
	}
	return out
}

func (ep *ElementProperty) Featurize(obj interface{}) ([]float64, error) {
	comp, err := asComposition(obj)
	if err != nil {
		return nil, err
	}
	els := comp.Elements()
	if len(els) == 0 {
		return nil, errors.New("empty composition")
	}

	out := make([]float64, 0, len(elementPropertyNames)*4)
	for _, prop := range elementPropertyNames {
		mean := 0.0
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, el := range els {
			d, ok := materials.Element(el)
			if !ok {
				return nil, errors.Newf("element '%s' not in property table", el)
			}
			v := elementPropertyValue(d, prop)
			mean += v * comp.Fraction(el)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		out = append(out, mean, min, max, max-min)
	}
	return out, nil
}

// Stoichiometry computes composition-shape descriptors: the number of
// distinct elements, total atom count, and p-norms of the atomic fraction
// vector.
type Stoichiometry struct{}

func (st *Stoichiometry) Name() string   { return "Stoichiometry" }
func (st *Stoichiometry) Source() string { return ColComposition }

func (st *Stoichiometry) Labels() []string {
	return []string{"num elements", "num atoms", "frac 2-norm", "frac 3-norm"}
}

func (st *Stoichiometry) Featurize(obj interface{}) ([]float64, error) {
	comp, err := asComposition(obj)
	if err != nil {
		return nil, err
	}
	els := comp.Elements()
	if len(els) == 0 {
		return nil, errors.New("empty composition")
	}
	norm2, norm3 := 0.0, 0.0
	for _, el := range els {
		f := comp.Fraction(el)
		norm2 += f * f
		norm3 += f * f * f
	}
	return []float64{
		float64(len(els)),
		comp.NumAtoms(),
		math.Sqrt(norm2),
		math.Cbrt(norm3),
	}, nil
}

// ElementFraction emits the atomic fraction of every element in the
// property table as its own feature column. Broad and sparse; reserved
// for the heavy routine set.
type ElementFraction struct{}

func (ef *ElementFraction) Name() string   { return "ElementFraction" }
func (ef *ElementFraction) Source() string { return ColComposition }

// fractionElements is the sorted element list backing the fraction
// features, fixed so label order is deterministic.
var fractionElements = knownElements()

func knownElements() []string {
	symbols := []string{
		"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
		"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
		"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
		"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
		"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
		"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Nd", "Gd",
		"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl",
		"Pb", "Bi",
	}
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := materials.Element(s); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func (ef *ElementFraction) Labels() []string {
	out := make([]string, len(fractionElements))
	for i, el := range fractionElements {
		out[i] = "frac " + el
	}
	return out
}

func (ef *ElementFraction) Featurize(obj interface{}) ([]float64, error) {
	comp, err := asComposition(obj)
	if err != nil {
		return nil, err
	}
	if len(comp.Elements()) == 0 {
		return nil, errors.New("empty composition")
	}
	out := make([]float64, len(fractionElements))
	for i, el := range fractionElements {
		out[i] = comp.Fraction(el)
	}
	return out, nil
}
