package featurize

import (
	"github.com/ardunn/automatminer/materials"
	"github.com/ardunn/automatminer/pkg/errors"
)

func asStructure(obj interface{}) (materials.Structure, error) {
	switch x := obj.(type) {
	case materials.Structure:
		return x, nil
	case *materials.Structure:
		return *x, nil
	default:
		return materials.Structure{}, errTypeMismatch(ColStructure, obj)
	}
}

// DensityFeatures computes bulk descriptors of a crystal: mass density,
// volume per atom and site count.
type DensityFeatures struct{}

func (dn *DensityFeatures) Name() string   { return "DensityFeatures" }
func (dn *DensityFeatures) Source() string { return ColStructure }

func (dn *DensityFeatures) Labels() []string {
	return []string{"density", "vpa", "num sites"}
}

func (dn *DensityFeatures) Featurize(obj interface{}) ([]float64, error) {
	s, err := asStructure(obj)
	if err != nil {
		return nil, err
	}
	if s.NumSites() == 0 {
		return nil, errors.New("structure has no sites")
	}
	if s.Volume() == 0 {
		return nil, errors.New("degenerate lattice (zero volume)")
	}
	return []float64{s.Density(), s.VolumePerAtom(), float64(s.NumSites())}, nil
}

// LatticeFeatures computes the lattice vector lengths and cell volume.
type LatticeFeatures struct{}

func (lf *LatticeFeatures) Name() string   { return "LatticeFeatures" }
func (lf *LatticeFeatures) Source() string { return ColStructure }

func (lf *LatticeFeatures) Labels() []string {
	return []string{"lattice a", "lattice b", "lattice c", "cell volume"}
}

func (lf *LatticeFeatures) Featurize(obj interface{}) ([]float64, error) {
	s, err := asStructure(obj)
	if err != nil {
		return nil, err
	}
	if s.Volume() == 0 {
		return nil, errors.New("degenerate lattice (zero volume)")
	}
	lengths := s.LatticeLengths()
	return []float64{lengths[0], lengths[1], lengths[2], s.Volume()}, nil
}

// PackingFeatures estimates how densely atoms fill the cell.
type PackingFeatures struct{}

func (pf *PackingFeatures) Name() string   { return "PackingFeatures" }
func (pf *PackingFeatures) Source() string { return ColStructure }

func (pf *PackingFeatures) Labels() []string {
	return []string{"packing fraction"}
}

func (pf *PackingFeatures) Featurize(obj interface{}) ([]float64, error) {
	s, err := asStructure(obj)
	if err != nil {
		return nil, err
	}
	if s.NumSites() == 0 || s.Volume() == 0 {
		return nil, errors.New("degenerate structure")
	}
	return []float64{s.PackingFraction()}, nil
}
