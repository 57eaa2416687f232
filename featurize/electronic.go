package featurize

import (
	"math"

	"github.com/ardunn/automatminer/materials"
	"github.com/ardunn/automatminer/pkg/errors"
)

// BandEdgeFeatures extracts scalar descriptors from a band structure.
type BandEdgeFeatures struct{}

func (bf *BandEdgeFeatures) Name() string   { return "BandEdgeFeatures" }
func (bf *BandEdgeFeatures) Source() string { return ColBandstructure }

func (bf *BandEdgeFeatures) Labels() []string {
	return []string{"band gap", "is metal", "is direct gap", "cbm", "vbm"}
}

func (bf *BandEdgeFeatures) Featurize(obj interface{}) ([]float64, error) {
	var bs materials.BandStructure
	switch x := obj.(type) {
	case materials.BandStructure:
		bs = x
	case *materials.BandStructure:
		bs = *x
	default:
		return nil, errTypeMismatch(ColBandstructure, obj)
	}
	return []float64{
		bs.BandGap,
		boolFeature(bs.IsMetal),
		boolFeature(bs.IsDirectGap),
		bs.CBM,
		bs.VBM,
	}, nil
}

// DOSFeatures extracts descriptors from a density of states.
type DOSFeatures struct{}

func (df *DOSFeatures) Name() string   { return "DOSFeatures" }
func (df *DOSFeatures) Source() string { return ColDOS }

func (df *DOSFeatures) Labels() []string {
	return []string{"dos at fermi", "dos gap estimate"}
}

func (df *DOSFeatures) Featurize(obj interface{}) ([]float64, error) {
	var dos materials.DOS
	switch x := obj.(type) {
	case materials.DOS:
		dos = x
	case *materials.DOS:
		dos = *x
	default:
		return nil, errTypeMismatch(ColDOS, obj)
	}
	if len(dos.Energies) == 0 {
		return nil, errors.New("empty DOS grid")
	}
	atFermi := dos.DensityAtFermi()
	gap := dos.GapEstimate()
	if math.IsNaN(atFermi) || math.IsNaN(gap) {
		return nil, errors.New("malformed DOS grid")
	}
	return []float64{atFermi, gap}, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
