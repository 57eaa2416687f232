package materials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rockSalt(a float64) Structure {
	return Structure{
		Lattice: [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		Sites: []Site{
			{Element: "Na", Frac: [3]float64{0, 0, 0}},
			{Element: "Cl", Frac: [3]float64{0.5, 0.5, 0.5}},
		},
	}
}

func TestStructureGeometry(t *testing.T) {
	s := rockSalt(4.0)

	assert.Equal(t, 2, s.NumSites())
	assert.InDelta(t, 64.0, s.Volume(), 1e-12)
	assert.InDelta(t, 32.0, s.VolumePerAtom(), 1e-12)

	lengths := s.LatticeLengths()
	for _, l := range lengths {
		assert.InDelta(t, 4.0, l, 1e-12)
	}

	pf := s.PackingFraction()
	assert.Greater(t, pf, 0.0)
	assert.Less(t, pf, 1.0)
}

func TestStructureCompositionDerivation(t *testing.T) {
	comp := rockSalt(4.0).Composition()
	assert.Equal(t, map[string]float64{"Na": 1, "Cl": 1}, comp.Amounts)
}

func TestStructureDensity(t *testing.T) {
	s := rockSalt(4.0)
	// (22.990 + 35.45) u in 64 Å³.
	want := (22.990 + 35.45) / 64.0 * 1e24 / 6.02214076e23
	assert.InDelta(t, want, s.Density(), 1e-6)

	degenerate := Structure{Sites: []Site{{Element: "Na"}}}
	assert.Equal(t, 0.0, degenerate.Density())
}

func TestDOSDensityAtFermi(t *testing.T) {
	d := DOS{
		Energies:  []float64{-2, -1, 0, 1, 2},
		Densities: []float64{4, 2, 0, 2, 4},
		EFermi:    -0.5,
	}
	assert.InDelta(t, 1.0, d.DensityAtFermi(), 1e-12)

	d.EFermi = -10
	assert.Equal(t, 4.0, d.DensityAtFermi())
	d.EFermi = 10
	assert.Equal(t, 4.0, d.DensityAtFermi())

	empty := DOS{}
	assert.True(t, math.IsNaN(empty.DensityAtFermi()))
}

func TestDOSGapEstimate(t *testing.T) {
	gapped := DOS{
		Energies:  []float64{-2, -1, 0, 1, 2},
		Densities: []float64{4, 2, 0, 0, 4},
		EFermi:    0.25,
	}
	require.InDelta(t, 0.0, gapped.DensityAtFermi(), 1e-9)
	assert.InDelta(t, 3.0, gapped.GapEstimate(), 1e-12)

	metal := DOS{
		Energies:  []float64{-1, 0, 1},
		Densities: []float64{1, 1, 1},
		EFermi:    0,
	}
	assert.Equal(t, 0.0, metal.GapEstimate())
}
