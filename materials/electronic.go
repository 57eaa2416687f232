package materials

import "math"

// BandStructure summarizes an electronic band structure.
type BandStructure struct {
	BandGap     float64 // eV; 0 for metals
	IsMetal     bool
	IsDirectGap bool
	CBM         float64 // conduction band minimum, eV
	VBM         float64 // valence band maximum, eV
	EFermi      float64 // Fermi level, eV
}

// DOS is a density of states: state densities sampled over an energy grid.
type DOS struct {
	Energies  []float64 // eV, ascending
	Densities []float64 // states/eV
	EFermi    float64   // eV
}

// DensityAtFermi returns the density of states at the Fermi level, linearly
// interpolated between the two nearest grid points.
func (d DOS) DensityAtFermi() float64 {
	n := len(d.Energies)
	if n == 0 || len(d.Densities) != n {
		return math.NaN()
	}
	if d.EFermi <= d.Energies[0] {
		return d.Densities[0]
	}
	if d.EFermi >= d.Energies[n-1] {
		return d.Densities[n-1]
	}
	for i := 1; i < n; i++ {
		if d.Energies[i] >= d.EFermi {
			e0, e1 := d.Energies[i-1], d.Energies[i]
			if e1 == e0 {
				return d.Densities[i]
			}
			t := (d.EFermi - e0) / (e1 - e0)
			return d.Densities[i-1]*(1-t) + d.Densities[i]*t
		}
	}
	return d.Densities[n-1]
}

// GapEstimate estimates the band gap from the DOS: the width of the
// zero-density window containing the Fermi level. Returns 0 when the DOS
// is finite at the Fermi level (metallic).
func (d DOS) GapEstimate() float64 {
	n := len(d.Energies)
	if n == 0 || len(d.Densities) != n {
		return math.NaN()
	}
	const tol = 1e-6
	if d.DensityAtFermi() > tol {
		return 0
	}
	// Walk outward from the Fermi level to the window edges.
	lo, hi := d.EFermi, d.EFermi
	for i := n - 1; i >= 0; i-- {
		if d.Energies[i] <= d.EFermi && d.Densities[i] > tol {
			lo = d.Energies[i]
			break
		}
	}
	for i := 0; i < n; i++ {
		if d.Energies[i] >= d.EFermi && d.Densities[i] > tol {
			hi = d.Energies[i]
			break
		}
	}
	gap := hi - lo
	if gap < 0 {
		return 0
	}
	return gap
}
