package materials

import "math"

// avogadro in mol^-1; cell volumes are in Å³ and masses in u, so density
// in g/cm³ is mass / volume * 1e24 / avogadro.
const avogadro = 6.02214076e23

// Site is one atom in a crystal structure, positioned in fractional
// coordinates of the lattice.
type Site struct {
	Element string
	Frac    [3]float64
}

// Structure is a periodic crystal: a lattice matrix (rows are lattice
// vectors, in Å) plus the sites it contains.
type Structure struct {
	Lattice [3][3]float64
	Sites   []Site
}

// NumSites returns the number of atoms in the cell.
func (s Structure) NumSites() int {
	return len(s.Sites)
}

// Volume returns the cell volume in Å³ (determinant of the lattice matrix).
func (s Structure) Volume() float64 {
	l := s.Lattice
	det := l[0][0]*(l[1][1]*l[2][2]-l[1][2]*l[2][1]) -
		l[0][1]*(l[1][0]*l[2][2]-l[1][2]*l[2][0]) +
		l[0][2]*(l[1][0]*l[2][1]-l[1][1]*l[2][0])
	return math.Abs(det)
}

// Composition derives the structure's composition by counting sites per
// element. This is the derivation edge structure -> composition used by
// the auto featurizer.
func (s Structure) Composition() Composition {
	amounts := make(map[string]float64)
	for _, site := range s.Sites {
		amounts[site.Element]++
	}
	return Composition{Amounts: amounts}
}

// Density returns the mass density in g/cm³, or 0 for a degenerate cell.
func (s Structure) Density() float64 {
	vol := s.Volume()
	if vol == 0 {
		return 0
	}
	mass := s.Composition().Weight()
	return mass / vol * 1e24 / avogadro
}

// VolumePerAtom returns the cell volume per site in Å³.
func (s Structure) VolumePerAtom() float64 {
	if len(s.Sites) == 0 {
		return 0
	}
	return s.Volume() / float64(len(s.Sites))
}

// LatticeLengths returns the lengths of the three lattice vectors in Å.
func (s Structure) LatticeLengths() [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = math.Sqrt(s.Lattice[i][0]*s.Lattice[i][0] +
			s.Lattice[i][1]*s.Lattice[i][1] +
			s.Lattice[i][2]*s.Lattice[i][2])
	}
	return out
}

// PackingFraction estimates the fraction of the cell volume occupied by
// atoms modeled as covalent-radius spheres.
func (s Structure) PackingFraction() float64 {
	vol := s.Volume()
	if vol == 0 {
		return 0
	}
	occupied := 0.0
	for _, site := range s.Sites {
		d, ok := Element(site.Element)
		if !ok {
			continue
		}
		r := d.CovalentRadius / 100.0 // pm -> Å
		occupied += 4.0 / 3.0 * math.Pi * r * r * r
	}
	return occupied / vol
}
