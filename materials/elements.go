package materials

// ElementData holds the per-element properties consumed by the elemental
// featurizers.
type ElementData struct {
	Z                 int     // atomic number
	Mass              float64 // atomic mass, u
	Electronegativity float64 // Pauling scale; 0 when undefined
	CovalentRadius    float64 // pm
	Row               int     // periodic table row
	Group             int     // periodic table group
}

// elements covers the species that occur in common inorganic materials
// datasets. Values follow the standard pymatgen/periodic-table references.
var elements = map[string]ElementData{
	"H":  {1, 1.008, 2.20, 31, 1, 1},
	"He": {2, 4.0026, 0, 28, 1, 18},
	"Li": {3, 6.94, 0.98, 128, 2, 1},
	"Be": {4, 9.0122, 1.57, 96, 2, 2},
	"B":  {5, 10.81, 2.04, 84, 2, 13},
	"C":  {6, 12.011, 2.55, 76, 2, 14},
	"N":  {7, 14.007, 3.04, 71, 2, 15},
	"O":  {8, 15.999, 3.44, 66, 2, 16},
	"F":  {9, 18.998, 3.98, 57, 2, 17},
	"Ne": {10, 20.180, 0, 58, 2, 18},
	"Na": {11, 22.990, 0.93, 166, 3, 1},
	"Mg": {12, 24.305, 1.31, 141, 3, 2},
	"Al": {13, 26.982, 1.61, 121, 3, 13},
	"Si": {14, 28.085, 1.90, 111, 3, 14},
	"P":  {15, 30.974, 2.19, 107, 3, 15},
	"S":  {16, 32.06, 2.58, 105, 3, 16},
	"Cl": {17, 35.45, 3.16, 102, 3, 17},
	"Ar": {18, 39.948, 0, 106, 3, 18},
	"K":  {19, 39.098, 0.82, 203, 4, 1},
	"Ca": {20, 40.078, 1.00, 176, 4, 2},
	"Sc": {21, 44.956, 1.36, 170, 4, 3},
	"Ti": {22, 47.867, 1.54, 160, 4, 4},
	"V":  {23, 50.942, 1.63, 153, 4, 5},
	"Cr": {24, 51.996, 1.66, 139, 4, 6},
	"Mn": {25, 54.938, 1.55, 139, 4, 7},
	"Fe": {26, 55.845, 1.83, 132, 4, 8},
	"Co": {27, 58.933, 1.88, 126, 4, 9},
	"Ni": {28, 58.693, 1.91, 124, 4, 10},
	"Cu": {29, 63.546, 1.90, 132, 4, 11},
	"Zn": {30, 65.38, 1.65, 122, 4, 12},
	"Ga": {31, 69.723, 1.81, 122, 4, 13},
	"Ge": {32, 72.630, 2.01, 120, 4, 14},
	"As": {33, 74.922, 2.18, 119, 4, 15},
	"Se": {34, 78.971, 2.55, 120, 4, 16},
	"Br": {35, 79.904, 2.96, 120, 4, 17},
	"Kr": {36, 83.798, 3.00, 116, 4, 18},
	"Rb": {37, 85.468, 0.82, 220, 5, 1},
	"Sr": {38, 87.62, 0.95, 195, 5, 2},
	"Y":  {39, 88.906, 1.22, 190, 5, 3},
	"Zr": {40, 91.224, 1.33, 175, 5, 4},
	"Nb": {41, 92.906, 1.60, 164, 5, 5},
	"Mo": {42, 95.95, 2.16, 154, 5, 6},
	"Tc": {43, 98.0, 1.90, 147, 5, 7},
	"Ru": {44, 101.07, 2.20, 146, 5, 8},
	"Rh": {45, 102.91, 2.28, 142, 5, 9},
	"Pd": {46, 106.42, 2.20, 139, 5, 10},
	"Ag": {47, 107.87, 1.93, 145, 5, 11},
	"Cd": {48, 112.41, 1.69, 144, 5, 12},
	"In": {49, 114.82, 1.78, 142, 5, 13},
	"Sn": {50, 118.71, 1.96, 139, 5, 14},
	"Sb": {51, 121.76, 2.05, 139, 5, 15},
	"Te": {52, 127.60, 2.10, 138, 5, 16},
	"I":  {53, 126.90, 2.66, 139, 5, 17},
	"Xe": {54, 131.29, 2.60, 140, 5, 18},
	"Cs": {55, 132.91, 0.79, 244, 6, 1},
	"Ba": {56, 137.33, 0.89, 215, 6, 2},
	"La": {57, 138.91, 1.10, 207, 6, 3},
	"Ce": {58, 140.12, 1.12, 204, 6, 3},
	"Nd": {60, 144.24, 1.14, 201, 6, 3},
	"Gd": {64, 157.25, 1.20, 196, 6, 3},
	"Hf": {72, 178.49, 1.30, 175, 6, 4},
	"Ta": {73, 180.95, 1.50, 170, 6, 5},
	"W":  {74, 183.84, 2.36, 162, 6, 6},
	"Re": {75, 186.21, 1.90, 151, 6, 7},
	"Os": {76, 190.23, 2.20, 144, 6, 8},
	"Ir": {77, 192.22, 2.20, 141, 6, 9},
	"Pt": {78, 195.08, 2.28, 136, 6, 10},
	"Au": {79, 196.97, 2.54, 136, 6, 11},
	"Hg": {80, 200.59, 2.00, 132, 6, 12},
	"Tl": {81, 204.38, 1.62, 145, 6, 13},
	"Pb": {82, 207.2, 2.33, 146, 6, 14},
	"Bi": {83, 208.98, 2.02, 148, 6, 15},
}

// Element looks up the property record for an element symbol.
func Element(symbol string) (ElementData, bool) {
	d, ok := elements[symbol]
	return d, ok
}
