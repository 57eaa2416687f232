package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComposition(t *testing.T) {
	tests := []struct {
		formula string
		want    map[string]float64
		wantErr bool
	}{
		{formula: "Fe2O3", want: map[string]float64{"Fe": 2, "O": 3}},
		{formula: "SrTiO3", want: map[string]float64{"Sr": 1, "Ti": 1, "O": 3}},
		{formula: "Ca(OH)2", want: map[string]float64{"Ca": 1, "O": 2, "H": 2}},
		{formula: "Li0.5CoO2", want: map[string]float64{"Li": 0.5, "Co": 1, "O": 2}},
		{formula: "", wantErr: true},
		{formula: "Xx2O", wantErr: true},
		{formula: "Fe2(O3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			comp, err := ParseComposition(tt.formula)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, comp.Amounts)
		})
	}
}

func TestCompositionAccessors(t *testing.T) {
	comp, err := ParseComposition("Fe2O3")
	require.NoError(t, err)

	assert.Equal(t, []string{"Fe", "O"}, comp.Elements())
	assert.InDelta(t, 5.0, comp.NumAtoms(), 1e-12)
	assert.InDelta(t, 0.4, comp.Fraction("Fe"), 1e-12)
	assert.InDelta(t, 0.6, comp.Fraction("O"), 1e-12)
	assert.Equal(t, 0.0, comp.Fraction("Na"))

	// 2 * 55.845 + 3 * 15.999
	assert.InDelta(t, 159.687, comp.Weight(), 0.1)
	assert.Equal(t, "Fe2O3", comp.Formula())
}

func TestNewCompositionDropsZeroAmounts(t *testing.T) {
	comp := NewComposition(map[string]float64{"Fe": 1, "O": 0})
	assert.Equal(t, []string{"Fe"}, comp.Elements())
}

func TestElementLookup(t *testing.T) {
	fe, ok := Element("Fe")
	require.True(t, ok)
	assert.Equal(t, 26, fe.Z)
	assert.InDelta(t, 55.845, fe.Mass, 0.01)

	_, ok = Element("Xx")
	assert.False(t, ok)
}
