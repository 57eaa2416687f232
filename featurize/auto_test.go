package featurize

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/materials"
	"github.com/ardunn/automatminer/pkg/errors"
)

func structureFrame(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	a := 4.0
	mkStruct := func(cation, anion string, a float64) materials.Structure {
		return materials.Structure{
			Lattice: [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
			Sites: []materials.Site{
				{Element: cation, Frac: [3]float64{0, 0, 0}},
				{Element: anion, Frac: [3]float64{0.5, 0.5, 0.5}},
			},
		}
	}
	df := dataframe.New()
	require.NoError(t, df.AddColumn("structure", []interface{}{
		mkStruct("Na", "Cl", a),
		mkStruct("Li", "F", a+0.2),
		mkStruct("K", "Br", a+0.4),
	}))
	require.NoError(t, df.AddColumn("target", []interface{}{1.0, 2.0, 3.0}))
	return df
}

func TestNewAutoFeaturizerValidation(t *testing.T) {
	_, err := NewAutoFeaturizer(Options{Preset: "bogus"})
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))

	_, err = NewAutoFeaturizer(Options{Include: []string{"NoSuchRoutine"}})
	assert.Error(t, err)

	_, err = NewAutoFeaturizer(Options{
		Include: []string{"ElementProperty"},
		Exclude: []string{"ElementProperty"},
	})
	assert.Error(t, err, "include/exclude conflict")

	af, err := NewAutoFeaturizer(Options{Preset: "debug"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ElementProperty", "DensityFeatures"}, af.Candidates)
}

func TestTransformBeforeFit(t *testing.T) {
	af, err := NewAutoFeaturizer(Options{Preset: "debug"})
	require.NoError(t, err)

	_, err = af.Transform(structureFrame(t), "target")
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
}

func TestFitDerivesCompositionFromStructure(t *testing.T) {
	af, err := NewAutoFeaturizer(Options{Preset: "debug"})
	require.NoError(t, err)

	df := structureFrame(t)
	require.NoError(t, af.Fit(df, "target"))

	assert.Contains(t, af.ActiveRoutines, "ElementProperty")
	assert.Contains(t, af.ActiveRoutines, "DensityFeatures")
	assert.Equal(t, "structure", af.Derivations["composition"])
	assert.Equal(t, []string{"structure"}, af.RequiredColumns())
}

func TestTransformAppendsFeatures(t *testing.T) {
	af, err := NewAutoFeaturizer(Options{Preset: "debug"})
	require.NoError(t, err)

	df := structureFrame(t)
	out, err := af.FitTransform(df, "target")
	require.NoError(t, err)

	// Input untouched.
	assert.Equal(t, 2, df.NCols())
	assert.Equal(t, 3, df.NRows())

	// Inputs preserved, derived column and features appended.
	assert.True(t, out.Has("structure"))
	assert.True(t, out.Has("composition"))
	assert.True(t, out.Has("density"))
	assert.True(t, out.Has("mean AtomicMass"))
	assert.Equal(t, 3, out.NRows())

	col, err := out.FloatColumn("density")
	require.NoError(t, err)
	for _, v := range col {
		assert.Greater(t, v, 0.0)
	}
}

func TestRowLevelFailureYieldsNaN(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	df := dataframe.New()
	require.NoError(t, df.AddColumn("composition", []interface{}{
		"Fe2O3",
		"not-a-formula",
		nil,
	}))
	require.NoError(t, df.AddColumn("target", []interface{}{1.0, 2.0, 3.0}))

	af, err := NewAutoFeaturizer(Options{Include: []string{"ElementProperty"}})
	require.NoError(t, err)

	out, err := af.FitTransform(df, "target")
	require.NoError(t, err, "row failures must not abort the pipeline")
	assert.Equal(t, 3, out.NRows())

	col, err := out.FloatColumn("mean AtomicMass")
	require.NoError(t, err)
	assert.False(t, math.IsNaN(col[0]))
	assert.True(t, math.IsNaN(col[1]))
	assert.True(t, math.IsNaN(col[2]))
	assert.NotEmpty(t, warnings)
}

func TestFitFailsWithNoUsableColumn(t *testing.T) {
	df := dataframe.New()
	require.NoError(t, df.AddColumn("id", []interface{}{"a", "b"}))
	require.NoError(t, df.AddColumn("target", []interface{}{1.0, 2.0}))

	af, err := NewAutoFeaturizer(Options{Preset: "debug"})
	require.NoError(t, err)

	err = af.Fit(df, "target")
	var pe *errors.PreconditionError
	require.True(t, errors.As(err, &pe))
}

func TestFeatureCacheRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "features.cache")

	af, err := NewAutoFeaturizer(Options{Preset: "debug", CachePath: cachePath})
	require.NoError(t, err)

	df := structureFrame(t)
	first, err := af.FitTransform(df, "target")
	require.NoError(t, err)
	assert.FileExists(t, cachePath)

	// Second transform over the same rows is served from the cache and must
	// produce identical features.
	second, err := af.Transform(df, "target")
	require.NoError(t, err)

	for _, name := range []string{"density", "mean AtomicMass", "max Electronegativity"} {
		a, err := first.FloatColumn(name)
		require.NoError(t, err)
		b, err := second.FloatColumn(name)
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestRoutineRegistry(t *testing.T) {
	names := RoutineNames()
	assert.Contains(t, names, "ElementProperty")
	assert.Contains(t, names, "DensityFeatures")

	r, ok := RoutineByName("Stoichiometry")
	require.True(t, ok)
	assert.Equal(t, ColComposition, r.Source())
	assert.NotEmpty(t, r.Labels())

	_, ok = RoutineByName("Nope")
	assert.False(t, ok)
}
