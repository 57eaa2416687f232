package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("DataCleaner", "Transform")
	assert.Contains(t, err.Error(), "DataCleaner")
	assert.Contains(t, err.Error(), "not fitted")

	var nf *NotFittedError
	require.True(t, As(err, &nf), "As must see through the stack annotation")
	assert.Equal(t, "DataCleaner", nf.Stage)
	assert.Equal(t, "Transform", nf.Method)
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("MatPipe", "unknown preset 'bogus'")
	assert.Contains(t, err.Error(), "invalid configuration")

	var ce *ConfigError
	require.True(t, As(err, &ce))
	assert.Equal(t, "MatPipe", ce.Component)
}

func TestShapeMismatchError(t *testing.T) {
	err := NewShapeMismatchError("DataCleaner", []string{"a", "b"}, []string{"c"})
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "unexpected columns")

	var sm *ShapeMismatchError
	require.True(t, As(err, &sm))
	assert.Equal(t, []string{"a", "b"}, sm.Missing)
}

func TestProblemTypeError(t *testing.T) {
	err := NewProblemTypeError("target", "mixed values")
	var pt *ProblemTypeError
	require.True(t, As(err, &pt))
	assert.Equal(t, "target", pt.Column)
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewPreconditionError("Learner", "no candidates")
	wrapped := Wrapf(inner, "benchmark fold %d fit", 2)

	var pe *PreconditionError
	require.True(t, As(wrapped, &pe))
	assert.Contains(t, wrapped.Error(), "benchmark fold 2 fit")
}

func TestIsErrEmptyData(t *testing.T) {
	err := Wrap(ErrEmptyData, "MatPipe.Fit")
	assert.True(t, Is(err, ErrEmptyData))
}

func TestWarnHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) { captured = append(captured, w) })
	defer SetWarningHandler(nil)

	w := NewFeaturizeWarning("ElementProperty", "composition", 3, "empty composition")
	Warn(w)

	require.Len(t, captured, 1)
	var fw *FeaturizeWarning
	require.True(t, As(captured[0], &fw))
	assert.Equal(t, 3, fw.Row)
	assert.Contains(t, fw.Error(), "NaN")
}
