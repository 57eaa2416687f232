package learn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardunn/automatminer/pkg/errors"
)

func TestDetectProblemType(t *testing.T) {
	tests := []struct {
		name    string
		cells   []interface{}
		want    ProblemType
		wantErr bool
	}{
		{name: "floats", cells: []interface{}{1.0, 2.5, 3.0}, want: Regression},
		{name: "ints", cells: []interface{}{1, 2, 3}, want: Regression},
		{name: "numeric strings", cells: []interface{}{"1.5", "2", "3.25"}, want: Regression},
		{name: "strings", cells: []interface{}{"metal", "insulator"}, want: Classification},
		{name: "bools", cells: []interface{}{true, false, true}, want: Classification},
		{name: "mixed", cells: []interface{}{1.0, "metal"}, wantErr: true},
		{name: "all missing", cells: []interface{}{nil, nil}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectProblemType(tt.cells, "y")
			if tt.wantErr {
				var pt *errors.ProblemTypeError
				require.True(t, errors.As(err, &pt))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeTargetRegression(t *testing.T) {
	problem, y, classes, err := EncodeTarget([]interface{}{1.0, "2.5", 3}, "y")
	require.NoError(t, err)
	assert.Equal(t, Regression, problem)
	assert.Equal(t, []float64{1.0, 2.5, 3.0}, y)
	assert.Nil(t, classes)
}

func TestEncodeTargetClassification(t *testing.T) {
	problem, y, classes, err := EncodeTarget(
		[]interface{}{"metal", "insulator", "metal", "semiconductor"}, "y")
	require.NoError(t, err)
	assert.Equal(t, Classification, problem)
	assert.Equal(t, []string{"insulator", "metal", "semiconductor"}, classes)
	assert.Equal(t, []float64{1, 0, 1, 2}, y)

	assert.Equal(t, "metal", DecodeClass(1.2, classes))
	assert.Equal(t, "insulator", DecodeClass(-5, classes))
	assert.Equal(t, "semiconductor", DecodeClass(99, classes))
}

func TestEncodeTargetMissingValueFails(t *testing.T) {
	_, _, _, err := EncodeTarget([]interface{}{1.0, nil, 3.0}, "y")
	var pe *errors.PreconditionError
	require.True(t, errors.As(err, &pe))
}
