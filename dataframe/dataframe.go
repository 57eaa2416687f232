// Package dataframe implements the in-memory tabular dataset flowing
// through the pipeline: ordered named columns whose cells may be numeric,
// categorical or materials domain objects. Frames are treated as immutable;
// every operation returns a new frame and leaves its input untouched.
package dataframe

import (
	"encoding/gob"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/pkg/errors"
)

func init() {
	// Concrete cell types that may travel through gob-encoded snapshots.
	gob.Register(float64(0))
	gob.Register(float32(0))
	gob.Register(int(0))
	gob.Register(int64(0))
	gob.Register("")
	gob.Register(true)
}

// DataFrame is an ordered collection of equally long named columns.
// Fields are exported so fitted-pipeline snapshots can be gob-encoded.
type DataFrame struct {
	Names []string
	Cols  map[string][]interface{}
}

// New returns an empty frame.
func New() *DataFrame {
	return &DataFrame{Cols: make(map[string][]interface{})}
}

// NRows returns the number of rows.
func (df *DataFrame) NRows() int {
	if len(df.Names) == 0 {
		return 0
	}
	return len(df.Cols[df.Names[0]])
}

// NCols returns the number of columns.
func (df *DataFrame) NCols() int {
	return len(df.Names)
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	out := make([]string, len(df.Names))
	copy(out, df.Names)
	return out
}

// Has reports whether the frame contains the named column.
func (df *DataFrame) Has(name string) bool {
	_, ok := df.Cols[name]
	return ok
}

// Col returns the named column's cells. The returned slice is shared with
// the frame and must not be mutated.
func (df *DataFrame) Col(name string) ([]interface{}, bool) {
	cells, ok := df.Cols[name]
	return cells, ok
}

// AddColumn appends a new column. It fails if the name already exists or
// the length disagrees with existing columns.
func (df *DataFrame) AddColumn(name string, cells []interface{}) error {
	if df.Has(name) {
		return errors.NewValueError("DataFrame.AddColumn", "column '"+name+"' already exists")
	}
	if len(df.Names) > 0 && len(cells) != df.NRows() {
		return errors.Newf("automatminer: DataFrame.AddColumn: column '%s' has %d rows, frame has %d", name, len(cells), df.NRows())
	}
	if df.Cols == nil {
		df.Cols = make(map[string][]interface{})
	}
	df.Names = append(df.Names, name)
	df.Cols[name] = cells
	return nil
}

// Copy returns a deep copy of the frame. Cells themselves are treated as
// immutable values and are shared.
func (df *DataFrame) Copy() *DataFrame {
	out := &DataFrame{
		Names: make([]string, len(df.Names)),
		Cols:  make(map[string][]interface{}, len(df.Names)),
	}
	copy(out.Names, df.Names)
	for name, cells := range df.Cols {
		c := make([]interface{}, len(cells))
		copy(c, cells)
		out.Cols[name] = c
	}
	return out
}

// Select returns a new frame with exactly the given columns, in the given
// order. It fails if any column is absent.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	out := New()
	for _, name := range names {
		cells, ok := df.Cols[name]
		if !ok {
			return nil, errors.NewValueError("DataFrame.Select", "no such column '"+name+"'")
		}
		c := make([]interface{}, len(cells))
		copy(c, cells)
		if err := out.AddColumn(name, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Drop returns a new frame without the given columns. Dropping an absent
// column is a no-op.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}
	out := New()
	for _, name := range df.Names {
		if dropped[name] {
			continue
		}
		cells := df.Cols[name]
		c := make([]interface{}, len(cells))
		copy(c, cells)
		_ = out.AddColumn(name, c)
	}
	return out
}

// SelectRows returns a new frame containing the given rows, in the given
// order. Indices may repeat.
func (df *DataFrame) SelectRows(indices []int) *DataFrame {
	out := New()
	for _, name := range df.Names {
		cells := df.Cols[name]
		c := make([]interface{}, len(indices))
		for i, idx := range indices {
			c[i] = cells[idx]
		}
		_ = out.AddColumn(name, c)
	}
	return out
}

// Concat appends other's columns to a copy of df. Column name collisions
// and row-count mismatches fail.
func (df *DataFrame) Concat(other *DataFrame) (*DataFrame, error) {
	out := df.Copy()
	for _, name := range other.Names {
		cells := other.Cols[name]
		c := make([]interface{}, len(cells))
		copy(c, cells)
		if err := out.AddColumn(name, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsMissing reports whether a cell counts as a missing value: nil or NaN.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	if f, ok := v.(float32); ok {
		return math.IsNaN(float64(f))
	}
	return false
}

// AsFloat coerces a numeric cell to float64. Strings are not coerced.
func AsFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	default:
		return 0, false
	}
}

// MissingFraction returns the fraction of missing cells in the column.
func (df *DataFrame) MissingFraction(name string) float64 {
	cells, ok := df.Cols[name]
	if !ok || len(cells) == 0 {
		return 0
	}
	missing := 0
	for _, v := range cells {
		if IsMissing(v) {
			missing++
		}
	}
	return float64(missing) / float64(len(cells))
}

// IsNumeric reports whether every non-missing cell in the column is numeric.
func (df *DataFrame) IsNumeric(name string) bool {
	cells, ok := df.Cols[name]
	if !ok {
		return false
	}
	for _, v := range cells {
		if IsMissing(v) {
			continue
		}
		if _, ok := AsFloat(v); !ok {
			return false
		}
	}
	return true
}

// FloatColumn returns the column as float64s, with NaN for missing cells.
// Non-numeric cells fail.
func (df *DataFrame) FloatColumn(name string) ([]float64, error) {
	cells, ok := df.Cols[name]
	if !ok {
		return nil, errors.NewValueError("DataFrame.FloatColumn", "no such column '"+name+"'")
	}
	out := make([]float64, len(cells))
	for i, v := range cells {
		if IsMissing(v) {
			out[i] = math.NaN()
			continue
		}
		f, ok := AsFloat(v)
		if !ok {
			return nil, errors.Newf("automatminer: DataFrame.FloatColumn: column '%s' row %d is not numeric (%T)", name, i, v)
		}
		out[i] = f
	}
	return out, nil
}

// Matrix assembles the given numeric columns into a dense matrix with one
// row per frame row.
func (df *DataFrame) Matrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 || df.NRows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "DataFrame.Matrix")
	}
	m := mat.NewDense(df.NRows(), len(names), nil)
	for j, name := range names {
		col, err := df.FloatColumn(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m, nil
}
