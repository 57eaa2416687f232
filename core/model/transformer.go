package model

import (
	"github.com/ardunn/automatminer/dataframe"
)

// DataFrameTransformer is the contract every pipeline stage implements.
// A stage is stateful after Fit; Transform applies the fitted state to new
// data and returns a new frame, never mutating its input. Calling Fit on a
// fitted stage refits from scratch. Transform before Fit returns a
// NotFittedError.
type DataFrameTransformer interface {
	// Fit learns the stage's state from the training frame and target column.
	Fit(df *dataframe.DataFrame, target string) error

	// Transform applies the fitted state to a frame.
	Transform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error)

	// FitTransform is Fit followed by Transform on the same frame.
	FitTransform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error)
}

// Inspectable is implemented by stages that expose their complete concrete
// configuration as a nested map.
type Inspectable interface {
	Inspect() map[string]interface{}
}

// Summarizable is implemented by stages that produce a short human-readable
// description of themselves.
type Summarizable interface {
	Summarize() map[string]interface{}
}
