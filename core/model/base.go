package model

// FitState represents the fitting lifecycle of a pipeline stage.
type FitState int

const (
	// NotFitted is the state of a freshly constructed stage.
	NotFitted FitState = iota
	// Fitting is the state while Fit is running.
	Fitting
	// Fitted is the state after Fit has completed.
	Fitted
)

// String returns the state name.
func (s FitState) String() string {
	switch s {
	case NotFitted:
		return "not fitted"
	case Fitting:
		return "fitting"
	case Fitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// BaseTransformer carries the fitted-state machine embedded by every
// pipeline stage. The State field is exported so stage snapshots survive
// gob round-trips.
type BaseTransformer struct {
	State FitState
}

// IsFitted reports whether the stage has completed fitting.
func (b *BaseTransformer) IsFitted() bool {
	return b.State == Fitted
}

// SetFitting marks the stage as mid-fit. Refitting an already fitted stage
// passes through here, discarding prior state implicitly.
func (b *BaseTransformer) SetFitting() {
	b.State = Fitting
}

// SetFitted marks the stage as fitted.
func (b *BaseTransformer) SetFitted() {
	b.State = Fitted
}

// Reset returns the stage to the unfit state.
func (b *BaseTransformer) Reset() {
	b.State = NotFitted
}
