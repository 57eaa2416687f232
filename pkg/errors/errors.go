// Package errors provides the error taxonomy and warning system used across
// the automatminer pipeline. Errors carry stack traces via cockroachdb/errors
// and marshal themselves into zerolog events for structured logging.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("automatminer-warning: %v\n", w)
	}
	// zerolog sink, lazily set by pkg/log to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the process-wide warning handler. Row-level
// featurization failures and encoder fallbacks are reported through it
// rather than aborting the pipeline.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a non-fatal warning. The zerolog sink takes precedence when
// one has been installed.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Transform or Predict is called on a stage
// that has not been fitted.
type NotFittedError struct {
	Stage  string
	Method string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("automatminer: %s: this stage is not fitted yet. Call Fit() before using %s()", e.Stage, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("stage", e.Stage).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(stage, method string) error {
	err := &NotFittedError{Stage: stage, Method: method}
	return errors.WithStack(err)
}

// ConfigError reports an invalid configuration: an unknown preset name,
// an unknown reducer or imputation strategy, or conflicting stage options.
// It is raised at construction or preset-resolution time, never during fit.
type ConfigError struct {
	Component string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("automatminer: %s: invalid configuration: %s", e.Component, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("component", e.Component).
		Str("reason", e.Reason).
		Str("type", "ConfigError")
}

// NewConfigError creates a ConfigError with a stack trace attached.
func NewConfigError(component, reason string) error {
	err := &ConfigError{Component: component, Reason: reason}
	return errors.WithStack(err)
}

// PreconditionError reports a violated entry condition on fit, predict or
// benchmark: a required domain-object column entirely absent with no
// derivation path, an ignored column that a fitted stage requires, or
// predict/benchmark called on an unfitted pipe.
type PreconditionError struct {
	Stage  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("automatminer: %s: precondition failed: %s", e.Stage, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *PreconditionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("stage", e.Stage).
		Str("reason", e.Reason).
		Str("type", "PreconditionError")
}

// NewPreconditionError creates a PreconditionError with a stack trace attached.
func NewPreconditionError(stage, reason string) error {
	err := &PreconditionError{Stage: stage, Reason: reason}
	return errors.WithStack(err)
}

// ShapeMismatchError reports that the columns seen during Transform do not
// match the columns recorded at fit time.
type ShapeMismatchError struct {
	Stage   string
	Missing []string // present at fit time, absent now
	Extra   []string // absent at fit time, present now
}

func (e *ShapeMismatchError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %v", e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns %v", e.Extra))
	}
	return fmt.Sprintf("automatminer: %s: input shape mismatch: %s", e.Stage, strings.Join(parts, "; "))
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("stage", e.Stage).
		Strs("missing", e.Missing).
		Strs("extra", e.Extra).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError creates a ShapeMismatchError with a stack trace attached.
func NewShapeMismatchError(stage string, missing, extra []string) error {
	err := &ShapeMismatchError{Stage: stage, Missing: missing, Extra: extra}
	return errors.WithStack(err)
}

// ProblemTypeError reports that the target column's values do not
// unambiguously indicate classification or regression.
type ProblemTypeError struct {
	Column string
	Reason string
}

func (e *ProblemTypeError) Error() string {
	return fmt.Sprintf("automatminer: cannot determine problem type from target column '%s': %s", e.Column, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ProblemTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "ProblemTypeError")
}

// NewProblemTypeError creates a ProblemTypeError with a stack trace attached.
func NewProblemTypeError(column, reason string) error {
	err := &ProblemTypeError{Column: column, Reason: reason}
	return errors.WithStack(err)
}

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("automatminer: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// FeaturizeWarning is emitted when a feature-generation routine's
// precondition is unmet for a single row. The row receives NaN features
// and the pipeline continues.
type FeaturizeWarning struct {
	Routine string
	Column  string
	Row     int
	Reason  string
}

func (w *FeaturizeWarning) Error() string {
	return fmt.Sprintf("routine %s failed on column '%s' row %d: %s (features set to NaN)", w.Routine, w.Column, w.Row, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *FeaturizeWarning) MarshalZerologObject(event *zerolog.Event) {
	event.Str("routine", w.Routine).
		Str("column", w.Column).
		Int("row", w.Row).
		Str("reason", w.Reason).
		Str("type", "FeaturizeWarning")
}

// NewFeaturizeWarning creates a FeaturizeWarning.
func NewFeaturizeWarning(routine, column string, row int, reason string) *FeaturizeWarning {
	return &FeaturizeWarning{Routine: routine, Column: column, Row: row, Reason: reason}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty dataframe or matrix is passed.
	ErrEmptyData = New("empty data")
)
