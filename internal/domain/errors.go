package domain

import "fmt"

// InsufficientDataError marks a (category, polarity) key whose bucket held
// fewer usable records than the configured minimum. The key is omitted, the
// run continues.
type InsufficientDataError struct {
	Category string
	Polarity Polarity
	Needed   int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s/%s: need %d records, have %d",
		e.Category, e.Polarity, e.Needed, e.Got)
}

// VectorizationError marks a bucket whose subset produced no usable
// vocabulary. The key is omitted, the run continues.
type VectorizationError struct {
	Category string
	Polarity Polarity
	Err      error
}

func (e *VectorizationError) Error() string {
	return fmt.Sprintf("vectorization failed for %s/%s: %v", e.Category, e.Polarity, e.Err)
}

func (e *VectorizationError) Unwrap() error { return e.Err }

// TrainingError marks a numerical failure while fitting a model.
// The key is omitted, the run continues.
type TrainingError struct {
	Category string
	Polarity Polarity
	Err      error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("training failed for %s/%s: %v", e.Category, e.Polarity, e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }

// PersistenceError is the only failure that aborts a run. The previously
// committed result set stays authoritative.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
