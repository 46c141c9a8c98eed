package appraisal

import "errors"

var (
	// ErrValidation marks submissions rejected before any store call is made.
	ErrValidation = errors.New("invalid appraisal data")
	// ErrForbidden marks actions by a role other than the one the current
	// status requires.
	ErrForbidden = errors.New("role not permitted for this step")
	// ErrCompleted marks approval attempts on a terminal appraisal.
	ErrCompleted = errors.New("appraisal already completed")
	// ErrStaleStatus marks an approval that lost a race: the status changed
	// between read and write, so nothing was recorded.
	ErrStaleStatus = errors.New("appraisal status changed concurrently")
	// ErrNotFound marks lookups of unknown appraisal ids.
	ErrNotFound = errors.New("appraisal not found")
)
