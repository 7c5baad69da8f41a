package bytetrack

import "errors"

// Sentinel errors describing the invalid-configuration class of failure.
// These surface from NewBYTETracker and never leave the tracker partially
// constructed.
var (
	ErrInvalidFrameRate   = errors.New("bytetrack: frame_rate must be positive")
	ErrInvalidTrackBuffer = errors.New("bytetrack: track_buffer must be positive")
	ErrInvalidTrackThresh = errors.New("bytetrack: track_thresh must be in (0, 1]")
	ErrInvalidMatchThresh = errors.New("bytetrack: match_thresh must be in (0, 1]")

	// ErrInvalidInputShape is returned by Update when output_results does
	// not have at least 5 columns.
	ErrInvalidInputShape = errors.New("bytetrack: detection matrix must have at least 5 columns")

	// ErrNonFiniteInput is returned by Update when a detection box or score
	// contains NaN or Inf values.
	ErrNonFiniteInput = errors.New("bytetrack: detection contains non-finite value")

	// ErrInvalidMetric is returned by (*KalmanFilter).GatingDistance for an
	// unrecognized metric name.
	ErrInvalidMetric = errors.New("bytetrack: gating metric must be \"gaussian\" or \"maha\"")

	// errLapjvFailed signals that the dense LAPJV solver could not find an
	// assignment; this should not happen for a well-formed cost matrix and
	// indicates a bug rather than a runtime condition callers can recover
	// from locally.
	errLapjvFailed = errors.New("bytetrack: lapjv solver failed to converge")
)
