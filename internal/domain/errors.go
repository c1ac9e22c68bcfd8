package domain

import (
	"errors"
	"fmt"
)

// Validation and oracle error sentinels. Input validation errors are raised
// before any oracle call is made; oracle errors are retryable by the caller.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleTimeout     = errors.New("oracle timeout")
)

// OracleError wraps an embedding or generation failure with the sentence or
// chunk index it belongs to, so a caller can retry only the failed unit.
type OracleError struct {
	Op   string // "embed" or "generate"
	Unit int    // sentence or chunk index, -1 if not unit-scoped
	Err  error
}

func (e *OracleError) Error() string {
	if e.Unit < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s unit %d: %v", e.Op, e.Unit, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// WarningCode identifies a non-fatal condition reported alongside a result.
type WarningCode string

const (
	WarnChunkOverflow        WarningCode = "chunk_overflow"
	WarnSegmentationDegraded WarningCode = "segmentation_degraded"
	WarnLengthBound          WarningCode = "length_bound"
)

// Warning is a non-fatal condition attached to an otherwise valid result.
// Index points at the offending sentence or chunk, -1 when not applicable.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Index   int         `json:"index"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
