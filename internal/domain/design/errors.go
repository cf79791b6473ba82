package design

import "github.com/pkg/errors"

// InternalError pairs an invariant-violation cause with a correlation id.
// The Orchestrator does not construct it: it reports an invariant
// violation by recovering a panic into a Result with StatusInternalError
// and a correlation id.
type InternalError struct {
	CorrelationID string
	cause         error
}

func NewInternalError(correlationID string, cause error) *InternalError {
	return &InternalError{CorrelationID: correlationID, cause: errors.WithStack(cause)}
}

func (e *InternalError) Error() string {
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Sentinel causes for use with NewInternalError. The pipeline stages do
// not return them: the Normalizer drops a duplicate pole id as a
// data-level record drop, and an unknown node id during pathfinding
// yields an unreachable PathResult.
var (
	ErrUnknownNode        = errors.New("design: unknown node id referenced during pathfinding")
	ErrDisconnectedEdge   = errors.New("design: edge endpoint missing from node table")
	ErrDuplicatePoleID    = errors.New("design: duplicate pole id")
	ErrUnresolvedLineRef  = errors.New("design: line references a pole id that does not resolve")
)
