package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks malformed requests: missing feature fields,
// non-positive total investment, out-of-range parameters. Never retried.
var ErrInvalidInput = errors.New("invalid input")

// ErrDegenerateAggregation is returned when no holding in a portfolio could
// be matched and weighted, so the style vector is undefined. It is a normal
// failure value for callers to branch on, not a crash.
var ErrDegenerateAggregation = errors.New("no holdings could be aggregated")

// ArtifactError reports a missing or malformed reference artifact
// (scaler, centroids, persona table). It is fatal at startup: every
// downstream computation depends on the artifacts being well-formed.
type ArtifactError struct {
	Artifact string
	Err      error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("reference artifact %q: %v", e.Artifact, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}
