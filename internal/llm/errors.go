package llm

import (
	"errors"
	"fmt"
)

// RemoteErrorKind classifies failures of the remote classifier.
type RemoteErrorKind string

const (
	// KindUnavailable covers network, auth, and service errors. The
	// orchestrator reacts by switching the run to the pattern strategy.
	KindUnavailable RemoteErrorKind = "unavailable"

	// KindMalformed covers replies that could not be parsed into the tag
	// schema. Degrades only the affected utterance, never the run.
	KindMalformed RemoteErrorKind = "malformed"
)

// RemoteError is the single error type the remote classifier surfaces.
// Transient distinguishes retryable unavailability (timeouts, 5xx,
// rate-limit signals) from permanent failures (bad credentials, missing
// configuration) that are escalated immediately.
type RemoteError struct {
	Kind      RemoteErrorKind
	Transient bool
	Err       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote classifier %s: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as a RemoteUnavailable failure.
func Unavailable(transient bool, err error) *RemoteError {
	return &RemoteError{Kind: KindUnavailable, Transient: transient, Err: err}
}

// Malformed wraps err as a RemoteMalformed failure.
func Malformed(err error) *RemoteError {
	return &RemoteError{Kind: KindMalformed, Err: err}
}

// IsUnavailable reports whether err is a RemoteUnavailable failure.
func IsUnavailable(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && rerr.Kind == KindUnavailable
}

// IsMalformed reports whether err is a RemoteMalformed failure.
func IsMalformed(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && rerr.Kind == KindMalformed
}

// isTransient reports whether err is a retryable RemoteUnavailable failure.
func isTransient(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && rerr.Kind == KindUnavailable && rerr.Transient
}
