package service

import (
	"errors"
	"fmt"
)

// ParseError is returned when the external parser cannot turn a source file
// into a syntax tree. Tag extraction never runs on such input.
type ParseError struct {
	Path    string
	Message string // stderr of the parser, if any
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("failed to parse source: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// TraversalLimitError signals a tree nested deeper than the configured ceiling.
// No partial result accompanies it.
type TraversalLimitError struct {
	Limit int
}

func (e *TraversalLimitError) Error() string {
	return fmt.Sprintf("syntax tree exceeds maximum traversal depth of %d", e.Limit)
}

func IsTraversalLimitError(err error) bool {
	var te *TraversalLimitError
	return errors.As(err, &te)
}

// MalformedEventError is reported for a stream event whose payload could not be
// decoded. The session keeps going after it.
type MalformedEventError struct {
	Raw string
	Err error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed stream event %q: %v", truncate(e.Raw, 80), e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

func IsMalformedEventError(err error) bool {
	var me *MalformedEventError
	return errors.As(err, &me)
}

// TransportError is a failure of the connection carrying the stream.
// Partial holds whatever text had been accumulated before the failure.
type TransportError struct {
	Status  int
	Partial string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server error: %d: %v", e.Status, e.Err)
	}
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

const (
	UserCancelCommon        = "[Operation Cancelled]"
	UserCancelReasonUnknown = "Unknown"
	UserCancelReasonAbort   = "User aborted the request."
)

// UserCancelError marks an operation the user stopped on purpose.
// It is never shown as a failure.
type UserCancelError struct {
	Reason string
}

func (e *UserCancelError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s Reason: %s", UserCancelCommon, e.Reason)
	}
	return UserCancelCommon
}

func IsUserCancelError(err error) bool {
	var ue *UserCancelError
	return errors.As(err, &ue)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
