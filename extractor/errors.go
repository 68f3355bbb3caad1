package extractor

import (
	"errors"
)

// Kind classifies extraction failures.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindFetchFailed       Kind = "fetch_failed"
	KindUpstream          Kind = "upstream_error"
	KindMalformedResponse Kind = "malformed_response"
	KindConversion        Kind = "conversion_failed"
)

// Error is returned by Extract. Message is the user-facing text.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var extractErr *Error
	if errors.As(err, &extractErr) {
		return extractErr.Kind
	}
	return ""
}
