package json

import "errors"

var (
	// ErrUnexpectedToken is returned (wrapped) by Parse on malformed input
	// other than a premature end (ErrUnexpectedEOF) or trailing bytes
	// (ErrTrailingData).
	ErrUnexpectedToken = errors.New("json: unexpected token")

	// ErrUnexpectedEOF is returned when the input ends mid-value.
	ErrUnexpectedEOF = errors.New("json: unexpected end of input")

	// ErrTrailingData is returned when Parse succeeds but bytes remain
	// after the top-level value (other than trailing whitespace).
	ErrTrailingData = errors.New("json: trailing data after value")
)
