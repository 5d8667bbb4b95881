// Package errs collects the sentinel errors of the core vjson package; the
// json and snapshot packages declare their own sentinels.
package errs

import "errors"

var (
	// ErrTypeMismatch is returned by IntoArray/IntoObject when the Value's
	// Kind does not match the requested type.
	ErrTypeMismatch = errors.New("vjson: type mismatch")

	// ErrNonFiniteNumber is returned by number construction from NaN or ±Inf.
	ErrNonFiniteNumber = errors.New("vjson: non-finite number")
)
