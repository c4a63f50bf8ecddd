// Package circuitlower is the public API of the constraint-to-gate lowering
// pipeline: it turns a finalized R1CS plus a witness into a PLONK-style
// circuit trace ready for a STARK prover.
package circuitlower

import "fmt"

// ErrorCode classifies the kind of failure a lowering operation reports.
type ErrorCode int

const (
	// ErrUnknown is the zero value; no code should return this in practice.
	ErrUnknown ErrorCode = iota

	// ErrInvalidBinary marks a malformed .r1cs or .wtns file: bad magic,
	// version, section layout, or an unsupported field modulus.
	ErrInvalidBinary

	// ErrIoShort marks an underlying read returning fewer bytes than a
	// binary reader expected, or a failed write of a binary stream.
	ErrIoShort

	// ErrConstraintSynthesisFailed marks a failure reported by the upstream
	// constraint-synthesis producer, propagated unchanged.
	ErrConstraintSynthesisFailed

	// ErrInvalidInput marks a caller-supplied value (e.g. an assignment of
	// the wrong length) that the library rejects before doing any work.
	ErrInvalidInput
)

// LoweringError is the error type every exported operation in this package
// returns. Code lets callers dispatch without parsing Message; Cause is the
// wrapped underlying error, if any.
type LoweringError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LoweringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("circuit-lower error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("circuit-lower error [%d]: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *LoweringError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *LoweringError with the same Code.
func (e *LoweringError) Is(target error) bool {
	t, ok := target.(*LoweringError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func wrapf(code ErrorCode, cause error, format string, args ...any) *LoweringError {
	return &LoweringError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
