// Package apperr is the tagged error type every turn handler returns.
// A turn surfaces at most one of these to the user.
package apperr

import "errors"

// Kind groups codes by how the conversation recovers from them.
type Kind string

const (
	// Validation covers malformed or out-of-range input. Session state is untouched.
	Validation Kind = "validation"
	// Transport covers failures talking to the remote game service.
	Transport Kind = "transport"
	// StrategyEngine covers failures of the advisory computation.
	StrategyEngine Kind = "strategy_engine"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeMissingTotal     Code = "MISSING_TOTAL"
	CodeTotalOutOfRange  Code = "TOTAL_OUT_OF_RANGE"
	CodeSoftTotalTooLow  Code = "SOFT_TOTAL_TOO_LOW"
	CodeMissingDealer    Code = "MISSING_DEALER"
	CodeDealerOutOfRange Code = "DEALER_OUT_OF_RANGE"
	CodeMissingAction    Code = "MISSING_ACTION"
	CodeIllegalAction    Code = "ILLEGAL_ACTION"
	CodeSessionEnded     Code = "SESSION_ENDED"

	CodeRemoteStatus    Code = "REMOTE_STATUS"
	CodeRemoteNetwork   Code = "REMOTE_NETWORK"
	CodeRemoteMalformed Code = "REMOTE_MALFORMED"

	CodeEngineFailed        Code = "ENGINE_FAILED"
	CodeEngineUnknownAction Code = "ENGINE_UNKNOWN_ACTION"
)

// Error carries a spoken-safe message next to the internal cause.
type Error struct {
	Kind    Kind
	Code    Code
	Message string // safe to read back to the user
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error without an underlying cause.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error that wraps cause.
func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

func Validationf(code Code, message string) *Error { return New(Validation, code, message) }

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
