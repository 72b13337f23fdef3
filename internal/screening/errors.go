package screening

import "fmt"

type GatewayErrorKind string

const (
	GatewayAuth      GatewayErrorKind = "auth"
	GatewayRateLimit GatewayErrorKind = "rate-limit"
	GatewayTimeout   GatewayErrorKind = "timeout"
	GatewayNetwork   GatewayErrorKind = "network"
	GatewayUnknown   GatewayErrorKind = "unknown"
)

// GatewayError is a failed LLM call. It is recoverable at the per-candidate
// level: the batch records it and moves on.
type GatewayError struct {
	Kind GatewayErrorKind
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway error (%s)", e.Kind)
	}
	return fmt.Sprintf("gateway error (%s): %v", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError wraps err with a failure kind.
func NewGatewayError(kind GatewayErrorKind, err error) *GatewayError {
	return &GatewayError{Kind: kind, Err: err}
}

// ParseError means no valid verdict structure could be recovered from the
// gateway response. The raw text is retained for audit.
type ParseError struct {
	Reason      string
	RawResponse string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// InputValidationError aborts the whole batch before any gateway call is
// made. It is the only batch-fatal error in the engine.
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}
