package bula

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for callers.
type Kind int

const (
	// KindInternal covers remote call failures and unusable generated content.
	KindInternal Kind = iota
	// KindInvalidArgument means the request payload was rejected before any remote call.
	KindInvalidArgument
	// KindNotFound means a stage succeeded but found nothing usable.
	KindNotFound
)

// String returns the callable-function status name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// Pipeline failures. Each *Error carries one of these in its chain.
var (
	ErrEmptyImage        = errors.New("image payload is empty")
	ErrInvalidImage      = errors.New("image payload is not valid base64")
	ErrImageTooLarge     = errors.New("image payload exceeds the size limit")
	ErrEmptyName         = errors.New("medicine name is empty")
	ErrNoTextDetected    = errors.New("no text detected in image")
	ErrNameNotIdentified = errors.New("medicine name not identified")
	ErrLeafletNotFound   = errors.New("leaflet not found")
	ErrMissingFullText   = errors.New("leaflet has no full text")
	ErrMalformedSummary  = errors.New("generated summary is not valid JSON")
	ErrServiceInit       = errors.New("service initialization failed")
)

// DefaultInternalMessage is shown for internal failures that carry no message.
const DefaultInternalMessage = "Ocorreu um erro inesperado ao processar a solicitação de bula."

// Error is a classified pipeline failure.
type Error struct {
	// Op is the stage that failed (e.g., "ExtractName", "ResolveLeaflet").
	Op string

	// Kind selects the status reported to the caller.
	Kind Kind

	// Message is safe to show to end users.
	Message string

	// Err holds the diagnostic chain. It is logged, never returned to users.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bula: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("bula: %s: %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op, message string, err error) *Error {
	return &Error{Op: op, Kind: KindInvalidArgument, Message: message, Err: err}
}

func notFound(op, message string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Message: message, Err: err}
}

func internal(op, message string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Message: message, Err: err}
}

// Internal wraps err as an internal failure of op. Used by callers that build
// collaborators, so construction failures surface with the same taxonomy.
func Internal(op, message string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return internal(op, message, fmt.Errorf("%w: %w", ErrServiceInit, err))
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// PublicMessage returns the user-facing message for err.
func PublicMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return DefaultInternalMessage
}
