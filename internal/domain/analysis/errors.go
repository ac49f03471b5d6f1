package analysis

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrNotConfigured = errors.New("ai service not configured")
	ErrInvalidInput  = errors.New("invalid input")
	ErrParse         = errors.New("failed to parse analysis results")
)

// Public messages returned to callers.
const (
	MsgInputRequired = "Input text is required"
	MsgInvalidBody   = "Invalid request body"
	MsgParseFailed   = "Failed to parse analysis results"
)

// Error carries a kind, a message safe to show the caller and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// NotConfigured reports a missing provider credential, naming the variable to set.
func NotConfigured(envVar string) *Error {
	return &Error{
		Kind:    ErrNotConfigured,
		Message: "AI service not configured. Set " + envVar + " in environment variables.",
	}
}

// InvalidInput reports a request without usable input text.
func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

// ParseFailed reports a reply that could not be turned into a Result. When
// cause is a decoder error its message is what the caller sees.
func ParseFailed(cause error) *Error {
	if cause == nil {
		return &Error{Kind: ErrParse, Message: MsgParseFailed}
	}
	return &Error{Kind: ErrParse, Message: cause.Error()}
}

// PublicMessage returns the message to expose for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
