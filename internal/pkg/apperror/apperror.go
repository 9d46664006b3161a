package apperror

// Kind classifies an error for API consumers independently of the HTTP status.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidReference  Kind = "invalid_reference"
	KindSlotConflict      Kind = "slot_conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindInternal          Kind = "internal"
)

// AppError is a custom error type that includes an HTTP status code, a stable kind
// and the offending field or identifier, if any.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Machine readable category
	Message string // User-facing error message
	Field   string // Offending field or identifier (optional)
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return e.Message + " (" + e.Field + ")"
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithField returns a copy of e that names the offending field.
// The copy still matches e with errors.Is.
func (e *AppError) WithField(field string) *AppError {
	cp := *e
	cp.Field = field
	cp.Err = e
	return &cp
}

// New creates a new AppError with a status code, kind and message.
func New(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}
