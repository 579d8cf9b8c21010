package services

// Kind classifies a service failure so the transport layer can map it
// to an HTTP status without parsing error text.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
)

// Error is a classified service failure. The message is safe to
// return to clients; internal failures are never wrapped in one.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports missing or malformed input.
func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

// Conflict reports a state clash, such as a duplicate email.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Authentication reports bad credentials or an invalid token.
func Authentication(msg string) error { return &Error{Kind: KindAuthentication, Message: msg} }

// Authorization reports an authenticated caller without privilege.
func Authorization(msg string) error { return &Error{Kind: KindAuthorization, Message: msg} }

// NotFound reports a reference to a record that does not exist.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }
