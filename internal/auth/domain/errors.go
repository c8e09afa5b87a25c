package domain

type AuthErrorKind string

const (
	AuthNotLinked     AuthErrorKind = "not_linked"
	AuthRefreshFailed AuthErrorKind = "refresh_failed"
)

// AuthError means no usable access token could be produced.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

var (
	ErrNotLinked     = &AuthError{Kind: AuthNotLinked}
	ErrRefreshFailed = &AuthError{Kind: AuthRefreshFailed}
)

func (e *AuthError) Error() string {
	msg := "mail account not linked"
	if e.Kind == AuthRefreshFailed {
		msg = "access token refresh failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind, so errors.Is(err, ErrNotLinked) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}
