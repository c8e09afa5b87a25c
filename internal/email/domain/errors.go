package domain

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ProviderError is a failed call to the mail provider.
// StatusCode is 0 for transport failures.
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func NewProviderError(op string, err error) *ProviderError {
	pe := &ProviderError{Op: op, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.Code
	}
	return pe
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mail provider %s failed (%d %s): %v", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	}
	return fmt.Sprintf("mail provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ClassificationError is a failed or unparseable inference call.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return "classification failed: " + e.Reason
}

func (e *ClassificationError) Unwrap() error { return e.Err }
