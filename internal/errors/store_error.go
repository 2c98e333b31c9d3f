package errors

import "net/http"

// NewStoreError wraps a persistence failure. The cause's message is exposed
// to the client as-is.
func NewStoreError(err error) *Exception {
	return &Exception{
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
