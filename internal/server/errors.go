package server

import "net/http"

type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return e.Message
}

// Rejections returned by Resolver.Resolve. The message doubles as the response body.
var (
	ErrBadRequest = &httpError{
		Status:  http.StatusBadRequest,
		Message: "Bad request",
	}

	ErrForbidden = &httpError{
		Status:  http.StatusForbidden,
		Message: "Forbidden",
	}

	ErrNotFound = &httpError{
		Status:  http.StatusNotFound,
		Message: "Not found",
	}
)
