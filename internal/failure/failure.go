// Package failure holds the error taxonomy shared by the form controllers and the API client.
package failure

import (
	"fmt"
	"net/http"
)

// Validation is a client-side rejection. No network call is made when it is returned.
type Validation struct {
	Field  string
	Reason string
}

func (e *Validation) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Transport means the request never produced an HTTP response.
type Transport struct {
	Op  string
	Err error
}

func (e *Transport) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Transport) Unwrap() error { return e.Err }

// Server is a non-2xx response. Message carries the service's own error string, if it sent one.
type Server struct {
	StatusCode int
	Message    string
}

func (e *Server) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
