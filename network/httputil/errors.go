package httputil

import (
	"net/http"
)

// DefaultErrorJson is a JSON representation of a simple error value, containing only a message and an error code.
type DefaultErrorJson struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StatusCode returns the error's underlying error code.
func (e *DefaultErrorJson) StatusCode() int {
	return e.Code
}

// Msg returns the error's underlying message.
func (e *DefaultErrorJson) Msg() string {
	return e.Message
}

// HasStatusCode is implemented by errors that carry an HTTP status code.
type HasStatusCode interface {
	StatusCode() int
}

// HandleError writes a JSON error with the given message and code.
func HandleError(w http.ResponseWriter, message string, code int) {
	errJson := &DefaultErrorJson{
		Message: message,
		Code:    code,
	}
	WriteError(w, errJson)
}
