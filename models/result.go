package models

import "net/http"

// Result is the outcome of an intake request, rendered by response.Send.
type Result struct {
	Success    bool
	Message    string
	StatusCode int
}

// Succeeded builds a 200 result.
func Succeeded(message string) Result {
	return Result{Success: true, Message: message, StatusCode: http.StatusOK}
}

// Failed builds a failure result with the given status code.
func Failed(statusCode int, message string) Result {
	return Result{Success: false, Message: message, StatusCode: statusCode}
}
