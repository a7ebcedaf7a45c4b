package sdk

import (
	"encoding/json"
)

// StatusType discriminates success from failure in the API envelope.
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusFail    StatusType = "fail"
	StatusError   StatusType = "error"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  StatusType `json:"status"`          // Status discriminant
	Code    int        `json:"code"`            // HTTP status code
	Message string     `json:"message"`         // Human-readable message
	Data    T          `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any        `json:"error,omitempty"` // Optional error field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin handlers
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a JSON string
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewSuccess creates a success envelope with no data
func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
	}
}

// NewSuccessResponse creates a success envelope carrying data
func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates an error envelope with the given status code
func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	status := StatusError
	if code < 500 {
		status = StatusFail
	}

	resp := ApiResponse[any]{
		Status:  status,
		Code:    code,
		Message: message,
	}

	if e, ok := err.(error); ok {
		resp.Error = e.Error()
	} else {
		resp.Error = err
	}

	return resp
}
