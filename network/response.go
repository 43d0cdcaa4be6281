package network

import (
	"fmt"
	"time"
)

const (
	APIVersion       = "1.0"
	ServiceErrorCode = "SERVICE_ERROR"
)

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId"`
	// milliseconds
	ProcessingTime float64 `json:"processingTime"`
	Version        string  `json:"version"`
}

// Response is the uniform result of every backend call. Failures never
// surface as Go errors from the client methods; they are reported through
// Success and Error instead.
type Response[T any] struct {
	Success  bool           `json:"success"`
	Data     T              `json:"data,omitempty"`
	Error    *ResponseError `json:"error,omitempty"`
	Metadata Metadata       `json:"metadata"`
}

func (r Response[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return fmt.Errorf("%s: unknown error", ServiceErrorCode)
	}
	return fmt.Errorf("%s: %s", r.Error.Code, r.Error.Message)
}

func success[T any](data T, requestID string, processingTime float64) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
		Metadata: Metadata{
			Timestamp:      time.Now(),
			RequestID:      requestID,
			ProcessingTime: processingTime,
			Version:        APIVersion,
		},
	}
}

func failure[T any](err error) Response[T] {
	log.Errorf("charging network service error: %v", err)
	return Response[T]{
		Success: false,
		Error: &ResponseError{
			Code:    ServiceErrorCode,
			Message: err.Error(),
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
			Version:   APIVersion,
		},
	}
}
