package email

import (
	"errors"
	"fmt"
)

type SendError struct {
	Code       string
	Message    string
	StatusCode int
}

type errorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *SendError) Error() string {
	return fmt.Sprintf("email error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *SendError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsSendError(err error) (*SendError, bool) {
	var sendErr *SendError
	ok := errors.As(err, &sendErr)
	return sendErr, ok
}
