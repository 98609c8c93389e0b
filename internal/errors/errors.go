package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 带 HTTP 状态码的业务错误
type Error struct {
	Message string `json:"message"`
	Cause   error  `json:"-"`
	Code    int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New 创建错误；cause 可为空
func New(cause error, code int, message string) *Error {
	return &Error{Message: message, Cause: cause, Code: code}
}

// Wrap 包装底层错误，保留已有的 *Error 状态码
func Wrap(err error, message string, code int) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && code == 0 {
		code = e.Code
	}
	if code == 0 {
		code = http.StatusInternalServerError
	}
	return &Error{Message: message, Cause: err, Code: code}
}

// Is 与 As 透传标准库，调用方无需同时引入两个 errors 包
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// CodeOf 返回错误对应的 HTTP 状态码
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}

func InvalidArg(arg string) *Error {
	return New(nil, http.StatusBadRequest, "invalid argument: "+arg)
}

var (
	ErrNotConnected    = New(nil, http.StatusServiceUnavailable, "data source not connected")
	ErrReportNotReady  = New(nil, http.StatusServiceUnavailable, "report is not ready")
	ErrInvalidScope    = New(nil, http.StatusBadRequest, "invalid scope")
	ErrUnknownRanking  = New(nil, http.StatusNotFound, "unknown ranking")
	ErrContactNotFound = New(nil, http.StatusNotFound, "contact not found")
)
