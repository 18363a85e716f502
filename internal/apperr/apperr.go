package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindInternal
)

// Error 带 HTTP 状态码的业务错误
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 输入校验错误（422）
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Message: message}
}

// NotFound 资源不存在错误（404）
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Internal 内部错误（500），包装底层原因但不对外泄露细节
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

// From 提取业务错误；其他错误一律视为内部错误
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// IsKind 判断错误类别
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
