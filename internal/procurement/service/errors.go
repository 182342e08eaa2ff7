package service

import "fmt"

// 业务错误类型，处理层据此映射HTTP状态码
const (
	KindNotFound          = "not_found"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid_transition"
	KindValidationFailed  = "validation_failed"
)

// Error 业务错误
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFoundError 资源不存在
func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ConflictError 状态冲突（重复报价、存在关联单据等）
func ConflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// TransitionError 非法状态流转
func TransitionError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// ValidationError 业务校验失败
func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidationFailed, Message: fmt.Sprintf(format, args...)}
}
