package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40401 → 404）
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误（如驱动原始错误），仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As穿透到原始错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码相同即视为同一类错误
// 例如：NewNotFound("978...") 与预定义的 ErrBookNotFound 满足 errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatus 返回该错误对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapCode 以指定错误码包装底层错误
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 = HTTP状态码 * 100 + 序号
// - 400xx: 参数校验失败
// - 404xx: 资源不存在
// - 409xx: 唯一约束冲突
// - 413xx: 请求体过大
// - 500xx: 服务端错误（数据库异常、消息队列异常）

const (
	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误
	ErrCodeBindError     = 40001 // 参数绑定失败（JSON格式错误、非数字的分页参数）

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40401 // 图书不存在

	// 冲突错误（40900-40999）
	ErrCodeDuplicateEntry = 40900 // 重复记录(通用)
	ErrCodeISBNDuplicate  = 40901 // ISBN已存在

	// 请求体过大（41300-41399）
	ErrCodePayloadTooLarge = 41300 // 请求体超过上限

	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeMQError       = 50002 // 消息队列错误
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database operation failed")
	ErrMQError       = New(ErrCodeMQError, "Message queue operation failed")

	ErrNotFound       = New(ErrCodeNotFound, "Resource not found")
	ErrDuplicateEntry = New(ErrCodeDuplicateEntry, "Duplicate entry")

	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed request")

	ErrPayloadTooLarge = New(ErrCodePayloadTooLarge, "Request body too large")
)

// =========================================
// 辅助函数
// =========================================

// HTTPStatus 错误码 → HTTP状态码
// 不在400-599范围内的错误码一律视为500
func HTTPStatus(code int) int {
	status := code / 100
	if status < http.StatusBadRequest || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}
