package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. StatusCode与HTTP状态码一致,方便只看body的客户端
// 2. Code是业务错误码（如40401），区分同一状态码下的不同原因
// 3. Path是原始请求URL(含查询参数)
type ErrorBody struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Code       int    `json:"code" example:"40401"`
	Timestamp  string `json:"timestamp" example:"2024-01-01T00:00:00.000Z"`
	Message    string `json:"message" example:"Book with ISBN 978-3-16-148410-0 not found"`
	Path       string `json:"path" example:"/books/978-3-16-148410-0"`
}

// timestampLayout ISO 8601,毫秒精度,UTC
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var logger = zap.NewNop()

// SetLogger 设置记录5xx错误原因的日志(启动时调用一次)
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Success 成功响应,body直接是业务数据(不包裹)
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// OK 200成功响应
func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, data)
}

// Created 201成功响应
func Created(c *gin.Context, data any) {
	Success(c, http.StatusCreated, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	b, err := h.getBook.Execute(ctx, isbn)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 5xx的内部原因只写日志,不返回给客户端
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("code", appErr.Code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	c.AbortWithStatusJSON(status, newErrorBody(c, status, appErr.Code, appErr.Message))
}

// ErrorWithCode 自定义错误码和消息(HTTP状态码由错误码推导)
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

func newErrorBody(c *gin.Context, status, code int, message string) ErrorBody {
	return ErrorBody{
		StatusCode: status,
		Code:       code,
		Timestamp:  time.Now().UTC().Format(timestampLayout),
		Message:    message,
		Path:       c.Request.URL.RequestURI(),
	}
}
