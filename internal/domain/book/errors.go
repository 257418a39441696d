package book

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	// 只用于errors.Is判断,返回给调用方的错误由NewNotFoundError生成(带ISBN)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "Duplicate entry")
)

// NewNotFoundError 生成指明ISBN的不存在错误
func NewNotFoundError(isbn string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeBookNotFound, "Book with ISBN %s not found", isbn)
}

// NewDuplicateError 包装存储层的唯一约束冲突,保留驱动原始错误(如Mongo的11000)
func NewDuplicateError(cause error) *apperrors.AppError {
	return apperrors.WrapCode(cause, apperrors.ErrCodeISBNDuplicate, ErrISBNDuplicate.Message)
}

// NewStorageError 包装其它存储层错误
func NewStorageError(cause error) *apperrors.AppError {
	return apperrors.WrapCode(cause, apperrors.ErrCodeDatabaseError, apperrors.ErrDatabaseError.Message)
}
