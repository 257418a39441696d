package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	govalidator "github.com/go-playground/validator/v10"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/response"
	"github.com/xiebiao/bookstore-api/pkg/validator"
)

// maxBodyBytes 请求体上限(批量创建也足够)
const maxBodyBytes = 4 << 20

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBook *appbook.CreateBookUseCase
	listBooks  *appbook.ListBooksUseCase
	getBook    *appbook.GetBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBook: createBook,
		listBooks:  listBooks,
		getBook:    getBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
	}
}

// CreateBook 创建图书(单本或批量)
// @Summary      Create a new book
// @Description  Body可以是单个图书对象,也可以是图书数组(一次存储调用批量写入,任一ISBN冲突整批失败)
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息(或其数组)"
// @Success      201 {object} dto.BookResponse "单本时返回对象,批量时返回数组"
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "ISBN已存在"
// @Failure      413 {object} response.ErrorBody "请求体过大"
// @Failure      500 {object} response.ErrorBody "存储错误"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperrors.WrapCode(err, apperrors.ErrCodePayloadTooLarge,
				fmt.Sprintf("%s: limit is %d bytes", apperrors.ErrPayloadTooLarge.Message, tooLarge.Limit)))
			return
		}
		response.Error(c, apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message))
		return
	}

	if isJSONArray(body) {
		var reqs []dto.CreateBookRequest
		if err := decodeStrict(body, &reqs); err != nil {
			response.Error(c, err)
			return
		}
		input := make([]appbook.CreateBookRequest, len(reqs))
		for i := range reqs {
			if err := validateStruct(reqs[i]); err != nil {
				response.Error(c, prefixMessage(err, fmt.Sprintf("[%d] ", i)))
				return
			}
			input[i] = reqs[i].ToUseCase()
		}

		books, err := h.createBook.ExecuteMany(c.Request.Context(), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, dto.NewBookResponses(books))
		return
	}

	var req dto.CreateBookRequest
	if err := decodeStrict(body, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.createBook.Execute(c.Request.Context(), req.ToUseCase())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBookResponse(b))
}

// ListBooks 分页查询图书
// @Summary      Get all books
// @Description  search按正则(不区分大小写)匹配ISBN、书名、作者、摘要和出版日期(YYYY-MM-DD)
// @Tags         books
// @Produce      json
// @Param        page   query int    false "页码"   default(1)
// @Param        limit  query int    false "每页数量(1-100)" default(10)
// @Param        search query string false "Search term to filter books"
// @Success      200 {object} dto.PaginatedBooksResponse
// @Failure      400 {object} response.ErrorBody "page/limit不是整数"
// @Failure      500 {object} response.ErrorBody "存储错误(含非法正则)"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.WrapCode(err, apperrors.ErrCodeBindError, "Validation failed (numeric string is expected)"))
		return
	}

	page, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:   req.Page,
		Limit:  req.Limit,
		Search: req.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewPaginatedBooksResponse(page))
}

// GetBook 按ISBN查询
// @Summary      Get a book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn path string true "The ISBN of the book"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Router       /books/{isbn} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	b, err := h.getBook.Execute(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// UpdateBook 部分更新
// @Summary      Update a book by ISBN
// @Description  只更新出现的字段;允许修改ISBN本身,修改后需使用新ISBN访问
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        isbn    path string                true "ISBN of the book to update"
// @Param        request body dto.UpdateBookRequest true "要更新的字段"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Failure      409 {object} response.ErrorBody "新ISBN已存在"
// @Router       /books/{isbn} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, translateBindError(err))
		return
	}

	b, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ISBN:  c.Param("isbn"),
		Patch: req.ToPatch(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// DeleteBook 删除
// @Summary      Delete a book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn path string true "ISBN of the book to delete"
// @Success      200 {object} dto.BookResponse "被删除的图书"
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Router       /books/{isbn} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	b, err := h.deleteBook.Execute(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// =========================================
// 绑定与校验辅助函数
// =========================================

// isJSONArray 第一个非空白字符是'['
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeStrict 拒绝未声明的字段和多余的内容
func decodeStrict(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return translateBindError(err)
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
	}
	return nil
}

func validateStruct(v any) error {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return translateBindError(err)
	}
	return nil
}

// translateBindError 绑定/校验错误 → 400
func translateBindError(err error) error {
	var verrs govalidator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.WrapCode(err, apperrors.ErrCodeInvalidParams, validator.Translate(verrs))
	}

	msg := err.Error()
	if field, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return apperrors.WrapCode(err, apperrors.ErrCodeInvalidParams,
			fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`)))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.WrapCode(err, apperrors.ErrCodeInvalidParams,
			fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String()))
	}

	return apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
}

func prefixMessage(err error, prefix string) error {
	appErr := apperrors.GetAppError(err)
	return apperrors.WrapCode(appErr.Err, appErr.Code, prefix+appErr.Message)
}
