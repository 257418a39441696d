package dto

import (
	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/validator"
)

// CreateBookRequest HTTP创建请求
// validator tag说明:
// - required: 必填且非空
// - isbn: ISBN-10或ISBN-13(含校验位,允许连字符)
// - isodate: YYYY-MM-DD或RFC 3339(pkg/validator中注册)
type CreateBookRequest struct {
	ISBN          string `json:"ISBN" binding:"required,isbn" example:"978-3-16-148410-0"`
	Title         string `json:"title" binding:"required" example:"The Great Gatsby"`
	Author        string `json:"author" binding:"required" example:"F. Scott Fitzgerald"`
	PublishedDate string `json:"publishedDate" binding:"required,isodate" example:"2025-08-01"`
	Summary       string `json:"summary" binding:"required,min=10" example:"The story primarily concerns the young and mysterious millionaire Jay Gatsby..."`
}

// ToUseCase 转换为应用层请求(日期已通过isodate校验)
func (r CreateBookRequest) ToUseCase() appbook.CreateBookRequest {
	date, _ := validator.ParseISODate(r.PublishedDate)
	return appbook.CreateBookRequest{
		ISBN:          r.ISBN,
		Title:         r.Title,
		Author:        r.Author,
		PublishedDate: date,
		Summary:       r.Summary,
	}
}

// UpdateBookRequest HTTP更新请求
// 所有字段可选,出现的字段按创建时的规则校验
type UpdateBookRequest struct {
	ISBN          *string `json:"ISBN" binding:"omitempty,isbn" example:"978-3-16-148410-0"`
	Title         *string `json:"title" binding:"omitempty,min=1" example:"Updated Title"`
	Author        *string `json:"author" binding:"omitempty,min=1" example:"F. Scott Fitzgerald"`
	PublishedDate *string `json:"publishedDate" binding:"omitempty,isodate" example:"2025-08-01"`
	Summary       *string `json:"summary" binding:"omitempty,min=10" example:"A new summary of at least ten characters"`
}

// ToPatch 转换为领域补丁
func (r UpdateBookRequest) ToPatch() book.Patch {
	patch := book.Patch{
		ISBN:    r.ISBN,
		Title:   r.Title,
		Author:  r.Author,
		Summary: r.Summary,
	}
	if r.PublishedDate != nil {
		date, _ := validator.ParseISODate(*r.PublishedDate)
		patch.PublishedDate = &date
	}
	return patch
}

// ListBooksRequest HTTP列表查询参数
// page/limit不是整数时绑定失败(400);超出范围的值由领域层限制到合法区间
type ListBooksRequest struct {
	Page   int    `form:"page,default=1" example:"1"`
	Limit  int    `form:"limit,default=10" example:"10"`
	Search string `form:"search" example:"gatsby"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID            string `json:"_id,omitempty" example:"66b2f0c1e4b0a1b2c3d4e5f6"`
	ISBN          string `json:"ISBN" example:"978-3-16-148410-0"`
	Title         string `json:"title" example:"The Great Gatsby"`
	Author        string `json:"author" example:"F. Scott Fitzgerald"`
	PublishedDate string `json:"publishedDate" example:"2025-08-01"`
	Summary       string `json:"summary" example:"The story primarily concerns the young and mysterious millionaire Jay Gatsby..."`
}

// PaginatedBooksResponse HTTP分页响应
type PaginatedBooksResponse struct {
	Books      []BookResponse `json:"books"`
	Total      int64          `json:"total" example:"23"`
	Page       int            `json:"page" example:"1"`
	Limit      int            `json:"limit" example:"10"`
	TotalPages int            `json:"totalPages" example:"3"`
}

// NewBookResponse 领域实体 → HTTP响应
func NewBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDateString(),
		Summary:       b.Summary,
	}
}

// NewBookResponses 批量转换,nil输入返回空数组(序列化为[]而不是null)
func NewBookResponses(books []*book.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = NewBookResponse(b)
	}
	return out
}

// NewPaginatedBooksResponse 分页结果 → HTTP响应
func NewPaginatedBooksResponse(p *book.Page) PaginatedBooksResponse {
	return PaginatedBooksResponse{
		Books:      NewBookResponses(p.Books),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
