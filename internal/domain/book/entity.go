package book

import (
	"time"
)

// DateLayout publishedDate的文本格式(搜索时按此格式匹配日期)
const DateLayout = "2006-01-02"

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ISBN作为业务唯一标识(存储层保证唯一性),所有查询/修改/删除都以ISBN定位
// 2. ID是存储层生成的内部主键,只用于展示
// 3. 字段约束(必填、summary至少10个字符)由HTTP边界层校验,领域层不重复校验
type Book struct {
	ID            string
	ISBN          string
	Title         string
	Author        string
	PublishedDate time.Time
	Summary       string
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, title, author string, publishedDate time.Time, summary string) *Book {
	return &Book{
		ISBN:          isbn,
		Title:         title,
		Author:        author,
		PublishedDate: publishedDate,
		Summary:       summary,
	}
}

// PublishedDateString 出版日期的YYYY-MM-DD表示(UTC)
func (b *Book) PublishedDateString() string {
	return b.PublishedDate.UTC().Format(DateLayout)
}

// Patch 部分更新参数
// nil表示不修改该字段;ISBN也允许修改(它只是一个普通的可选字段)
type Patch struct {
	ISBN          *string
	Title         *string
	Author        *string
	PublishedDate *time.Time
	Summary       *string
}

// IsEmpty 没有任何字段需要修改
func (p Patch) IsEmpty() bool {
	return p.ISBN == nil &&
		p.Title == nil &&
		p.Author == nil &&
		p.PublishedDate == nil &&
		p.Summary == nil
}

// Apply 把补丁应用到实体上(内存存储使用;数据库存储由find-and-modify原子完成)
func (p Patch) Apply(b *Book) {
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.PublishedDate != nil {
		b.PublishedDate = *p.PublishedDate
	}
	if p.Summary != nil {
		b.Summary = *p.Summary
	}
}
