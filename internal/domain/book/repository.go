package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(mongo / mysql / memory)
// 2. 按ISBN查找不到记录时返回(nil, nil),由领域服务转换为带ISBN的NotFound
// 3. ISBN唯一约束冲突返回ErrISBNDuplicate(包装驱动原始错误),其它错误原样包装
type Repository interface {
	// InsertOne 插入一本图书,成功后回填ID
	InsertOne(ctx context.Context, book *Book) error

	// InsertMany 一次存储调用批量插入,顺序与入参一致
	InsertMany(ctx context.Context, books []*Book) error

	// Find 按过滤条件查询,先skip再limit
	Find(ctx context.Context, query Query) ([]*Book, error)

	// Count 统计匹配过滤条件的总数(忽略skip/limit)
	Count(ctx context.Context, query Query) (int64, error)

	// FindOne 按ISBN精确查找
	FindOne(ctx context.Context, isbn string) (*Book, error)

	// FindOneAndUpdate 按ISBN原子地部分更新,返回更新后的记录
	FindOneAndUpdate(ctx context.Context, isbn string, patch Patch) (*Book, error)

	// FindOneAndDelete 按ISBN原子地删除,返回被删除的记录
	FindOneAndDelete(ctx context.Context, isbn string) (*Book, error)
}

// Query 仓储查询条件
// Search为空表示匹配全部;非空时为五个字段的大小写不敏感正则OR匹配:
// ISBN、title、author、summary、publishedDate(YYYY-MM-DD)
type Query struct {
	Search string
	Skip   int
	Limit  int
}

// Matches 判断一本图书是否命中搜索条件(存储层无法下推正则时使用)
// 调用方负责编译search为大小写不敏感的正则
func (q Query) Matches(b *Book, match func(string) bool) bool {
	if q.Search == "" {
		return true
	}
	return match(b.ISBN) ||
		match(b.Title) ||
		match(b.Author) ||
		match(b.Summary) ||
		match(b.PublishedDateString())
}
