package book

import "math"

const (
	// DefaultLimit 未指定limit时每页数量(HTTP层默认值)
	DefaultLimit = 10
	// MaxLimit 每页最大数量,防止一次拉取无界结果集
	MaxLimit = 100
)

// ListParams 列表查询参数
type ListParams struct {
	Page   int    // 页码(从1开始)
	Limit  int    // 每页数量
	Search string // 搜索关键词(作为正则匹配)
}

// Normalize 参数范围限制:page最小为1,limit限制在[1, MaxLimit]
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip 计算跳过的记录数
// page很大时(page-1)*limit会溢出int,此时饱和为math.MaxInt,结果为空页
func (p ListParams) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page 分页查询结果(不持久化)
type Page struct {
	Books      []*Book
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages 计算总页数 ceil(total / limit)
// total为0时结果为0
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
