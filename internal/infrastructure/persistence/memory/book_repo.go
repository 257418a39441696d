package memory

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// bookRepository 图书仓储实现(内存)
// 设计说明:
// 1. 用于本地开发(storage.driver=memory)和测试,进程退出数据即丢失
// 2. 语义与Mongo实现保持一致:ISBN唯一、插入顺序即查询顺序、search按正则匹配
// 3. 所有读写在一把读写锁内完成,update/delete天然是find-and-modify
type bookRepository struct {
	mu     sync.RWMutex
	books  []*book.Book // 按插入顺序保存
	nextID int
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() book.Repository {
	return &bookRepository{}
}

func (r *bookRepository) InsertOne(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(b.ISBN) >= 0 {
		return book.NewDuplicateError(duplicateKeyError(b.ISBN))
	}
	r.insert(b)
	return nil
}

// InsertMany 整批校验后再写入,任一ISBN冲突(包括批内重复)则整批失败
func (r *bookRepository) InsertMany(ctx context.Context, books []*book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		if _, dup := seen[b.ISBN]; dup || r.indexOf(b.ISBN) >= 0 {
			return book.NewDuplicateError(duplicateKeyError(b.ISBN))
		}
		seen[b.ISBN] = struct{}{}
	}
	for _, b := range books {
		r.insert(b)
	}
	return nil
}

func (r *bookRepository) Find(ctx context.Context, query book.Query) ([]*book.Book, error) {
	matched, err := r.match(query)
	if err != nil {
		return nil, err
	}

	start := query.Skip
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && query.Limit < end-start {
		end = start + query.Limit
	}
	return matched[start:end], nil
}

func (r *bookRepository) Count(ctx context.Context, query book.Query) (int64, error) {
	matched, err := r.match(query)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *bookRepository) FindOne(ctx context.Context, isbn string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(isbn)
	if i < 0 {
		return nil, nil
	}
	return clone(r.books[i]), nil
}

func (r *bookRepository) FindOneAndUpdate(ctx context.Context, isbn string, patch book.Patch) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(isbn)
	if i < 0 {
		return nil, nil
	}
	// 修改ISBN时仍需满足唯一约束
	if patch.ISBN != nil && *patch.ISBN != isbn && r.indexOf(*patch.ISBN) >= 0 {
		return nil, book.NewDuplicateError(duplicateKeyError(*patch.ISBN))
	}

	patch.Apply(r.books[i])
	return clone(r.books[i]), nil
}

func (r *bookRepository) FindOneAndDelete(ctx context.Context, isbn string) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(isbn)
	if i < 0 {
		return nil, nil
	}
	deleted := r.books[i]
	r.books = append(r.books[:i], r.books[i+1:]...)
	return deleted, nil
}

// =========================================
// 辅助函数
// =========================================

// match 返回命中搜索条件的全部记录(副本)
func (r *bookRepository) match(query book.Query) ([]*book.Book, error) {
	var re *regexp.Regexp
	if query.Search != "" {
		var err error
		re, err = regexp.Compile("(?i)" + query.Search)
		if err != nil {
			return nil, book.NewStorageError(fmt.Errorf("invalid search pattern: %w", err))
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if re == nil || query.Matches(b, re.MatchString) {
			matched = append(matched, clone(b))
		}
	}
	return matched, nil
}

// insert 调用方需持有写锁
func (r *bookRepository) insert(b *book.Book) {
	r.nextID++
	b.ID = strconv.Itoa(r.nextID)
	r.books = append(r.books, clone(b))
}

func (r *bookRepository) indexOf(isbn string) int {
	for i, b := range r.books {
		if b.ISBN == isbn {
			return i
		}
	}
	return -1
}

func clone(b *book.Book) *book.Book {
	c := *b
	return &c
}

func duplicateKeyError(isbn string) error {
	return fmt.Errorf("duplicate key: ISBN %q already exists", isbn)
}
