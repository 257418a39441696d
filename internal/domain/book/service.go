package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 请求意图 → 存储操作的唯一转换点
// 2. 统一NotFound语义:仓储返回nil记录时生成带ISBN的错误
// 3. 重复ISBN、其它存储错误原样向上传递,不做本地恢复
type Service interface {
	// Create 创建一本图书
	Create(ctx context.Context, book *Book) (*Book, error)

	// CreateMany 一次存储调用批量创建,任一ISBN冲突则整批失败
	CreateMany(ctx context.Context, books []*Book) ([]*Book, error)

	// FindAll 分页 + 搜索
	FindAll(ctx context.Context, params ListParams) (*Page, error)

	// FindByISBN 按ISBN查询
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 按ISBN部分更新,返回更新后的记录
	Update(ctx context.Context, isbn string, patch Patch) (*Book, error)

	// Delete 按ISBN删除,返回被删除的记录
	Delete(ctx context.Context, isbn string) (*Book, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, book *Book) (*Book, error) {
	if err := s.repo.InsertOne(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) CreateMany(ctx context.Context, books []*Book) ([]*Book, error) {
	if len(books) == 0 {
		return []*Book{}, nil
	}
	if err := s.repo.InsertMany(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// FindAll 分页查询
// 先count再find,两次调用使用同一个过滤条件;不在事务中执行,
// 并发写入时total与当前页可能不完全一致(列表接口可接受的弱一致性)
func (s *service) FindAll(ctx context.Context, params ListParams) (*Page, error) {
	params = params.Normalize()

	query := Query{
		Search: params.Search,
		Skip:   params.Skip(),
		Limit:  params.Limit,
	}

	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	books, err := s.repo.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}

	return &Page{
		Books:      books,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: TotalPages(total, params.Limit),
	}, nil
}

func (s *service) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	book, err := s.repo.FindOne(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, NewNotFoundError(isbn)
	}
	return book, nil
}

func (s *service) Update(ctx context.Context, isbn string, patch Patch) (*Book, error) {
	var (
		book *Book
		err  error
	)
	// 空补丁不下发更新(存储层不接受空的$set),直接返回当前记录
	if patch.IsEmpty() {
		book, err = s.repo.FindOne(ctx, isbn)
	} else {
		book, err = s.repo.FindOneAndUpdate(ctx, isbn, patch)
	}
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, NewNotFoundError(isbn)
	}
	return book, nil
}

func (s *service) Delete(ctx context.Context, isbn string) (*Book, error) {
	book, err := s.repo.FindOneAndDelete(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, NewNotFoundError(isbn)
	}
	return book, nil
}
