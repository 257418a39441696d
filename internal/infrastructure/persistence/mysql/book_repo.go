package mysql

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// searchCondition 五个字段的大小写不敏感正则匹配;日期先格式化为YYYY-MM-DD
const searchCondition = "REGEXP_LIKE(isbn, ?, 'i') OR REGEXP_LIKE(title, ?, 'i') OR " +
	"REGEXP_LIKE(author, ?, 'i') OR REGEXP_LIKE(summary, ?, 'i') OR " +
	"REGEXP_LIKE(DATE_FORMAT(published_date, '%Y-%m-%d'), ?, 'i')"

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, tx *TxManager) book.Repository {
	return &bookRepository{db: db, tx: tx}
}

func (r *bookRepository) InsertOne(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	b.ID = formatID(model.ID)
	return nil
}

// InsertMany 批量插入,整批在同一事务中:任何一条失败则全部回滚
func (r *bookRepository) InsertMany(ctx context.Context, books []*book.Book) error {
	models := make([]*BookModel, len(books))
	for i, b := range books {
		models[i] = toBookModel(b)
	}

	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		return r.getDB(ctx).CreateInBatches(models, 100).Error
	})
	if err != nil {
		return translateError(err)
	}

	for i, m := range models {
		books[i].ID = formatID(m.ID)
	}
	return nil
}

func (r *bookRepository) Find(ctx context.Context, query book.Query) ([]*book.Book, error) {
	var models []BookModel
	err := r.scoped(ctx, query).
		Order("id ASC").
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

func (r *bookRepository) Count(ctx context.Context, query book.Query) (int64, error) {
	var total int64
	if err := r.scoped(ctx, query).Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (r *bookRepository) FindOne(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return toBookEntity(&model), nil
}

// FindOneAndUpdate 查找并更新
// 事务内先SELECT ... FOR UPDATE锁定行,再按补丁更新并返回更新后的记录
func (r *bookRepository) FindOneAndUpdate(ctx context.Context, isbn string, patch book.Patch) (*book.Book, error) {
	var updated *book.Book
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		model, err := r.lockByISBN(ctx, isbn)
		if err != nil || model == nil {
			return err
		}

		if err := r.getDB(ctx).Model(model).Updates(patchColumns(patch)).Error; err != nil {
			return err
		}

		b := toBookEntity(model)
		patch.Apply(b)
		updated = b
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// FindOneAndDelete 查找并删除,返回删除前的记录
func (r *bookRepository) FindOneAndDelete(ctx context.Context, isbn string) (*book.Book, error) {
	var deleted *book.Book
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		model, err := r.lockByISBN(ctx, isbn)
		if err != nil || model == nil {
			return err
		}
		if err := r.getDB(ctx).Delete(&BookModel{}, model.ID).Error; err != nil {
			return err
		}
		deleted = toBookEntity(model)
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return deleted, nil
}

// lockByISBN 悲观锁查询(必须在事务中调用),未命中返回(nil, nil)
func (r *bookRepository) lockByISBN(ctx context.Context, isbn string) (*BookModel, error) {
	var model BookModel
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("isbn = ?", isbn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model, nil
}

// scoped 列表与计数共用同一过滤条件
func (r *bookRepository) scoped(ctx context.Context, query book.Query) *gorm.DB {
	db := r.getDB(ctx).Model(&BookModel{})
	if query.Search != "" {
		s := query.Search
		db = db.Where(searchCondition, s, s, s, s, s)
	}
	return db
}

func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func translateError(err error) error {
	if isDuplicateError(err) {
		return book.NewDuplicateError(err)
	}
	return book.NewStorageError(err)
}

// patchColumns 补丁 → 列更新,只包含出现的字段
func patchColumns(patch book.Patch) map[string]any {
	cols := make(map[string]any, 5)
	if patch.ISBN != nil {
		cols["isbn"] = *patch.ISBN
	}
	if patch.Title != nil {
		cols["title"] = *patch.Title
	}
	if patch.Author != nil {
		cols["author"] = *patch.Author
	}
	if patch.PublishedDate != nil {
		cols["published_date"] = patch.PublishedDate.UTC()
	}
	if patch.Summary != nil {
		cols["summary"] = *patch.Summary
	}
	return cols
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.UTC(),
		Summary:       b.Summary,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := book.NewBook(model.ISBN, model.Title, model.Author, model.PublishedDate.UTC(), model.Summary)
	b.ID = formatID(model.ID)
	return b
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
