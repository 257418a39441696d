package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// duplicateKeyCode MongoDB唯一索引冲突错误码
const duplicateKeyCode = 11000

// bookDocument 图书文档模型
// 设计说明:
// 1. 这是infrastructure层的存储模型,包含bson tag
// 2. domain/book/entity.go是领域实体,不依赖驱动
// 3. Repository负责两者之间的转换
type bookDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	ISBN          string        `bson:"ISBN"`
	Title         string        `bson:"title"`
	Author        string        `bson:"author"`
	PublishedDate time.Time     `bson:"publishedDate"`
	Summary       string        `bson:"summary"`
}

// bookRepository 图书仓储实现(MongoDB)
type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository 创建图书仓储
func NewBookRepository(coll *mongo.Collection) book.Repository {
	return &bookRepository{coll: coll}
}

func (r *bookRepository) InsertOne(ctx context.Context, b *book.Book) error {
	doc := toDocument(b)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translateError(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		b.ID = id.Hex()
	}
	return nil
}

// InsertMany 批量插入(有序):遇到第一个冲突即失败,不做部分插入的恢复
func (r *bookRepository) InsertMany(ctx context.Context, books []*book.Book) error {
	docs := make([]bookDocument, len(books))
	for i, b := range books {
		docs[i] = toDocument(b)
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return translateError(err)
	}
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(bson.ObjectID); ok && i < len(books) {
			books[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *bookRepository) Find(ctx context.Context, query book.Query) ([]*book.Book, error) {
	opts := options.Find().
		SetSkip(int64(query.Skip)).
		SetLimit(int64(query.Limit))

	cursor, err := r.coll.Find(ctx, buildFilter(query), opts)
	if err != nil {
		return nil, translateError(err)
	}

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}

	books := make([]*book.Book, len(docs))
	for i := range docs {
		books[i] = toEntity(&docs[i])
	}
	return books, nil
}

func (r *bookRepository) Count(ctx context.Context, query book.Query) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, buildFilter(query))
	if err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (r *bookRepository) FindOne(ctx context.Context, isbn string) (*book.Book, error) {
	return decodeOne(r.coll.FindOne(ctx, byISBN(isbn)))
}

// FindOneAndUpdate 原子更新并返回更新后的文档(ReturnDocument=After)
func (r *bookRepository) FindOneAndUpdate(ctx context.Context, isbn string, patch book.Patch) (*book.Book, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne(r.coll.FindOneAndUpdate(ctx, byISBN(isbn), buildUpdate(patch), opts))
}

func (r *bookRepository) FindOneAndDelete(ctx context.Context, isbn string) (*book.Book, error) {
	return decodeOne(r.coll.FindOneAndDelete(ctx, byISBN(isbn)))
}

// =========================================
// 辅助函数
// =========================================

// decodeOne 单文档结果解码,未命中返回(nil, nil)
func decodeOne(res *mongo.SingleResult) (*book.Book, error) {
	var doc bookDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return toEntity(&doc), nil
}

// translateError 驱动错误 → 领域错误
// 唯一索引冲突(11000)单独区分,其它错误统一为存储错误;两者都保留原始错误
func translateError(err error) error {
	if isDuplicateKeyError(err) {
		return book.NewDuplicateError(err)
	}
	return book.NewStorageError(err)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(duplicateKeyCode)
}

func toDocument(b *book.Book) bookDocument {
	return bookDocument{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		Summary:       b.Summary,
	}
}

func toEntity(doc *bookDocument) *book.Book {
	b := book.NewBook(doc.ISBN, doc.Title, doc.Author, doc.PublishedDate.UTC(), doc.Summary)
	if !doc.ID.IsZero() {
		b.ID = doc.ID.Hex()
	}
	return b
}
