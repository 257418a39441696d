package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// seedResult 导入结果
type seedResult struct {
	Inserted int
	Skipped  int
}

// seeder 把种子图书写入存储
// bulk且不跳过重复时一次CreateMany(任一冲突整批失败);否则逐条Create
type seeder struct {
	svc            book.Service
	logger         *zap.Logger
	bulk           bool
	skipDuplicates bool
}

func (s *seeder) run(ctx context.Context, books []*book.Book) (seedResult, error) {
	if s.bulk && !s.skipDuplicates {
		created, err := s.svc.CreateMany(ctx, books)
		if err != nil {
			return seedResult{}, err
		}
		return seedResult{Inserted: len(created)}, nil
	}

	var res seedResult
	for _, b := range books {
		if _, err := s.svc.Create(ctx, b); err != nil {
			if s.skipDuplicates && errors.Is(err, book.ErrISBNDuplicate) {
				s.logger.Info("ISBN已存在,跳过", zap.String("isbn", b.ISBN))
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Inserted++
	}
	return res, nil
}
