package main

import (
	"bytes"
	"fmt"
	"os"

	govalidator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/validator"
)

// seedBook 种子文件中的一条图书记录
// 校验规则与POST /books一致
type seedBook struct {
	ISBN          string `yaml:"ISBN" json:"ISBN" validate:"required,isbn"`
	Title         string `yaml:"title" json:"title" validate:"required"`
	Author        string `yaml:"author" json:"author" validate:"required"`
	PublishedDate string `yaml:"publishedDate" json:"publishedDate" validate:"required,isodate"`
	Summary       string `yaml:"summary" json:"summary" validate:"required,min=10"`
}

// seedFile 带books键的写法
type seedFile struct {
	Books []seedBook `yaml:"books"`
}

// loadBooks 读取种子文件(YAML或JSON,JSON是YAML的子集)
// 顶层可以是图书数组,也可以是{books: [...]}
func loadBooks(path string) ([]*book.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return parseBooks(data)
}

func parseBooks(data []byte) ([]*book.Book, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("种子文件为空")
	}

	var records []seedBook
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("解析图书列表失败: %w", err)
		}
	case yaml.MappingNode:
		var file seedFile
		if err := doc.Decode(&file); err != nil {
			return nil, fmt.Errorf("解析图书列表失败: %w", err)
		}
		records = file.Books
	default:
		return nil, fmt.Errorf("种子文件顶层必须是数组或包含books的对象")
	}

	v := govalidator.New()
	validator.Register(v)

	books := make([]*book.Book, 0, len(records))
	for i, r := range records {
		if err := v.Struct(r); err != nil {
			return nil, fmt.Errorf("第%d条记录(ISBN=%s)校验失败: %s", i+1, r.ISBN, validator.Translate(err))
		}
		date, _ := validator.ParseISODate(r.PublishedDate)
		books = append(books, book.NewBook(r.ISBN, r.Title, r.Author, date, r.Summary))
	}
	return books, nil
}
