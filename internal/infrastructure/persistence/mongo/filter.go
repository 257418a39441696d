package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// 文档字段名(与历史数据保持一致,ISBN为大写)
const (
	fieldISBN          = "ISBN"
	fieldTitle         = "title"
	fieldAuthor        = "author"
	fieldPublishedDate = "publishedDate"
	fieldSummary       = "summary"
)

// buildFilter 构建列表查询的过滤条件
// search为空匹配全部;否则为五个条件的$or:
// ISBN/title/author/summary做大小写不敏感的正则匹配,
// publishedDate先格式化成YYYY-MM-DD字符串再做正则匹配(搜"2024"能命中该年出版的书)
func buildFilter(query book.Query) bson.M {
	if query.Search == "" {
		return bson.M{}
	}

	regex := func(field string) bson.M {
		return bson.M{field: bson.M{"$regex": query.Search, "$options": "i"}}
	}

	return bson.M{
		"$or": bson.A{
			regex(fieldISBN),
			regex(fieldTitle),
			regex(fieldAuthor),
			regex(fieldSummary),
			bson.M{
				"$expr": bson.M{
					"$regexMatch": bson.M{
						"input": bson.M{
							"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$" + fieldPublishedDate},
						},
						"regex":   query.Search,
						"options": "i",
					},
				},
			},
		},
	}
}

// buildUpdate 补丁 → $set,只包含补丁中出现的字段
func buildUpdate(patch book.Patch) bson.M {
	set := bson.M{}
	if patch.ISBN != nil {
		set[fieldISBN] = *patch.ISBN
	}
	if patch.Title != nil {
		set[fieldTitle] = *patch.Title
	}
	if patch.Author != nil {
		set[fieldAuthor] = *patch.Author
	}
	if patch.PublishedDate != nil {
		set[fieldPublishedDate] = *patch.PublishedDate
	}
	if patch.Summary != nil {
		set[fieldSummary] = *patch.Summary
	}
	return bson.M{"$set": set}
}

func byISBN(isbn string) bson.M {
	return bson.M{fieldISBN: isbn}
}
