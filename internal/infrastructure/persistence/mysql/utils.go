package mysql

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL错误码 1062: Duplicate entry 'xxx' for key 'yyy'
const mysqlDuplicateEntry = 1062

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// TranslateError开启后GORM会转换为ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
