// Package validator 请求参数校验
//
// 基于go-playground/validator(gin的binding引擎),额外注册:
//   - isodate: YYYY-MM-DD 或 RFC 3339 日期时间
//
// 并把ValidationErrors翻译成可读的英文消息,字段名使用json tag。
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

var setupOnce sync.Once

// Setup 在gin的默认校验引擎上注册自定义规则(重复调用安全)
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin binding engine is not go-playground/validator")
		}
		Register(v)
	})
}

// Register 注册自定义规则与json字段名
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("isodate", validateISODate); err != nil {
		panic(err)
	}
}

// ParseISODate 解析YYYY-MM-DD或RFC 3339,统一为UTC当天零点
func ParseISODate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO 8601 date %q", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func validateISODate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return false
	}
	_, err := ParseISODate(field.String())
	return err == nil
}

func jsonName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Translate 把校验错误翻译为可读消息(多个错误以"; "连接)
// 非ValidationErrors原样返回err.Error()
func Translate(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, translateField(fe))
	}
	return strings.Join(msgs, "; ")
}

func translateField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "isbn", "isbn10", "isbn13":
		return fmt.Sprintf("%s must be an ISBN", field)
	case "isodate":
		return fmt.Sprintf("%s must be a valid ISO 8601 date string", field)
	case "min":
		if fe.Kind() == reflect.String || isStringPtr(fe) {
			return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

func isStringPtr(fe validator.FieldError) bool {
	t := fe.Type()
	return t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.String
}
