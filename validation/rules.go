package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9-.]+$`)

// Rule 单条校验规则，通过时返回 nil
type Rule func(value any, field string) *ValidationError

// Required 值为 nil 或仅含空白的字符串时失败；集合类型不检查
func Required() Rule {
	return func(value any, field string) *ValidationError {
		if isBlank(value) {
			err := RequiredError(field)
			return &err
		}
		return nil
	}
}

// MinLength 仅对去除首尾空白后非空、且长度（按字符计）小于 n 的字符串报错
func MinLength(n int) Rule {
	return func(value any, field string) *ValidationError {
		s, ok := deref(value).(string)
		if !ok {
			return nil
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || utf8.RuneCountInString(trimmed) >= n {
			return nil
		}
		err := MinLengthError(field, n, value)
		return &err
	}
}

// Email 非字符串或不匹配邮箱格式时报错；空值通过
func Email() Rule {
	return func(value any, field string) *ValidationError {
		if isBlank(value) {
			return nil
		}
		s, ok := deref(value).(string)
		if !ok || !emailRegex.MatchString(s) {
			err := EmailError(field, value)
			return &err
		}
		return nil
	}
}

// UUID 既不是合法 UUID 字符串也不是 uuid.UUID 时报错；空值通过
func UUID() Rule {
	return func(value any, field string) *ValidationError {
		if isBlank(value) {
			return nil
		}
		switch v := deref(value).(type) {
		case uuid.UUID:
			return nil
		case string:
			if _, err := uuid.Parse(strings.TrimSpace(v)); err == nil {
				return nil
			}
		}
		err := UUIDFormatError(field, value)
		return &err
	}
}

// Currency 非数值、小于等于 0，或浮点数超过两位小数时报错；空值通过
func Currency() Rule {
	return func(value any, field string) *ValidationError {
		if isBlank(value) {
			return nil
		}
		if !IsValidCurrency(deref(value)) {
			err := CurrencyError(field, value)
			return &err
		}
		return nil
	}
}

// IsValidCurrency 判断金额是否合法。bool 不视为数值。
func IsValidCurrency(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() > 0
	case reflect.Float32:
		return validFloat(rv.Float(), 32)
	case reflect.Float64:
		return validFloat(rv.Float(), 64)
	default:
		return false
	}
}

// validFloat 按最短十进制表示截断到分，与原值不等即视为超出精度
func validFloat(f float64, bitSize int) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return false
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	dot := strings.IndexByte(s, '.')
	return dot < 0 || len(s)-dot-1 <= 2
}

func isBlank(value any) bool {
	value = deref(value)
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// deref 解引用指针，nil 指针返回 nil
func deref(value any) any {
	for value != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Pointer {
			return value
		}
		if rv.IsNil() {
			return nil
		}
		value = rv.Elem().Interface()
	}
	return nil
}
