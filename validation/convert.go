package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// 以下转换用于校验通过之后取出字段的具体值

// AsString 取字符串值，非字符串按 fmt.Sprint 渲染，nil 返回空串
func AsString(value any) string {
	value = deref(value)
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// AsFloat64 取数值，bool 与非数值返回 false
func AsFloat64(value any) (float64, bool) {
	rv := reflect.ValueOf(deref(value))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// AsUUID 取 UUID 值，支持 uuid.UUID 与 UUID 字符串
func AsUUID(value any) (uuid.UUID, bool) {
	switch v := deref(value).(type) {
	case uuid.UUID:
		return v, true
	case string:
		id, err := uuid.Parse(strings.TrimSpace(v))
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}
