// Package validation 提供可组合的字段校验：规则逐条执行、不短路，错误累积为 ValidationError 列表。
package validation

import (
	"errors"
	"fmt"
)

// Kind 校验错误种类
type Kind int

const (
	KindGeneric Kind = iota
	KindRequired
	KindMinLength
	KindEmail
	KindUUIDFormat
	KindCurrency
)

// 错误码
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeRequired   = "REQUIRED_ERROR"
	CodeMinLength  = "MIN_LENGTH_ERROR"
	CodeEmail      = "EMAIL_FORMAT_ERROR"
	CodeUUIDFormat = "UUID_FORMAT_ERROR"
	CodeCurrency   = "CURRENCY_ERROR"
)

var kindNames = map[Kind]string{
	KindGeneric:    "Generic",
	KindRequired:   "Required",
	KindMinLength:  "MinLength",
	KindEmail:      "Email",
	KindUUIDFormat: "UUIDFormat",
	KindCurrency:   "Currency",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ValidationError 不可变的校验错误值。
//
// 所有字段均为可比较类型，两个错误可直接用 == 比较；
// Equal 只比较 Message、Field、Code 三项。
type ValidationError struct {
	Kind    Kind
	Message string
	Field   string
	Code    string

	// MinLength 仅 KindMinLength 使用
	MinLength int
	// Value 触发错误时的当前值（已渲染为字符串）
	Value string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s - %s", e.Code, e.Field, e.Message)
}

// Equal 结构相等
func (e ValidationError) Equal(other ValidationError) bool {
	return e.Message == other.Message && e.Field == other.Field && e.Code == other.Code
}

// IsKind 判断错误种类
func (e ValidationError) IsKind(kind Kind) bool {
	return e.Kind == kind
}

// NewValidationError 创建通用校验错误，code 为空时使用 VALIDATION_ERROR
func NewValidationError(message, field, code string) ValidationError {
	if code == "" {
		code = CodeValidation
	}
	return ValidationError{Kind: KindGeneric, Message: message, Field: field, Code: code}
}

// RequiredError 必填错误
func RequiredError(field string) ValidationError {
	return ValidationError{
		Kind:    KindRequired,
		Message: fmt.Sprintf("The field %s is required", field),
		Field:   field,
		Code:    CodeRequired,
	}
}

// MinLengthError 最小长度错误
func MinLengthError(field string, minLength int, value any) ValidationError {
	current := render(value)
	return ValidationError{
		Kind:      KindMinLength,
		Message:   fmt.Sprintf("The field %s must have at least %d characters. Current value: %s", field, minLength, current),
		Field:     field,
		Code:      CodeMinLength,
		MinLength: minLength,
		Value:     current,
	}
}

// EmailError 邮箱格式错误
func EmailError(field string, value any) ValidationError {
	current := render(value)
	return ValidationError{
		Kind:    KindEmail,
		Message: fmt.Sprintf("The field %s must be a valid email. Current value: %s", field, current),
		Field:   field,
		Code:    CodeEmail,
		Value:   current,
	}
}

// UUIDFormatError UUID 格式错误
func UUIDFormatError(field string, value any) ValidationError {
	current := render(value)
	return ValidationError{
		Kind:    KindUUIDFormat,
		Message: fmt.Sprintf("The field %s must be a valid UUID. Current value: %s", field, current),
		Field:   field,
		Code:    CodeUUIDFormat,
		Value:   current,
	}
}

// CurrencyError 金额错误
func CurrencyError(field string, value any) ValidationError {
	current := render(value)
	return ValidationError{
		Kind:    KindCurrency,
		Message: fmt.Sprintf("The field %s must be a valid currency. Current value: %s", field, current),
		Field:   field,
		Code:    CodeCurrency,
		Value:   current,
	}
}

// AsValidationErrors 从错误列表中提取 ValidationError，其余错误忽略
func AsValidationErrors(errs []error) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		var ve ValidationError
		if errors.As(err, &ve) {
			out = append(out, ve)
		}
	}
	return out
}

func render(value any) string {
	value = deref(value)
	if value == nil {
		return "<nil>"
	}
	return fmt.Sprint(value)
}
