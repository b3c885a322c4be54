package validation

import (
	"ordering/result"
)

// Validator 汇总多个字段的校验结果。
//
// 字段列表在多次 Validate 之间保留，重复调用会重新执行已注册的全部字段；
// 需要重新开始时调用 Reset，或每次操作新建一个 Validator。
type Validator struct {
	fields  []*FieldValidator
	context *Context
}

// New 创建校验器
func New() *Validator {
	return &Validator{context: NewContext()}
}

// Field 注册字段并返回其规则链
func (v *Validator) Field(value any, name string) *FieldValidator {
	fv := NewFieldValidator(value, name)
	v.fields = append(v.fields, fv)
	return fv
}

// Validate 按字段注册顺序执行校验。
// 有错误时返回包含全部错误的失败结果并清空上下文，字段列表保留。
func (v *Validator) Validate() result.Result[bool] {
	for _, fv := range v.fields {
		fv.Validate(v.context)
	}
	if !v.context.HasErrors() {
		return result.Ok(true)
	}

	found := v.context.Errors()
	v.context.Clear()
	errs := make([]error, len(found))
	for i, err := range found {
		errs[i] = err
	}
	return result.Fail[bool](errs...)
}

// Reset 清空已注册字段
func (v *Validator) Reset() {
	v.fields = nil
	v.context.Clear()
}

func (v *Validator) FieldCount() int {
	return len(v.fields)
}
