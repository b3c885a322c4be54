package validation

// FieldValidator 单个字段的规则链
type FieldValidator struct {
	value any
	field string
	rules []Rule
}

// NewFieldValidator 创建字段校验器
func NewFieldValidator(value any, field string) *FieldValidator {
	return &FieldValidator{value: value, field: field}
}

// Field 字段名
func (f *FieldValidator) Field() string { return f.field }

// AddRule 追加自定义规则
func (f *FieldValidator) AddRule(rule Rule) *FieldValidator {
	if rule != nil {
		f.rules = append(f.rules, rule)
	}
	return f
}

func (f *FieldValidator) Required() *FieldValidator { return f.AddRule(Required()) }

func (f *FieldValidator) MinLength(n int) *FieldValidator { return f.AddRule(MinLength(n)) }

func (f *FieldValidator) Email() *FieldValidator { return f.AddRule(Email()) }

func (f *FieldValidator) UUID() *FieldValidator { return f.AddRule(UUID()) }

func (f *FieldValidator) Currency() *FieldValidator { return f.AddRule(Currency()) }

// Validate 按注册顺序执行全部规则，错误写入 ctx
func (f *FieldValidator) Validate(ctx *Context) {
	for _, rule := range f.rules {
		if err := rule(f.value, f.field); err != nil {
			ctx.Add(*err)
		}
	}
}
