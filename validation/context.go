package validation

// Context 一次校验过程中累积的错误
type Context struct {
	errors []ValidationError
}

// NewContext 创建空上下文
func NewContext() *Context {
	return &Context{}
}

func (c *Context) Add(err ValidationError) {
	c.errors = append(c.errors, err)
}

func (c *Context) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors 返回错误副本
func (c *Context) Errors() []ValidationError {
	out := make([]ValidationError, len(c.errors))
	copy(out, c.errors)
	return out
}

func (c *Context) Len() int {
	return len(c.errors)
}

func (c *Context) Clear() {
	c.errors = nil
}
