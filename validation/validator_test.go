package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFieldValidator_NoShortCircuit(t *testing.T) {
	ctx := NewContext()
	NewFieldValidator("ab", "email").Required().MinLength(3).Email().Validate(ctx)

	require.Equal(t, 2, ctx.Len())
	errs := ctx.Errors()
	assert.Equal(t, KindMinLength, errs[0].Kind)
	assert.Equal(t, KindEmail, errs[1].Kind)
}

func TestFieldValidator_AddRule(t *testing.T) {
	notAdmin := func(value any, field string) *ValidationError {
		if value == "admin" {
			err := NewValidationError("reserved name", field, "RESERVED")
			return &err
		}
		return nil
	}

	ctx := NewContext()
	fv := NewFieldValidator("admin", "name").AddRule(notAdmin).AddRule(nil)
	fv.Validate(ctx)

	assert.Equal(t, "name", fv.Field())
	require.True(t, ctx.HasErrors())
	assert.Equal(t, "RESERVED", ctx.Errors()[0].Code)
}

func TestContext(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.HasErrors())

	ctx.Add(RequiredError("a"))
	ctx.Add(RequiredError("b"))
	assert.Equal(t, 2, ctx.Len())

	errs := ctx.Errors()
	errs[0] = RequiredError("mutated")
	assert.Equal(t, "a", ctx.Errors()[0].Field)

	ctx.Clear()
	assert.False(t, ctx.HasErrors())
	assert.Empty(t, ctx.Errors())
}

func TestValidator_Success(t *testing.T) {
	v := New()
	v.Field("John", "name").Required().MinLength(3)
	v.Field("john@example.com", "email").Required().Email()

	r := v.Validate()
	require.True(t, r.IsSuccess())
	assert.True(t, r.Value())
	assert.Empty(t, r.Errors())
}

func TestValidator_CollectsAllFieldsInOrder(t *testing.T) {
	v := New()
	v.Field(nil, "total").Required().Currency()
	v.Field("not-a-uuid", "customer_id").Required().UUID()

	r := v.Validate()
	require.True(t, r.IsFailure())

	errs := AsValidationErrors(r.Errors())
	require.Len(t, errs, 2)
	assert.Equal(t, RequiredError("total"), errs[0])
	assert.Equal(t, UUIDFormatError("customer_id", "not-a-uuid"), errs[1])
}

// TestValidator_FieldsPersistAcrossCalls 字段列表跨调用保留，上下文每次清空
func TestValidator_FieldsPersistAcrossCalls(t *testing.T) {
	v := New()
	v.Field("", "name").Required()

	first := v.Validate()
	require.True(t, first.IsFailure())
	assert.Len(t, first.Errors(), 1)

	second := v.Validate()
	require.True(t, second.IsFailure())
	assert.Len(t, second.Errors(), 1, "context must not carry errors from the previous call")

	v.Field("", "email").Required()
	third := v.Validate()
	assert.Len(t, third.Errors(), 2)
	assert.Equal(t, 2, v.FieldCount())
}

func TestValidator_Reset(t *testing.T) {
	v := New()
	v.Field("", "name").Required()
	require.True(t, v.Validate().IsFailure())

	v.Reset()
	assert.Equal(t, 0, v.FieldCount())
	assert.True(t, v.Validate().IsSuccess())
}

// TestRequired_Property 任何含非空白字符的字符串都满足 Required
func TestRequired_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		err := Required()(s, "field")
		blank := strings.TrimSpace(s) == ""
		if blank != (err != nil) {
			t.Fatalf("Required(%q): blank=%v err=%v", s, blank, err)
		}
	})
}

// TestCurrency_CentsProperty 正的整分金额总是合法
func TestCurrency_CentsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(1, 1_000_000_00).Draw(t, "cents")
		amount := float64(cents) / 100
		if err := Currency()(amount, "total"); err != nil {
			t.Fatalf("Currency(%v) = %v", amount, err)
		}
		if err := Currency()(-amount, "total"); err == nil {
			t.Fatalf("Currency(%v) should fail", -amount)
		}
	})
}

// TestMinLength_Property 去空白后长度不足的非空字符串才报错
func TestMinLength_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "n")
		s := rapid.StringOfN(rapid.RuneFrom([]rune("abcxyz ")), 0, 15, -1).Draw(t, "s")
		err := MinLength(n)(s, "name")

		trimmed := []rune(strings.TrimSpace(s))
		want := len(trimmed) > 0 && len(trimmed) < n
		if want != (err != nil) {
			t.Fatalf("MinLength(%d)(%q): want error=%v, got %v", n, s, want, err)
		}
	})
}
