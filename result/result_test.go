package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestOk(t *testing.T) {
	r := Ok(42)
	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsFailure())
	assert.Equal(t, 42, r.Value())
	assert.Empty(t, r.Errors())
	assert.NoError(t, r.Err())
}

func TestOkVoid(t *testing.T) {
	r := OkVoid()
	assert.True(t, r.IsSuccess())
	assert.Equal(t, Void{}, r.Value())
}

func TestFail(t *testing.T) {
	e1, e2 := errors.New("first"), errors.New("second")
	r := Fail[int](e1, nil, e2)

	assert.True(t, r.IsFailure())
	assert.Equal(t, []error{e1, e2}, r.Errors())
	assert.ErrorIs(t, r.Err(), e1)
	assert.ErrorIs(t, r.Err(), e2)
	assert.Equal(t, 7, r.ValueOr(7))
}

// TestValue_OnFailurePanics 失败结果访问值属于调用方违约
func TestValue_OnFailurePanics(t *testing.T) {
	r := Fail[string](errors.New("boom"))
	assert.PanicsWithValue(t, ErrInvalidResultState, func() { _ = r.Value() })
}

// TestErrors_DefensiveCopy 修改返回的错误列表不影响结果本身
func TestErrors_DefensiveCopy(t *testing.T) {
	original := errors.New("original")
	r := Fail[int](original)

	errs := r.Errors()
	errs[0] = errors.New("mutated")

	assert.Equal(t, original, r.Errors()[0])
}

func TestFail_CopiesInput(t *testing.T) {
	errs := []error{errors.New("a")}
	r := Fail[int](errs...)
	errs[0] = errors.New("b")
	assert.Equal(t, "a", r.Errors()[0].Error())
}

func TestFail_WithoutErrors(t *testing.T) {
	r := Fail[int]()
	assert.True(t, r.IsFailure())
	assert.Error(t, r.Err())
}

func TestMapAndFlatMap(t *testing.T) {
	doubled := Map(Ok(2), func(v int) int { return v * 2 })
	require.True(t, doubled.IsSuccess())
	assert.Equal(t, 4, doubled.Value())

	failed := Map(Fail[int](errors.New("x")), func(v int) string { return "never" })
	assert.True(t, failed.IsFailure())
	assert.Len(t, failed.Errors(), 1)

	chained := FlatMap(Ok("a"), func(s string) Result[int] { return Fail[int](errors.New(s)) })
	assert.True(t, chained.IsFailure())
	assert.Equal(t, "a", chained.Errors()[0].Error())
}

func TestPropagate(t *testing.T) {
	err := errors.New("validation")
	r := Propagate[string](Fail[int](err))
	assert.Equal(t, []error{err}, r.Errors())

	assert.Panics(t, func() { _ = Propagate[string](Ok(1)) })
}

func TestString(t *testing.T) {
	assert.Equal(t, "Ok(1)", Ok(1).String())
	assert.Contains(t, Fail[int](errors.New("e")).String(), "Fail(")
}

// TestResult_MapPreservesStructure Map 保持成功/失败状态
func TestResult_MapPreservesStructure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int().Draw(t, "n")
		fail := rapid.Bool().Draw(t, "fail")

		var r Result[int]
		if fail {
			r = Fail[int](errors.New("e"))
		} else {
			r = Ok(n)
		}
		mapped := Map(r, func(v int) int { return v + 1 })

		if mapped.IsSuccess() != r.IsSuccess() {
			t.Fatalf("map changed state")
		}
		if r.IsSuccess() && mapped.Value() != n+1 {
			t.Fatalf("expected %d, got %d", n+1, mapped.Value())
		}
		if r.IsFailure() && len(mapped.Errors()) != 1 {
			t.Fatalf("expected 1 error, got %d", len(mapped.Errors()))
		}
	})
}
