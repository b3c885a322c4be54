package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"ordering/domain/entity"
	"ordering/eventing"
	"ordering/validation"
)

func validationErrors(t *testing.T, errs []error) []validation.ValidationError {
	t.Helper()
	out := validation.AsValidationErrors(errs)
	require.Len(t, out, len(errs))
	return out
}

func TestCreate_Success(t *testing.T) {
	customerID := uuid.New()

	r := Create(customerID.String(), 99.99)

	require.True(t, r.IsSuccess())
	o := r.Value()
	assert.NotEqual(t, uuid.Nil, o.GetID())
	assert.Equal(t, customerID, o.CustomerID())
	assert.Equal(t, 99.99, o.Total())
	assert.False(t, o.IsDeleted())

	events := o.GetEvents()
	require.Len(t, events, 1)
	assert.Equal(t, OrderCreatedEventType, events[0].EventType())
	assert.Equal(t, o.GetID(), events[0].GetAggregateID())
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Same(t, o, created.Order())
}

func TestCreate_AcceptsTypedValues(t *testing.T) {
	customerID := uuid.New()
	r := Create(customerID, 10)
	require.True(t, r.IsSuccess())
	assert.Equal(t, 10.0, r.Value().Total())
	assert.Equal(t, customerID, r.Value().CustomerID())
}

func TestCreate_InvalidCurrency(t *testing.T) {
	customerID := uuid.NewString()
	for _, total := range []any{10.999, -5, 0, -100.5, "abc", []int{}, map[string]any{}} {
		r := Create(customerID, total)
		require.True(t, r.IsFailure(), "%v", total)
		errs := validationErrors(t, r.Errors())
		require.Len(t, errs, 1)
		assert.Equal(t, validation.KindCurrency, errs[0].Kind)
		assert.Equal(t, FieldTotal, errs[0].Field)
	}
}

func TestCreate_MissingTotal(t *testing.T) {
	for _, total := range []any{nil, ""} {
		r := Create(uuid.NewString(), total)
		errs := validationErrors(t, r.Errors())
		require.Len(t, errs, 1)
		assert.Equal(t, validation.RequiredError(FieldTotal), errs[0])
	}
}

func TestCreate_InvalidCustomerID(t *testing.T) {
	r := Create("not-a-uuid", 10.00)
	errs := validationErrors(t, r.Errors())
	require.Len(t, errs, 1)
	assert.Equal(t, validation.UUIDFormatError(FieldCustomerID, "not-a-uuid"), errs[0])

	r = Create("", 10.00)
	errs = validationErrors(t, r.Errors())
	require.Len(t, errs, 1)
	assert.Equal(t, validation.RequiredError(FieldCustomerID), errs[0])
}

func TestCreate_CollectsBothFields(t *testing.T) {
	r := Create(nil, nil)
	errs := validationErrors(t, r.Errors())
	require.Len(t, errs, 2)
	assert.Equal(t, FieldTotal, errs[0].Field)
	assert.Equal(t, FieldCustomerID, errs[1].Field)
}

func TestUpdateTotal(t *testing.T) {
	o := Create(uuid.New(), 10.0).Value()
	before := o.GetUpdatedAt()

	r := o.UpdateTotal(25.5)
	require.True(t, r.IsSuccess())
	assert.Equal(t, 25.5, o.Total())
	assert.True(t, o.GetUpdatedAt().After(before))

	r = o.UpdateTotal(-1)
	require.True(t, r.IsFailure())
	assert.Equal(t, 25.5, o.Total())

	r = o.UpdateTotal(nil)
	errs := validationErrors(t, r.Errors())
	assert.Equal(t, validation.RequiredError(FieldTotal), errs[0])
}

func TestDelete(t *testing.T) {
	o := Create(uuid.New(), 10.0).Value()
	o.Delete()
	assert.True(t, o.IsDeleted())
	assert.NotNil(t, o.ToMap()[entity.FieldDeletedAt])
}

func TestLoad_SkipsValidation(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	o := Load(id, uuid.Nil, -3, now, now, nil)

	assert.Equal(t, id, o.GetID())
	assert.Equal(t, -3.0, o.Total())
	assert.Empty(t, o.GetEvents())
}

func TestFromMap_Errors(t *testing.T) {
	assert.True(t, FromMap(map[string]any{"id": "bad"}).IsFailure())
	assert.True(t, FromMap(map[string]any{"id": uuid.NewString(), FieldCustomerID: "bad"}).IsFailure())
	assert.True(t, FromMap(map[string]any{"id": uuid.NewString(), FieldTotal: "ten"}).IsFailure())
}

func TestEventSerialization(t *testing.T) {
	o := Create(uuid.New(), 12.5).Value()
	data := o.GetEvents()[0].ToMap()

	assert.Equal(t, OrderCreatedEventType, data["event_type"])
	assert.Equal(t, o.GetID().String(), data["aggregate_id"])
	assert.Equal(t, o.ToMap(), data["event_data"])
	assert.Equal(t, 1, data["version"])
}

func TestDecodeOrderCreatedEvent(t *testing.T) {
	o := Create(uuid.New(), 12.5).Value()
	generic, err := eventing.EventFromMap(o.GetEvents()[0].ToMap())
	require.NoError(t, err)

	decoded, err := DecodeOrderCreatedEvent(generic)
	require.NoError(t, err)
	created, ok := decoded.(*OrderCreatedEvent)
	require.True(t, ok)
	require.NotNil(t, created.Order())
	assert.True(t, created.Order().Equal(o))
	assert.Equal(t, 12.5, created.Order().Total())
	assert.Equal(t, generic.GetEventID(), created.GetEventID())

	bad := eventing.RestoreDomainEvent(uuid.New(), OrderCreatedEventType, uuid.New(), time.Now(), 1,
		map[string]any{"id": "bad"})
	_, err = DecodeOrderCreatedEvent(bad)
	assert.Error(t, err)
}

// TestOrder_MapRoundTrip FromMap(ToMap(o)) 重建出等价订单
func TestOrder_MapRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(1, 10_000_000).Draw(t, "cents")
		deleted := rapid.Bool().Draw(t, "deleted")

		o := Create(uuid.New(), float64(cents)/100).Value()
		if deleted {
			o.Delete()
		}
		data := o.ToMap()

		r := FromMap(data)
		if r.IsFailure() {
			t.Fatalf("FromMap failed: %v", r.Err())
		}
		restored := r.Value()
		if !restored.Equal(o) {
			t.Fatalf("id mismatch")
		}
		if restored.CustomerID() != o.CustomerID() || restored.Total() != o.Total() {
			t.Fatalf("fields mismatch: %v vs %v", restored.ToMap(), data)
		}
		if entity.FormatTime(restored.GetCreatedAt()) != data[entity.FieldCreatedAt] ||
			entity.FormatTime(restored.GetUpdatedAt()) != data[entity.FieldUpdatedAt] {
			t.Fatalf("timestamps mismatch")
		}
		if restored.IsDeleted() != deleted {
			t.Fatalf("deleted flag mismatch")
		}
	})
}
