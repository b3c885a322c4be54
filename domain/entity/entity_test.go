package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering/eventing"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity()

	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.False(t, e.IsDeleted())
	assert.Nil(t, e.GetDeletedAt())
	assert.Equal(t, e.GetCreatedAt(), e.GetUpdatedAt())
	assert.WithinDuration(t, time.Now(), e.GetCreatedAt(), time.Second)
}

func TestRestoreEntity_Defaults(t *testing.T) {
	e := RestoreEntity(uuid.Nil, time.Time{}, time.Time{}, nil)
	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.False(t, e.GetCreatedAt().IsZero())
	assert.False(t, e.GetUpdatedAt().IsZero())

	id := uuid.New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	deleted := created.Add(time.Hour)
	restored := RestoreEntity(id, created, created, &deleted)
	assert.Equal(t, id, restored.GetID())
	assert.True(t, restored.IsDeleted())
	assert.Equal(t, deleted, *restored.GetDeletedAt())
}

func TestEntity_EqualityByID(t *testing.T) {
	id := uuid.New()
	a := RestoreEntity(id, time.Now(), time.Now(), nil)
	b := RestoreEntity(id, time.Now().Add(-time.Hour), time.Now(), nil)
	c := NewEntity()

	assert.True(t, a.Equal(&b))
	assert.False(t, a.Equal(&c))
	assert.False(t, a.Equal(nil))

	set := map[uuid.UUID]bool{a.Key(): true}
	assert.True(t, set[b.Key()])
}

func TestEntity_Touch(t *testing.T) {
	e := NewEntity()
	before := e.GetUpdatedAt()

	e.Touch()
	assert.True(t, e.GetUpdatedAt().After(before))
	assert.Equal(t, before, e.GetCreatedAt())
}

func TestEntity_DeleteIsIdempotent(t *testing.T) {
	e := NewEntity()
	e.Delete()
	require.True(t, e.IsDeleted())
	first := *e.GetDeletedAt()

	e.Delete()
	assert.True(t, e.IsDeleted())
	assert.Equal(t, first, *e.GetDeletedAt())
}

func TestEntity_GetDeletedAtIsCopy(t *testing.T) {
	e := NewEntity()
	e.Delete()
	got := e.GetDeletedAt()
	*got = time.Time{}
	assert.False(t, e.GetDeletedAt().IsZero())
}

func TestEntity_MapRoundTrip(t *testing.T) {
	e := NewEntity()
	e.Delete()

	data := e.EntityMap()
	assert.Equal(t, e.GetID().String(), data[FieldID])
	assert.IsType(t, "", data[FieldCreatedAt])
	assert.NotNil(t, data[FieldDeletedAt])

	parsed, err := ParseEntity(data)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(&e))
	assert.Equal(t, data, parsed.EntityMap())
}

func TestEntity_MapNotDeleted(t *testing.T) {
	e := NewEntity()
	data := e.ToMap()
	v, ok := data[FieldDeletedAt]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseEntity_Errors(t *testing.T) {
	_, err := ParseEntity(map[string]any{FieldID: "not-a-uuid"})
	var entityErr *EntityError
	require.ErrorAs(t, err, &entityErr)
	assert.Equal(t, ErrCodeInvalidID, entityErr.Code)
	assert.Equal(t, FieldID, entityErr.Field)

	_, err = ParseEntity(map[string]any{FieldID: uuid.NewString(), FieldCreatedAt: "yesterday"})
	require.ErrorAs(t, err, &entityErr)
	assert.Equal(t, ErrCodeInvalidTimestamp, entityErr.Code)

	_, err = ParseEntity(map[string]any{FieldID: 42})
	assert.Error(t, err)

	_, err = ParseEntity(map[string]any{FieldDeletedAt: 1.5})
	assert.Error(t, err)
}

func TestParseTimeAndUUID(t *testing.T) {
	now := time.Now()
	got, err := ParseTime(now, "t")
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	id := uuid.New()
	parsed, err := ParseUUID(id, "id")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

type testSnapshot struct{ id uuid.UUID }

func (s testSnapshot) GetID() uuid.UUID      { return s.id }
func (s testSnapshot) ToMap() map[string]any { return map[string]any{"id": s.id.String()} }

func TestAggregate_Events(t *testing.T) {
	agg := NewAggregate()
	assert.False(t, agg.HasEvents())

	first := eventing.NewDomainEvent("First", testSnapshot{id: agg.GetID()})
	second := eventing.NewDomainEvent("Second", testSnapshot{id: agg.GetID()})
	agg.AddDomainEvent(first)
	agg.AddDomainEvent(nil)
	agg.AddDomainEvent(second)

	events := agg.GetEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].EventType())
	assert.Equal(t, "Second", events[1].EventType())

	agg.ClearEvents()
	assert.Empty(t, agg.GetEvents())

	// 无事件时清空是空操作
	agg.ClearEvents()
	assert.Empty(t, agg.GetEvents())
}

func TestRestoreAggregate(t *testing.T) {
	e := NewEntity()
	agg := RestoreAggregate(e)
	assert.Equal(t, e.GetID(), agg.GetID())
	assert.Empty(t, agg.GetEvents())
}

var _ IAggregate = (*Aggregate)(nil)
