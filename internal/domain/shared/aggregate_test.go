package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseAggregateRoot_VersionGuard(t *testing.T) {
	at := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	a := NewBaseAggregateRoot(at)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, at, a.CreatedAt)
	assert.Equal(t, at, a.UpdatedAt)
	assert.Equal(t, 1, a.GetVersion())

	a.IncrementVersion()
	assert.Equal(t, 2, a.GetVersion())
	assert.Equal(t, 1, a.ExpectedVersion())
}

func TestBaseAggregateRoot_TakeDomainEvents(t *testing.T) {
	a := NewBaseAggregateRoot(time.Time{})
	ev := NewBaseDomainEvent("PaymentValidated", "Payment", a.ID, time.Now())
	a.AddDomainEvent(&ev)

	taken := a.TakeDomainEvents()
	assert.Len(t, taken, 1)
	assert.Equal(t, "PaymentValidated", taken[0].EventType())
	assert.Empty(t, a.GetDomainEvents())
	assert.Empty(t, a.TakeDomainEvents())
}

func TestNewBaseEntity_ZeroTimeMeansNow(t *testing.T) {
	before := time.Now()
	e := NewBaseEntity(time.Time{})

	assert.False(t, e.CreatedAt.Before(before))
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	later := e.CreatedAt.Add(time.Hour)
	e.Touch(later)
	assert.Equal(t, later, e.UpdatedAt)
}
