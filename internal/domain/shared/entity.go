package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds the identity and audit timestamps every contract,
// installment, payment and company row carries.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a new ID; a zero at means now.
func NewBaseEntity(at time.Time) BaseEntity {
	if at.IsZero() {
		at = time.Now()
	}
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Touch records a modification time.
func (e *BaseEntity) Touch(at time.Time) {
	e.UpdatedAt = at
}
