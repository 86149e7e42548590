package models

import (
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityColumns are the id and timestamp columns every table carries
type EntityColumns struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Entity returns the columns as a domain entity header
func (m *EntityColumns) Entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// SetEntity copies a domain entity header into the columns
func (m *EntityColumns) SetEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// AggregateColumns add the version column that carts, orders, products,
// brands and discounts use for optimistic locking.
type AggregateColumns struct {
	EntityColumns
	Version int `gorm:"not null;default:1"`
}

// SetAggregate copies identity and version from a domain aggregate
func (m *AggregateColumns) SetAggregate(a shared.BaseAggregateRoot) {
	m.SetEntity(a.BaseEntity)
	m.Version = a.Version
}

// ApplyTo restores identity and version onto a loaded aggregate. Pending
// events are left alone.
func (m *AggregateColumns) ApplyTo(a *shared.BaseAggregateRoot) {
	a.BaseEntity = m.Entity()
	a.Version = m.Version
}
