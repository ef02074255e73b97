package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token bound to a user. A user may hold several
// concurrent sessions; expired rows are ignored by lookups, not swept.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Token     string    `gorm:"column:token;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
}
