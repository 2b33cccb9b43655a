package model

import (
	"time"

	"github.com/google/uuid"
)

// Vote is an append-only ledger row, one per cast vote. Rows are never
// updated or deleted; the per-player counter is aggregated separately.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlayerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"player_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string { return "votes" }
