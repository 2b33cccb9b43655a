package model

import (
	"time"

	"github.com/google/uuid"
)

// Player is a votable candidate. Votes is a running counter maintained
// exclusively through the registry's atomic increment; it mirrors the number
// of ledger rows referencing the player.
type Player struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	PlayerNumber int       `gorm:"uniqueIndex;not null" json:"player_number"`
	ImageURL     *string   `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	Votes        int       `gorm:"not null;default:0" json:"votes"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Player) TableName() string { return "players" }
