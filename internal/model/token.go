package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is a one-time voting credential handed to an attendee via QR code.
// It is mutated exactly once, when the vote is cast: has_voted flips to true
// and voted_for records the chosen player.
type Token struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	HasVoted  bool       `gorm:"not null;default:false" json:"has_voted"`
	VotedFor  *uuid.UUID `gorm:"type:uuid" json:"voted_for,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Token) TableName() string { return "tokens" }
