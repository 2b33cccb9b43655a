package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models.
//
// Deliberately no unique index on votes.user_id: one-vote-per-token is
// enforced by the workflow's check-then-act sequence, and the ledger keeps
// whatever that sequence produced so an operator can reconcile.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Token{},
		&Player{},
		&Vote{},
	)
}
