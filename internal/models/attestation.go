package models

import "time"

// Attestation is the proof-of-signature artifact stamped on a workflow step by
// one actor role. At most one row exists per (izin, step, role); the unique
// index is what makes re-issuance idempotent under concurrent requests.
type Attestation struct {
	ID        uint   `gorm:"primaryKey"`
	IzinIDRef string `gorm:"uniqueIndex:uniq_attestation,priority:1"`
	StepKey   string `gorm:"uniqueIndex:uniq_attestation,priority:2"`
	ActorRole string `gorm:"uniqueIndex:uniq_attestation,priority:3"`
	URLImage  string
	ActorName string
	IssuedAt  time.Time
	CreatedAt time.Time
}
