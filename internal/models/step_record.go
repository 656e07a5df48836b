package models

import (
	"time"

	"gorm.io/datatypes"
)

// StepRecord holds the business data saved for one workflow step of one izin.
// The payload shape is owned by the form, not the engine, so it is stored as jsonb.
type StepRecord struct {
	ID        uint           `gorm:"primaryKey"`
	IzinIDRef string         `gorm:"uniqueIndex:uniq_step_record,priority:1"`
	StepKey   string         `gorm:"uniqueIndex:uniq_step_record,priority:2"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	SavedBy   string         // User.UserID of the last writer
	CreatedAt time.Time
	UpdatedAt time.Time
}
