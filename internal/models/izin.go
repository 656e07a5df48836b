package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Izin is one asesi's workflow instance within a kegiatan, created when
// pre-assessment is confirmed. CurrentStep advances monotonically through the
// sequencer output until Status becomes "selesai".
type Izin struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	KegiatanID  string `gorm:"uniqueIndex:uniq_izin_kegiatan_asesi"`
	AsesiID     string `gorm:"uniqueIndex:uniq_izin_kegiatan_asesi"` // User.UserID
	CurrentStep string
	Status      string // berjalan | selesai
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *Izin) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
