package models

import (
	"time"

	"gorm.io/datatypes"
)

// UjianAttempt is the single timed-exam attempt of an izin. Terminated marks a
// forced submission by the proctor; it is never cleared.
type UjianAttempt struct {
	ID             uint   `gorm:"primaryKey"`
	IzinIDRef      string `gorm:"uniqueIndex"`
	StartedAt      time.Time
	SubmittedAt    *time.Time
	Terminated     bool
	ViolationCount int
	Answers        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Soal is one exam question attached to a kegiatan. Kunci is stripped from
// responses sent to asesi.
type Soal struct {
	ID         uint           `gorm:"primaryKey"`
	KegiatanID string         `gorm:"index:uniq_soal_nomor,unique,priority:1"`
	Nomor      int            `gorm:"index:uniq_soal_nomor,unique,priority:2"`
	Pertanyaan string         `gorm:"type:text"`
	Pilihan    datatypes.JSON `gorm:"type:jsonb"`
	Kunci      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ViolationLog is the persisted audit trail of proctoring violations.
type ViolationLog struct {
	ID        uint   `gorm:"primaryKey"`
	IzinIDRef string `gorm:"index"`
	Jenis     string
	Count     int // counter value after this violation
	CreatedAt time.Time
}
