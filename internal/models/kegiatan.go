package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kegiatan is a scheduled assessment session. The workflow engine treats it as
// read-only input: the asesor fields and their count drive role resolution and
// step-sequence branching.
type Kegiatan struct {
	ID                string `gorm:"type:uuid;primaryKey"`
	JadwalID          string `gorm:"index"`
	Nama              string
	Mode              string  // luring | daring
	AsesorUtamaID     string  `gorm:"index"` // User.UserID of the primary asesor
	AsesorKeduaID     *string `gorm:"index"` // optional secondary asesor
	PraAsesmenDimulai bool
	AsesmenDimulai    bool
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (k *Kegiatan) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// JumlahAsesor returns 1 or 2 depending on whether a secondary asesor is assigned.
func (k *Kegiatan) JumlahAsesor() int {
	if k.AsesorKeduaID != nil && *k.AsesorKeduaID != "" {
		return 2
	}
	return 1
}

// KegiatanAsesi maps an asesi user to the kegiatan they are registered for.
type KegiatanAsesi struct {
	ID            uint   `gorm:"primaryKey"`
	KegiatanIDRef string `gorm:"uniqueIndex:uniq_kegiatan_asesi"`
	AsesiIDRef    string `gorm:"uniqueIndex:uniq_kegiatan_asesi"` // User.UserID
	CreatedAt     time.Time
}
