package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"uniqueIndex"`
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	Password     string
	Role         string
	NoRegistrasi string // asesor MET registration number; empty for asesi
	Instansi     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
