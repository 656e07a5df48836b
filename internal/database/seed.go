package database

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/config"
	"github.com/zaqqye/lsp_backend_v1/internal/models"
	"github.com/zaqqye/lsp_backend_v1/internal/utils"
)

func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := cfg.AdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	fullName := cfg.AdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		UserID:   uuid.NewString(),
		FullName: fullName,
		Email:    email,
		Password: hashed,
		Role:     "admin",
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin:", email)
	return nil
}

// SeedAppConfig inserts default portal settings when missing.
func SeedAppConfig(db *gorm.DB, cfg *config.Config) error {
	defaults := []models.AppConfig{
		{Key: "ujian_durasi_menit", Value: cfg.UjianDurasiMenit, Description: "Durasi ujian kompetensi dalam menit"},
		{Key: "max_pelanggaran", Value: cfg.MaxPelanggaran, Description: "Batas pelanggaran sebelum ujian dihentikan paksa"},
	}
	for _, def := range defaults {
		var count int64
		if err := db.Model(&models.AppConfig{}).Where("key = ?", def.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&def).Error; err != nil {
			return err
		}
	}
	return nil
}
