package config

import (
	"os"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret             string
	AccessTokenTTLMinutes string // minutes
	RefreshTokenTTLDays   string // days
	RefreshJWTSecret      string

	AdminEmail    string
	AdminPassword string
	AdminFullName string

	// External QR signing collaborator
	SigningBaseURL string
	SigningToken   string

	// Ujian settings
	UjianDurasiMenit string
	MaxPelanggaran   string
}

func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "lsp_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:             getenv("JWT_SECRET", "supersecret_change_me"),
		AccessTokenTTLMinutes: getenv("ACCESS_TOKEN_TTL_MINUTES", "15"),
		RefreshTokenTTLDays:   getenv("REFRESH_TOKEN_TTL_DAYS", "30"),
		RefreshJWTSecret:      getenv("REFRESH_JWT_SECRET", getenv("JWT_SECRET", "supersecret_change_me")),

		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		AdminFullName: getenv("ADMIN_FULL_NAME", "Administrator"),

		SigningBaseURL: getenv("SIGNING_BASE_URL", "http://localhost:9090"),
		SigningToken:   getenv("SIGNING_TOKEN", ""),

		UjianDurasiMenit: getenv("UJIAN_DURASI_MENIT", "120"),
		MaxPelanggaran:   getenv("MAX_PELANGGARAN", "3"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
