package config

import (
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config menampung konfigurasi aplikasi dari environment
type Config struct {
	Port               string
	DatabaseDSN        string
	UploadDir          string
	UnlockPollInterval time.Duration
}

// Load membaca konfigurasi dari environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "root:root@tcp(127.0.0.1:3306)/chronocapsule?charset=utf8mb4&parseTime=True&loc=UTC"),
		UploadDir:          getEnv("UPLOAD_DIR", "public/uploads"),
		UnlockPollInterval: time.Duration(getEnvInt("UNLOCK_POLL_INTERVAL", 60)) * time.Second,
	}
}

// InitDB membuka koneksi MySQL via GORM. TranslateError supaya
// pelanggaran index unik muncul sebagai gorm.ErrDuplicatedKey.
func InitDB() (*gorm.DB, error) {
	cfg := Load()
	return gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
