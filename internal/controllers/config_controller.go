package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/config"
	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

type ConfigController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func (cc *ConfigController) intSetting(key string, fallback int) int {
	var rec models.AppConfig
	if err := cc.DB.Where("key = ?", key).First(&rec).Error; err == nil {
		if n, err := strconv.Atoi(rec.Value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func (cc *ConfigController) Get(c *gin.Context) {
	var role string
	if u, ok := c.Get("user"); ok {
		role = u.(models.User).Role
	}

	flags := gin.H{
		"showViolationCounter": true,
		"enableRemoteMode":     true,
	}
	if role == "admin" {
		flags["showSoalEditor"] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"ujian_durasi_menit": cc.intSetting("ujian_durasi_menit", 120),
		"max_pelanggaran":    cc.intSetting("max_pelanggaran", 3),
		"flags":              flags,
		"schema_version":     1,
	})
}
