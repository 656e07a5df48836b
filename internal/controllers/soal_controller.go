package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

type SoalController struct {
	DB *gorm.DB
}

type createSoalRequest struct {
	Nomor      int             `json:"nomor" binding:"required"`
	Pertanyaan string          `json:"pertanyaan" binding:"required"`
	Pilihan    json.RawMessage `json:"pilihan"`
	Kunci      string          `json:"kunci"`
}

func (sc *SoalController) List(c *gin.Context) {
	kegiatanID := strings.TrimSpace(c.Param("id"))
	var soal []models.Soal
	if err := sc.DB.Where("kegiatan_id = ?", kegiatanID).Order("nomor ASC").Find(&soal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": soal})
}

func (sc *SoalController) Create(c *gin.Context) {
	kegiatanID := strings.TrimSpace(c.Param("id"))
	var keg models.Kegiatan
	if err := sc.DB.Where("id = ?", kegiatanID).First(&keg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	var req createSoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	soal := models.Soal{
		KegiatanID: keg.ID,
		Nomor:      req.Nomor,
		Pertanyaan: req.Pertanyaan,
		Pilihan:    datatypes.JSON(req.Pilihan),
		Kunci:      req.Kunci,
	}
	if err := sc.DB.Create(&soal).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "nomor already used"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "created", "id": soal.ID})
}

func (sc *SoalController) Delete(c *gin.Context) {
	idStr := strings.TrimSpace(c.Param("soal_id"))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	res := sc.DB.Delete(&models.Soal{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "soal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
