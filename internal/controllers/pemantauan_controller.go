package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

type PemantauanController struct {
	DB *gorm.DB
}

// allowedKegiatan reports whether the actor may watch the kegiatan; admin
// watch everything, asesor only kegiatan where they hold a seat.
func (pc *PemantauanController) allowedKegiatan(user models.User, kegiatanID string) (bool, error) {
	if user.Role == "admin" {
		return true, nil
	}
	if user.Role == "asesor" {
		var count int64
		err := pc.DB.Model(&models.Kegiatan{}).
			Where("id = ? AND (asesor_utama_id = ? OR asesor_kedua_id = ?)", kegiatanID, user.UserID, user.UserID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		return count > 0, nil
	}
	return false, nil
}

// ListPeserta returns the asesi of a kegiatan with their workflow position
// and exam integrity status, for the asesor dashboard.
func (pc *PemantauanController) ListPeserta(c *gin.Context) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)
	kegiatanID := strings.TrimSpace(c.Param("id"))

	allowed, err := pc.allowedKegiatan(user, kegiatanID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	all := strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
	limit := 20
	page := 1
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	qText := strings.TrimSpace(c.Query("q"))

	type row struct {
		AsesiID        string     `json:"asesi_id"`
		FullName       string     `json:"full_name"`
		Email          string     `json:"email"`
		IzinID         *string    `json:"id_izin"`
		CurrentStep    *string    `json:"current_step"`
		Status         *string    `json:"status"`
		ViolationCount int        `json:"violation_count"`
		Terminated     bool       `json:"terminated"`
		SubmittedAt    *time.Time `json:"submitted_at"`
	}

	base := pc.DB.Table("users AS u").
		Select("u.user_id AS asesi_id, u.full_name, u.email, i.id AS izin_id, i.current_step, i.status, COALESCE(ua.violation_count, 0) AS violation_count, COALESCE(ua.terminated, FALSE) AS terminated, ua.submitted_at").
		Joins("JOIN kegiatan_asesis ka ON ka.asesi_id_ref = u.user_id").
		Joins("LEFT JOIN izins i ON i.kegiatan_id = ka.kegiatan_id_ref AND i.asesi_id = u.user_id").
		Joins("LEFT JOIN ujian_attempts ua ON ua.izin_id_ref = i.id").
		Where("ka.kegiatan_id_ref = ? AND u.role = ?", kegiatanID, "asesi")

	if qText != "" {
		like := "%" + qText + "%"
		base = base.Where("u.full_name ILIKE ? OR u.email ILIKE ?", like, like)
	}

	var total int64
	if err := base.Distinct("u.user_id").Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	listQ := base.Order("u.full_name ASC")
	if !all {
		listQ = listQ.Offset((page - 1) * limit).Limit(limit)
	}
	var rows []row
	if err := listQ.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	meta := gin.H{"total": total, "all": all}
	if !all {
		meta["limit"] = limit
		meta["page"] = page
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": meta})
}

// ListPelanggaran returns the violation audit trail of one izin.
func (pc *PemantauanController) ListPelanggaran(c *gin.Context) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)
	izinID := strings.TrimSpace(c.Param("id"))

	var izin models.Izin
	if err := pc.DB.Where("id = ?", izinID).First(&izin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "izin not found"})
		return
	}
	allowed, err := pc.allowedKegiatan(user, izin.KegiatanID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var logs []models.ViolationLog
	if err := pc.DB.Where("izin_id_ref = ?", izinID).Order("created_at ASC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		out = append(out, gin.H{"jenis": l.Jenis, "count": l.Count, "at": l.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
