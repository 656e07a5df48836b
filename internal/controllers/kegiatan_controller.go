package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

type KegiatanController struct {
	DB *gorm.DB
}

type createKegiatanRequest struct {
	Nama          string  `json:"nama" binding:"required"`
	JadwalID      string  `json:"id_jadwal" binding:"required"`
	Mode          string  `json:"mode"`
	AsesorUtamaID string  `json:"asesor_utama_id" binding:"required"`
	AsesorKeduaID *string `json:"asesor_kedua_id"`
	Active        *bool   `json:"active"`
}

type updateKegiatanRequest struct {
	Nama              *string `json:"nama"`
	Mode              *string `json:"mode"`
	AsesorUtamaID     *string `json:"asesor_utama_id"`
	AsesorKeduaID     *string `json:"asesor_kedua_id"`
	PraAsesmenDimulai *bool   `json:"pra_asesmen_dimulai"`
	AsesmenDimulai    *bool   `json:"asesmen_dimulai"`
	Active            *bool   `json:"active"`
}

func validMode(mode string) bool {
	return mode == "luring" || mode == "daring"
}

// asesorExists verifies the referenced user is an active asesor.
func (kc *KegiatanController) asesorExists(userID string) bool {
	var count int64
	kc.DB.Model(&models.User{}).Where("user_id = ? AND role = ? AND active = ?", userID, "asesor", true).Count(&count)
	return count > 0
}

func (kc *KegiatanController) ListKegiatan(c *gin.Context) {
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

	sortBy := strings.ToLower(c.DefaultQuery("sort_by", "created_at"))
	sortDir := strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
	if sortDir != "ASC" && sortDir != "DESC" {
		sortDir = "DESC"
	}
	allowedSorts := map[string]string{
		"created_at": "created_at",
		"nama":       "nama",
		"mode":       "mode",
		"active":     "active",
	}
	sortCol, ok := allowedSorts[sortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := fmt.Sprintf("%s %s", sortCol, sortDir)

	qText := strings.TrimSpace(c.Query("q"))

	base := kc.DB.Model(&models.Kegiatan{})
	if qText != "" {
		like := "%" + qText + "%"
		base = base.Where("nama ILIKE ?", like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	listQ := base.Order(order)
	if !all {
		listQ = listQ.Offset((page - 1) * limit).Limit(limit)
	}
	var list []models.Kegiatan
	if err := listQ.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	meta := gin.H{"total": total, "all": all}
	if !all {
		meta["limit"] = limit
		meta["page"] = page
		meta["sort_by"] = sortBy
		meta["sort_dir"] = sortDir
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "meta": meta})
}

func (kc *KegiatanController) CreateKegiatan(c *gin.Context) {
	var req createKegiatanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = "luring"
	}
	if !validMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
		return
	}
	if !kc.asesorExists(req.AsesorUtamaID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asesor utama not found"})
		return
	}
	if req.AsesorKeduaID != nil && *req.AsesorKeduaID != "" {
		if *req.AsesorKeduaID == req.AsesorUtamaID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asesor kedua must differ from asesor utama"})
			return
		}
		if !kc.asesorExists(*req.AsesorKeduaID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asesor kedua not found"})
			return
		}
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	keg := models.Kegiatan{
		Nama:          req.Nama,
		JadwalID:      req.JadwalID,
		Mode:          mode,
		AsesorUtamaID: req.AsesorUtamaID,
		AsesorKeduaID: req.AsesorKeduaID,
		Active:        active,
	}
	if err := kc.DB.Create(&keg).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "kegiatan already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "created", "id": keg.ID})
}

func (kc *KegiatanController) GetKegiatan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var keg models.Kegiatan
	if err := kc.DB.Where("id = ?", id).First(&keg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	c.JSON(http.StatusOK, keg)
}

func (kc *KegiatanController) UpdateKegiatan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var keg models.Kegiatan
	if err := kc.DB.Where("id = ?", id).First(&keg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	var req updateKegiatanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Nama != nil {
		keg.Nama = *req.Nama
	}
	if req.Mode != nil {
		if !validMode(*req.Mode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
			return
		}
		keg.Mode = *req.Mode
	}
	if req.AsesorUtamaID != nil {
		if !kc.asesorExists(*req.AsesorUtamaID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asesor utama not found"})
			return
		}
		keg.AsesorUtamaID = *req.AsesorUtamaID
	}
	if req.AsesorKeduaID != nil {
		// empty string clears the secondary seat
		if *req.AsesorKeduaID == "" {
			keg.AsesorKeduaID = nil
		} else {
			if *req.AsesorKeduaID == keg.AsesorUtamaID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "asesor kedua must differ from asesor utama"})
				return
			}
			if !kc.asesorExists(*req.AsesorKeduaID) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "asesor kedua not found"})
				return
			}
			keg.AsesorKeduaID = req.AsesorKeduaID
		}
	}
	if req.PraAsesmenDimulai != nil {
		keg.PraAsesmenDimulai = *req.PraAsesmenDimulai
	}
	if req.AsesmenDimulai != nil {
		keg.AsesmenDimulai = *req.AsesmenDimulai
	}
	if req.Active != nil {
		keg.Active = *req.Active
	}
	if err := kc.DB.Save(&keg).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (kc *KegiatanController) DeleteKegiatan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	res := kc.DB.Where("id = ?", id).Delete(&models.Kegiatan{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type assignAsesiRequest struct {
	AsesiID string `json:"asesi_id" binding:"required"`
}

func (kc *KegiatanController) AssignAsesi(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var keg models.Kegiatan
	if err := kc.DB.Where("id = ?", id).First(&keg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	var req assignAsesiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var count int64
	kc.DB.Model(&models.User{}).Where("user_id = ? AND role = ? AND active = ?", req.AsesiID, "asesi", true).Count(&count)
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asesi not found"})
		return
	}
	rec := models.KegiatanAsesi{KegiatanIDRef: keg.ID, AsesiIDRef: req.AsesiID}
	if err := kc.DB.Create(&rec).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "asesi already assigned"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "assigned"})
}

func (kc *KegiatanController) UnassignAsesi(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	asesiID := strings.TrimSpace(c.Param("user_id"))
	res := kc.DB.Where("kegiatan_id_ref = ? AND asesi_id_ref = ?", id, asesiID).Delete(&models.KegiatanAsesi{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unassigned"})
}

func (kc *KegiatanController) ListAsesi(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var rows []struct {
		UserID   string `json:"user_id"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Instansi string `json:"instansi"`
	}
	err := kc.DB.Table("users AS u").
		Select("u.user_id, u.full_name, u.email, u.instansi").
		Joins("JOIN kegiatan_asesis ka ON ka.asesi_id_ref = u.user_id").
		Where("ka.kegiatan_id_ref = ?", id).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ListForAsesor returns kegiatan where the acting asesor holds either seat.
func (kc *KegiatanController) ListForAsesor(c *gin.Context) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)
	var list []models.Kegiatan
	if err := kc.DB.Where("(asesor_utama_id = ? OR asesor_kedua_id = ?) AND active = ?", user.UserID, user.UserID, true).
		Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, keg := range list {
		seat := "asesor_utama"
		if keg.AsesorKeduaID != nil && *keg.AsesorKeduaID == user.UserID {
			seat = "asesor_kedua"
		}
		out = append(out, gin.H{
			"id":                  keg.ID,
			"nama":                keg.Nama,
			"id_jadwal":           keg.JadwalID,
			"mode":                keg.Mode,
			"seat":                seat,
			"jumlah_asesor":       keg.JumlahAsesor(),
			"pra_asesmen_dimulai": keg.PraAsesmenDimulai,
			"asesmen_dimulai":     keg.AsesmenDimulai,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// ListForAsesi returns kegiatan the acting asesi is registered for, with the
// izin id when the workflow has been started.
func (kc *KegiatanController) ListForAsesi(c *gin.Context) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)
	var rows []struct {
		ID                string  `json:"id"`
		Nama              string  `json:"nama"`
		JadwalID          string  `json:"id_jadwal"`
		Mode              string  `json:"mode"`
		PraAsesmenDimulai bool    `json:"pra_asesmen_dimulai"`
		AsesmenDimulai    bool    `json:"asesmen_dimulai"`
		IzinID            *string `json:"id_izin"`
		IzinStatus        *string `json:"izin_status"`
	}
	err := kc.DB.Table("kegiatans AS k").
		Select("k.id, k.nama, k.jadwal_id, k.mode, k.pra_asesmen_dimulai, k.asesmen_dimulai, i.id AS izin_id, i.status AS izin_status").
		Joins("JOIN kegiatan_asesis ka ON ka.kegiatan_id_ref = k.id").
		Joins("LEFT JOIN izins i ON i.kegiatan_id = k.id AND i.asesi_id = ?", user.UserID).
		Where("ka.asesi_id_ref = ? AND k.active = ?", user.UserID, true).
		Order("k.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// MulaiAsesmen confirms pre-assessment for the acting asesi and creates their
// workflow instance (izin) if it does not exist yet.
func (kc *KegiatanController) MulaiAsesmen(c *gin.Context) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)
	if user.Role != "asesi" {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	var keg models.Kegiatan
	if err := kc.DB.Where("id = ? AND active = ?", id, true).First(&keg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kegiatan not found"})
		return
	}
	if !keg.PraAsesmenDimulai {
		c.JSON(http.StatusConflict, gin.H{"error": "pra-asesmen has not started"})
		return
	}
	var count int64
	kc.DB.Model(&models.KegiatanAsesi{}).Where("kegiatan_id_ref = ? AND asesi_id_ref = ?", keg.ID, user.UserID).Count(&count)
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "not registered for this kegiatan"})
		return
	}

	var existing models.Izin
	err := kc.DB.Where("kegiatan_id = ? AND asesi_id = ?", keg.ID, user.UserID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"id_izin": existing.ID, "current_step": existing.CurrentStep, "status": existing.Status})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	izin := models.Izin{
		KegiatanID:  keg.ID,
		AsesiID:     user.UserID,
		CurrentStep: "ia04a",
		Status:      "berjalan",
	}
	if err := kc.DB.Create(&izin).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Raced with another confirmation; return the stored row.
			if kc.DB.Where("kegiatan_id = ? AND asesi_id = ?", keg.ID, user.UserID).First(&existing).Error == nil {
				c.JSON(http.StatusOK, gin.H{"id_izin": existing.ID, "current_step": existing.CurrentStep, "status": existing.Status})
				return
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id_izin": izin.ID, "current_step": izin.CurrentStep, "status": izin.Status})
}
