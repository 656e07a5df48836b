package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
	"github.com/zaqqye/lsp_backend_v1/internal/proctor"
	"github.com/zaqqye/lsp_backend_v1/internal/workflow"
	"github.com/zaqqye/lsp_backend_v1/internal/ws"
)

type UjianController struct {
	DB      *gorm.DB
	Hubs    *ws.Hubs
	Proctor *proctor.Registry
}

var allowedViolations = map[string]struct{}{
	proctor.ViolationContextMenu: {},
	proctor.ViolationDevtools:    {},
	proctor.ViolationCopyPaste:   {},
	proctor.ViolationScreenshot:  {},
	proctor.ViolationSelection:   {},
}

func (uc *UjianController) durasiMenit() int {
	var cfg models.AppConfig
	if err := uc.DB.Where("key = ?", "ujian_durasi_menit").First(&cfg).Error; err == nil {
		if n, err := strconv.Atoi(cfg.Value); err == nil && n > 0 {
			return n
		}
	}
	return 120
}

// Mulai opens (or resumes) the exam attempt for the acting asesi and engages
// proctoring. Evaluators never get here with edit rights, so their proctor
// sessions stay idle.
func (uc *UjianController) Mulai(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	cap := workflow.Capabilities(workflow.StepUjian, wc.role, wc.jumlahAsesor() == 2)
	if !cap.CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if !wc.keg.AsesmenDimulai {
		c.JSON(http.StatusConflict, gin.H{"error": "asesmen has not started"})
		return
	}

	var attempt models.UjianAttempt
	err := uc.DB.Where("izin_id_ref = ?", wc.izin.ID).First(&attempt).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		attempt = models.UjianAttempt{IzinIDRef: wc.izin.ID, StartedAt: time.Now().UTC()}
		if err := uc.DB.Create(&attempt).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if attempt.Terminated {
		c.JSON(http.StatusForbidden, gin.H{"error": "ujian dihentikan karena pelanggaran"})
		return
	}
	if attempt.SubmittedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian sudah dikumpulkan"})
		return
	}

	sess := uc.Proctor.Session(wc.izin.ID)
	sess.Activate()

	c.JSON(http.StatusOK, gin.H{
		"started_at":      attempt.StartedAt,
		"durasi_menit":    uc.durasiMenit(),
		"violation_count": attempt.ViolationCount,
		"proctor_state":   sess.State().String(),
	})
}

// Get returns the question set for an asesi, or the transcript (answers plus
// answer keys) for an asesor reading the finished attempt.
func (uc *UjianController) Get(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	cap := workflow.Capabilities(workflow.StepUjian, wc.role, wc.jumlahAsesor() == 2)
	if !cap.CanView {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var soal []models.Soal
	if err := uc.DB.Where("kegiatan_id = ?", wc.keg.ID).Order("nomor ASC").Find(&soal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var attempt models.UjianAttempt
	hasAttempt := uc.DB.Where("izin_id_ref = ?", wc.izin.ID).First(&attempt).Error == nil

	if wc.role == workflow.RoleAsesi {
		out := make([]gin.H, 0, len(soal))
		for _, s := range soal {
			// kunci never leaves the server for asesi
			out = append(out, gin.H{"nomor": s.Nomor, "pertanyaan": s.Pertanyaan, "pilihan": s.Pilihan})
		}
		resp := gin.H{"soal": out, "durasi_menit": uc.durasiMenit()}
		if hasAttempt {
			resp["started_at"] = attempt.StartedAt
			resp["violation_count"] = attempt.ViolationCount
			resp["terminated"] = attempt.Terminated
			resp["jawaban"] = attempt.Answers
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	// Asesor transcript view.
	out := make([]gin.H, 0, len(soal))
	for _, s := range soal {
		out = append(out, gin.H{"nomor": s.Nomor, "pertanyaan": s.Pertanyaan, "pilihan": s.Pilihan, "kunci": s.Kunci})
	}
	resp := gin.H{"soal": out}
	if hasAttempt {
		resp["started_at"] = attempt.StartedAt
		resp["submitted_at"] = attempt.SubmittedAt
		resp["terminated"] = attempt.Terminated
		resp["violation_count"] = attempt.ViolationCount
		resp["jawaban"] = attempt.Answers
	}
	c.JSON(http.StatusOK, resp)
}

type submitUjianRequest struct {
	Jawaban json.RawMessage `json:"jawaban" binding:"required"`
}

// Submit persists the answer set through the ordinary path and advances the
// izin past the exam.
func (uc *UjianController) Submit(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	cap := workflow.Capabilities(workflow.StepUjian, wc.role, wc.jumlahAsesor() == 2)
	if !cap.CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var req submitUjianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var attempt models.UjianAttempt
	if err := uc.DB.Where("izin_id_ref = ?", wc.izin.ID).First(&attempt).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian has not started"})
		return
	}
	if attempt.Terminated {
		c.JSON(http.StatusForbidden, gin.H{"error": "ujian dihentikan karena pelanggaran"})
		return
	}
	if attempt.SubmittedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian sudah dikumpulkan"})
		return
	}

	now := time.Now().UTC()
	attempt.Answers = datatypes.JSON(req.Jawaban)
	attempt.SubmittedAt = &now
	if err := uc.DB.Save(&attempt).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uc.Proctor.Drop(wc.izin.ID)

	resp := gin.H{"message": "dikumpulkan", "submitted_at": now}
	if next, ok := workflow.NextStep(workflow.StepUjian, wc.role, wc.jumlahAsesor()); ok {
		resp["next_step"] = next
		if workflow.Advances(wc.izin.CurrentStep, next.Key) {
			uc.DB.Model(&wc.izin).Update("current_step", next.Key)
		}
	}
	c.JSON(http.StatusOK, resp)
}

type pelanggaranRequest struct {
	Jenis   string          `json:"jenis" binding:"required"`
	Jawaban json.RawMessage `json:"jawaban"` // current answer set, saved on forced submission
}

// Pelanggaran records one suppressed action against the proctor state
// machine. The third violation forces submission: the answers are saved
// through the ordinary persistence path before the attempt is closed, and the
// asesi is pushed off the exam screen.
func (uc *UjianController) Pelanggaran(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	if wc.role != workflow.RoleAsesi {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var req pelanggaranRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := allowedViolations[req.Jenis]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid jenis"})
		return
	}

	var attempt models.UjianAttempt
	if err := uc.DB.Where("izin_id_ref = ?", wc.izin.ID).First(&attempt).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian has not started"})
		return
	}
	if attempt.SubmittedAt != nil || attempt.Terminated {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian sudah berakhir"})
		return
	}

	sess := uc.Proctor.Session(wc.izin.ID)
	if sess.State() == proctor.StateIdle {
		c.JSON(http.StatusConflict, gin.H{"error": "ujian is not active"})
		return
	}
	v := sess.RecordViolation(req.Jenis)

	vlog := models.ViolationLog{IzinIDRef: wc.izin.ID, Jenis: v.Jenis, Count: v.Count}
	if err := uc.DB.Create(&vlog).Error; err != nil {
		log.Printf("failed to log violation for izin %s: %v", wc.izin.ID, err)
	}
	uc.DB.Model(&attempt).Update("violation_count", v.Count)

	uc.Hubs.Proctor.Broadcast(ws.ViolationEvent{
		KegiatanID: wc.keg.ID,
		IzinID:     wc.izin.ID,
		AsesiID:    wc.user.UserID,
		AsesiName:  wc.user.FullName,
		Jenis:      v.Jenis,
		Count:      v.Count,
		Remaining:  v.Remaining,
		Terminated: v.Terminate,
		At:         time.Now().UTC(),
	})

	if v.Terminate {
		// Save-then-redirect happens exactly once per attempt: partial work is
		// always persisted before the attempt ends.
		now := time.Now().UTC()
		updates := map[string]interface{}{
			"terminated":      true,
			"submitted_at":    &now,
			"violation_count": v.Count,
		}
		if len(req.Jawaban) > 0 {
			updates["answers"] = datatypes.JSON(req.Jawaban)
		}
		if err := uc.DB.Model(&attempt).Updates(updates).Error; err != nil {
			log.Printf("forced submission save failed for izin %s: %v", wc.izin.ID, err)
		}
		if next, ok := workflow.NextStep(workflow.StepUjian, wc.role, wc.jumlahAsesor()); ok {
			if workflow.Advances(wc.izin.CurrentStep, next.Key) {
				uc.DB.Model(&wc.izin).Update("current_step", next.Key)
			}
		}
		uc.Hubs.Asesi.Notify(wc.user.UserID, ws.AsesiMessage{
			Type:    "paksa_kumpul",
			Jenis:   v.Jenis,
			Count:   v.Count,
			Message: "Ujian dihentikan karena pelanggaran berulang. Jawaban Anda telah disimpan.",
		})
	} else {
		uc.Hubs.Asesi.Notify(wc.user.UserID, ws.AsesiMessage{
			Type:      "peringatan",
			Jenis:     v.Jenis,
			Count:     v.Count,
			Remaining: v.Remaining,
			Message:   "Pelanggaran terdeteksi. Kesempatan tersisa: " + strconv.Itoa(v.Remaining),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"state":      v.State.String(),
		"count":      v.Count,
		"remaining":  v.Remaining,
		"terminated": v.Terminate,
	})
}

// Ack dismisses the current warning early.
func (uc *UjianController) Ack(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	if wc.role != workflow.RoleAsesi {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	sess := uc.Proctor.Session(wc.izin.ID)
	sess.Acknowledge()
	c.JSON(http.StatusOK, gin.H{"state": sess.State().String(), "count": sess.Count()})
}

// Keluar resets local proctoring state when the asesi leaves the exam screen.
// A termination already persisted on the attempt is not undone.
func (uc *UjianController) Keluar(c *gin.Context) {
	wc, ok := resolveWorkflow(c, uc.DB)
	if !ok {
		return
	}
	if wc.role != workflow.RoleAsesi {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	uc.Proctor.Drop(wc.izin.ID)
	c.JSON(http.StatusOK, gin.H{"message": "keluar"})
}
