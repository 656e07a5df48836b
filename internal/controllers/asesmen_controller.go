package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/attestation"
	"github.com/zaqqye/lsp_backend_v1/internal/models"
	"github.com/zaqqye/lsp_backend_v1/internal/workflow"
)

type AsesmenController struct {
	DB     *gorm.DB
	Issuer *attestation.Issuer
}

// workflowCtx is everything resolved once per request on /asesmen routes.
type workflowCtx struct {
	user models.User
	izin models.Izin
	keg  models.Kegiatan
	role workflow.Role
}

func (w *workflowCtx) jumlahAsesor() int {
	return w.keg.JumlahAsesor()
}

// resolveWorkflow loads the izin and its kegiatan and resolves the actor's
// role. An unresolvable role (missing session data included) blocks the
// request with 403; it never falls back to asesi.
func resolveWorkflow(c *gin.Context, db *gorm.DB) (*workflowCtx, bool) {
	uVal, _ := c.Get("user")
	user := uVal.(models.User)

	id := strings.TrimSpace(c.Param("id"))
	var izin models.Izin
	if err := db.Where("id = ?", id).First(&izin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "izin not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	var keg models.Kegiatan
	if err := db.Where("id = ?", izin.KegiatanID).First(&keg).Error; err != nil {
		// Session record unavailable: role stays unresolved.
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}

	role := workflow.ResolveRole(user, keg)
	if role == workflow.RoleAsesi && izin.AsesiID != user.UserID {
		role = workflow.RoleUnauthorized
	}
	if role == workflow.RoleUnauthorized {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &workflowCtx{user: user, izin: izin, keg: keg, role: role}, true
}

// GetSteps returns the sequencer output for the acting role, recomputed per
// request.
func (ac *AsesmenController) GetSteps(c *gin.Context) {
	wc, ok := resolveWorkflow(c, ac.DB)
	if !ok {
		return
	}
	steps := workflow.Steps(wc.role, wc.jumlahAsesor())
	c.JSON(http.StatusOK, gin.H{
		"id_izin":       wc.izin.ID,
		"role":          wc.role.String(),
		"jumlah_asesor": wc.jumlahAsesor(),
		"current_step":  wc.izin.CurrentStep,
		"status":        wc.izin.Status,
		"steps":         steps,
	})
}

// GetStep returns one step's business data plus the attestations stamped on
// it. A step key outside the role's sequence is treated as an authorization
// failure so crafted deep links cannot leak step data.
func (ac *AsesmenController) GetStep(c *gin.Context) {
	wc, ok := resolveWorkflow(c, ac.DB)
	if !ok {
		return
	}
	stepKey := strings.TrimSpace(c.Param("step"))
	step, found := workflow.StepFor(stepKey, wc.role, wc.jumlahAsesor())
	if !found {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	cap := workflow.Capabilities(step.Key, wc.role, wc.jumlahAsesor() == 2)
	if !cap.CanView {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var rec models.StepRecord
	var payload datatypes.JSON
	if err := ac.DB.Where("izin_id_ref = ? AND step_key = ?", wc.izin.ID, step.Key).First(&rec).Error; err == nil {
		payload = rec.Payload
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var atts []models.Attestation
	if err := ac.DB.Where("izin_id_ref = ? AND step_key = ?", wc.izin.ID, step.Key).Find(&atts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	attOut := make([]gin.H, 0, len(atts))
	for _, at := range atts {
		attOut = append(attOut, gin.H{
			"actor_role": at.ActorRole,
			"actor_name": at.ActorName,
			"url_image":  at.URLImage,
			"issued_at":  at.IssuedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"step":         step,
		"role":         wc.role.String(),
		"capability":   cap,
		"payload":      payload,
		"attestations": attOut,
	})
}

type saveStepRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// SaveStep persists the step's business data, then attempts attestation
// issuance, then reports the next step — strictly in that order. Attestation
// failure is tolerated: the saved data stands and navigation proceeds with a
// recoverable warning.
func (ac *AsesmenController) SaveStep(c *gin.Context) {
	wc, ok := resolveWorkflow(c, ac.DB)
	if !ok {
		return
	}
	stepKey := strings.TrimSpace(c.Param("step"))
	if stepKey == workflow.StepUjian || stepKey == workflow.StepSelesai {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step is not writable here"})
		return
	}
	step, found := workflow.StepFor(stepKey, wc.role, wc.jumlahAsesor())
	if !found {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	cap := workflow.Capabilities(step.Key, wc.role, wc.jumlahAsesor() == 2)
	if !cap.CanEdit && !cap.CanCountersign {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req saveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Payload) > 0 && !cap.CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": "step is read-only for this role"})
		return
	}

	resp := gin.H{"message": "saved", "step": step.Key}

	var countersign func() error
	if cap.CanCountersign {
		countersign = func() error {
			att, reused, err := ac.Issuer.Issue(c.Request.Context(), wc.izin.ID, step.Key, wc.role, wc.keg.JadwalID, wc.user.FullName)
			if err != nil {
				log.Printf("attestation issuance failed for izin %s step %s: %v", wc.izin.ID, step.Key, err)
				return err
			}
			resp["attestation"] = gin.H{
				"actor_role": att.ActorRole,
				"actor_name": att.ActorName,
				"url_image":  att.URLImage,
				"issued_at":  att.IssuedAt,
				"reused":     reused,
			}
			return nil
		}
	}
	navigate := func() {
		if next, ok := workflow.NextStep(step.Key, wc.role, wc.jumlahAsesor()); ok {
			resp["next_step"] = next
			ac.advance(&wc.izin, wc.role, step.Key, next)
		}
	}

	warn, err := runSaveOrder(func() error {
		return ac.upsertStepRecord(wc, step.Key, req.Payload)
	}, countersign, navigate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if warn {
		resp["attestation_warning"] = "tanda tangan belum diterbitkan, lanjutkan dan coba lagi nanti"
	}

	c.JSON(http.StatusOK, resp)
}

// upsertStepRecord writes the step's business data, creating the row on the
// first save. An empty payload (countersign-only save) writes nothing.
func (ac *AsesmenController) upsertStepRecord(wc *workflowCtx, stepKey string, payload json.RawMessage) error {
	if len(payload) == 0 {
		return nil
	}
	var rec models.StepRecord
	err := ac.DB.Where("izin_id_ref = ? AND step_key = ?", wc.izin.ID, stepKey).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = models.StepRecord{
			IzinIDRef: wc.izin.ID,
			StepKey:   stepKey,
			Payload:   datatypes.JSON(payload),
			SavedBy:   wc.user.UserID,
		}
		return ac.DB.Create(&rec).Error
	case err != nil:
		return err
	}
	rec.Payload = datatypes.JSON(payload)
	rec.SavedBy = wc.user.UserID
	return ac.DB.Save(&rec).Error
}

// advance moves the izin's step pointer forward, never backward: all actors
// write the same pointer, so countersigning an already-passed step leaves it
// where it is. An asesor reaching selesai closes the instance.
func (ac *AsesmenController) advance(izin *models.Izin, role workflow.Role, fromKey string, next workflow.Step) {
	if izin.Status == "selesai" {
		return
	}
	updates := map[string]interface{}{}
	if workflow.Advances(izin.CurrentStep, next.Key) {
		updates["current_step"] = next.Key
	}
	if next.Key == workflow.StepSelesai && role.IsAsesor() {
		updates["status"] = "selesai"
	}
	if len(updates) == 0 {
		return
	}
	if err := ac.DB.Model(izin).Updates(updates).Error; err != nil {
		log.Printf("failed to advance izin %s past %s: %v", izin.ID, fromKey, err)
	}
}
