package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/attestation"
	"github.com/zaqqye/lsp_backend_v1/internal/config"
	"github.com/zaqqye/lsp_backend_v1/internal/controllers"
	"github.com/zaqqye/lsp_backend_v1/internal/middleware"
	"github.com/zaqqye/lsp_backend_v1/internal/proctor"
	"github.com/zaqqye/lsp_backend_v1/internal/ws"
)

// refreshTTLFromDays converts the configured day count into a duration,
// falling back to 30 days on bad input.
func refreshTTLFromDays(days string) time.Duration {
	n, err := strconv.Atoi(days)
	if err != nil || n <= 0 {
		n = 30
	}
	return time.Duration(n) * 24 * time.Hour
}

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hubs *ws.Hubs) {
	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTLMinutes + "m")
	if err != nil || accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := refreshTTLFromDays(cfg.RefreshTokenTTLDays)

	issuer := attestation.NewIssuer(
		&attestation.GormStore{DB: db},
		attestation.NewClient(cfg.SigningBaseURL, cfg.SigningToken),
	)
	registry := proctor.NewRegistry()

	authCtrl := &controllers.AuthController{
		DB:            db,
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshJWTSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
	adminCtrl := &controllers.AdminController{DB: db}
	kegiatanCtrl := &controllers.KegiatanController{DB: db}
	asesmenCtrl := &controllers.AsesmenController{DB: db, Issuer: issuer}
	ujianCtrl := &controllers.UjianController{DB: db, Hubs: hubs, Proctor: registry}
	pemantauanCtrl := &controllers.PemantauanController{DB: db}
	soalCtrl := &controllers.SoalController{DB: db}
	cfgCtrl := &controllers.ConfigController{DB: db, Cfg: cfg}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
	}
	r.GET("/api/v1/config/public", cfgCtrl.Get)

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTExpiresIn: accessTTL,
	})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)
		api.GET("/config", cfgCtrl.Get)

		// Admin-only
		admin := api.Group("/admin", middleware.RequireRoles("admin"))
		{
			admin.GET("/users", adminCtrl.ListUsers)
			admin.POST("/users", authCtrl.Register) // admin-only registration
			admin.GET("/users/:user_id", adminCtrl.GetUser)
			admin.PUT("/users/:user_id", adminCtrl.UpdateUser)
			admin.DELETE("/users/:user_id", adminCtrl.DeleteUser)

			admin.GET("/kegiatan", kegiatanCtrl.ListKegiatan)
			admin.POST("/kegiatan", kegiatanCtrl.CreateKegiatan)
			admin.GET("/kegiatan/:id", kegiatanCtrl.GetKegiatan)
			admin.PUT("/kegiatan/:id", kegiatanCtrl.UpdateKegiatan)
			admin.DELETE("/kegiatan/:id", kegiatanCtrl.DeleteKegiatan)

			admin.POST("/kegiatan/:id/asesi", kegiatanCtrl.AssignAsesi)
			admin.DELETE("/kegiatan/:id/asesi/:user_id", kegiatanCtrl.UnassignAsesi)
			admin.GET("/kegiatan/:id/asesi", kegiatanCtrl.ListAsesi)

			admin.GET("/kegiatan/:id/soal", soalCtrl.List)
			admin.POST("/kegiatan/:id/soal", soalCtrl.Create)
			admin.DELETE("/soal/:soal_id", soalCtrl.Delete)
		}

		// Session listings per actor
		api.GET("/kegiatan/asesor", middleware.RequireRoles("asesor"), kegiatanCtrl.ListForAsesor)
		api.GET("/kegiatan/asesi", middleware.RequireRoles("asesi"), kegiatanCtrl.ListForAsesi)
		api.POST("/kegiatan/:id/mulai", middleware.RequireRoles("asesi"), kegiatanCtrl.MulaiAsesmen)

		// Workflow engine surface; per-step authorization happens inside the
		// controllers against the resolved role, not here.
		asesmen := api.Group("/asesmen", middleware.RequireRoles("asesi", "asesor"))
		{
			asesmen.GET("/:id/steps", asesmenCtrl.GetSteps)

			asesmen.POST("/:id/ujian/mulai", ujianCtrl.Mulai)
			asesmen.GET("/:id/ujian", ujianCtrl.Get)
			asesmen.POST("/:id/ujian", ujianCtrl.Submit)
			asesmen.POST("/:id/ujian/pelanggaran", ujianCtrl.Pelanggaran)
			asesmen.POST("/:id/ujian/pelanggaran/ack", ujianCtrl.Ack)
			asesmen.POST("/:id/ujian/keluar", ujianCtrl.Keluar)

			asesmen.GET("/:id/:step", asesmenCtrl.GetStep)
			asesmen.POST("/:id/:step", asesmenCtrl.SaveStep)
		}

		// Pemantauan (asesor dashboards; admin passes any role-gate)
		pemantauan := api.Group("/pemantauan", middleware.RequireRoles("asesor"))
		{
			pemantauan.GET("/kegiatan/:id/peserta", pemantauanCtrl.ListPeserta)
			pemantauan.GET("/izin/:id/pelanggaran", pemantauanCtrl.ListPelanggaran)
		}

		// Realtime
		api.GET("/ws/pemantauan", ws.ProctorHandler(db, hubs.Proctor))
		api.GET("/ws/ujian", ws.AsesiHandler(hubs))
	}
}
