package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; rely on JWT auth.
		return true
	},
}

// ProctorHandler subscribes an asesor or admin to violation events. Asesor
// are scoped to kegiatan where they hold either seat.
func ProctorHandler(db *gorm.DB, hub *ProctorHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		uVal, ok := c.Get("user")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user := uVal.(models.User)
		role := strings.ToLower(user.Role)
		if role != "admin" && role != "asesor" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		allowAll := role == "admin"
		allowedKegiatan := map[string]struct{}{}
		if !allowAll {
			var assigned []models.Kegiatan
			if err := db.Where("asesor_utama_id = ? OR asesor_kedua_id = ?", user.UserID, user.UserID).Find(&assigned).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if len(assigned) == 0 {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no kegiatan assigned"})
				return
			}
			for _, keg := range assigned {
				allowedKegiatan[keg.ID] = struct{}{}
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newProctorClient(hub, conn, allowedKegiatan, allowAll)
		hub.register <- client

		go client.writePump()
		client.readPump()
	}
}

// AsesiHandler connects a candidate's exam screen for warning and
// force-submit pushes.
func AsesiHandler(hubs *Hubs) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hubs == nil || hubs.Asesi == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "realtime not available"})
			return
		}
		uVal, ok := c.Get("user")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user := uVal.(models.User)
		if strings.ToLower(user.Role) != "asesi" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newAsesiClient(hubs.Asesi, conn, user.UserID)
		hubs.Asesi.register <- client

		go client.writePump()
		client.readPump()
	}
}
