package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-service/internal/notify"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *notify.Emitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/notify-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification emitter not configured"})
			return
		}

		recipient := c.Query("email")
		if recipient == "" {
			recipient = "debug@localhost"
		}
		emitter.Emit(c.Request.Context(), notify.RouteAccount, "debug.test",
			[]string{recipient}, "Notification Test", "request_id="+requestIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
