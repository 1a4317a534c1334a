package api

import (
	"wavefeed-backend/pkg/app"
	"wavefeed-backend/pkg/debug"
	"github.com/gin-gonic/gin"
)

func Version(c *gin.Context) {
	response := app.NewResponse(c)
	response.ToResponse(gin.H{
		"BuildInfo": debug.ReadBuildInfo(),
	})
}

// sessionKeyFrom binds a request to one feed view. Authenticated clients
// carry a session token; anonymous ones fall back to their client address.
func sessionKeyFrom(c *gin.Context) string {
	if token := c.GetHeader("X-Session-Token"); token != "" {
		return token
	}
	return c.ClientIP()
}
