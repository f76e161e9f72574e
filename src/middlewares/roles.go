package middlewares

import (
	"net/http"
	"scb/src/authz"
	"scb/src/types"

	"github.com/gin-gonic/gin"
)

// RequireCapability gates a route group on the authz capability table. Runs
// after AuthMiddleware, so a missing role means an unauthenticated request.
func RequireCapability(cap authz.Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := types.Role(ctx.GetString("role"))
		if role == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !authz.Can(role, cap) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
	}
}
