package middleware

import (
	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects members below the back-office level. Must run after
// JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetMemberLevel(c) < domain.AdminLevel {
			common.ErrorResponse(c, 403, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
