package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homematch/pkg/utils"
)

const UserIDHeader = "X-User-ID"

// UserIDMiddleware takes the caller identity from the X-User-ID header set
// by the upstream gateway.
func UserIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Missing user id")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
