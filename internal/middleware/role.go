package middleware

import (
	"slices"

	"myfinance/internal/models"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through when the authenticated identity has
// one of roles. With no roles any authenticated identity passes. It must run
// after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			util.Abort(c, util.Unauthorized("not authenticated"))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, id.Role) {
			util.Abort(c, util.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}
