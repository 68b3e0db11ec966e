package middleware

import (
	"context"
	"errors"
	"strings"

	"myfinance/internal/models"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
)

const identityKey = "currentUser"

// UserFinder resolves the token subject to a stored user.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware validates the bearer token, resolves its subject against
// the user store and puts the identity into the context. Missing or
// malformed headers, bad or expired tokens and deleted users all get 401.
func AuthMiddleware(tokens *util.TokenService, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			util.Abort(c, util.Unauthorized("missing bearer token"))
			return
		}

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, util.ErrExpiredToken) {
				msg = "token expired"
			}
			util.Abort(c, util.Unauthorized(msg))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			util.Abort(c, util.Unauthorized("invalid token"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				util.Abort(c, util.Unauthorized("user no longer exists"))
			} else {
				util.Abort(c, err)
			}
			return
		}

		c.Set(identityKey, user.Identity())
		c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok && id.ID != 0
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
