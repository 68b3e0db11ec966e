package handler

import (
	"net/http"

	"myfinance/internal/models"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the identity resolved by the auth middleware.
func GetProfile(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	util.Success(c, http.StatusOK, id)
}

// UserHandler serves the admin-only user endpoints.
type UserHandler struct {
	Users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

type userResp struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userResp{ID: u.ID, Email: u.Email, Role: u.Role})
	}
	util.Success(c, http.StatusOK, out)
}

// DeleteUser removes a user with all of their categories and transactions.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		util.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
