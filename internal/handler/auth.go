package handler

import (
	"errors"
	"net/http"
	"strings"

	"myfinance/internal/models"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup and signin.
type AuthHandler struct {
	Users  *store.UserStore
	Hasher *util.PasswordHasher
	Tokens *util.TokenService
}

func NewAuthHandler(users *store.UserStore, hasher *util.PasswordHasher, tokens *util.TokenService) *AuthHandler {
	return &AuthHandler{Users: users, Hasher: hasher, Tokens: tokens}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a regular user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsReq
	if !bindJSON(c, &req) {
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		util.Fail(c, util.Internal("failed to register user", err))
		return
	}

	user := models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Signin exchanges credentials for an access token. Unknown email and wrong
// password get the same answer.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req credentialsReq
	if !bindJSON(c, &req) {
		return
	}

	badCredentials := util.Unauthorized("invalid email or password")

	user, err := h.Users.FindByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.Fail(c, badCredentials)
		} else {
			util.Fail(c, err)
		}
		return
	}

	ok, err := h.Hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		util.Fail(c, util.Internal("failed to verify password", err))
		return
	}
	if !ok {
		util.Fail(c, badCredentials)
		return
	}

	token, err := h.Tokens.Issue(user.Identity())
	if err != nil {
		util.Fail(c, util.Internal("failed to issue token", err))
		return
	}

	util.Success(c, http.StatusOK, gin.H{"accessToken": token})
}
