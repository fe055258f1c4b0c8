package handlers

import (
	"net/http"
	"strconv"

	"exoplanet-prediction-api/middleware"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewAuthHandler(users *services.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the OAuth2 password form: username carries the email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

var authMessages = messages{
	notFound: "User not found",
	internal: "Authentication failed due to an internal error",
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err, authMessages)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.log, err, authMessages)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      strconv.FormatUint(uint64(user.ID), 10),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

// DeleteMe removes the caller's account and both prediction histories.
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		writeError(c, h.log, err, authMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
