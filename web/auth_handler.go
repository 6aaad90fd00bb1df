package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"nestchat/domain"
	"nestchat/errors"
	"nestchat/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	token, err := h.auth.Register(req.Email, req.Password, req.Name, domain.Role(req.Role))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
