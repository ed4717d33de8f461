package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/response"
)

type AuthHandler struct {
	svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	result, err := h.svc.Register(input)
	if err != nil {
		if errors.Is(err, application.ErrUserExists) {
			c.JSON(http.StatusBadRequest, response.Err("User exists"))
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(result))
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	result, err := h.svc.Login(input)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Err("Invalid credentials"))
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(result))
}

// POST /auth/logout
// Tokens are stateless; logout only exists so clients have a hook for
// clearing local state.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(true))
}

// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input user.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	if _, err := h.svc.ForgotPassword(input); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Msg("If the account exists, a reset link was sent"))
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input user.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	if err := h.svc.ResetPassword(input); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Msg("Password updated"))
}

// POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input user.VerifyEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Err(err.Error()))
		return
	}

	if err := h.svc.VerifyEmail(input); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{"verified": true}))
}
