package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todolist/internal/forms"
	"todolist/internal/metrics"
	"todolist/internal/service/auth"
	"todolist/internal/session"
)

type AuthHandler struct {
	auth     *auth.Service
	sessions *session.Manager
	flash    *session.FlashStore
	logger   *zap.Logger
}

func NewAuthHandler(authSvc *auth.Service, sessions *session.Manager, flash *session.FlashStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		sessions: sessions,
		flash:    flash,
		logger:   logger,
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Form":    &forms.RegistrationForm{},
		"Flashes": h.flash.Pop(c),
	})
}

// Register creates an account and sends the user to the login view. A
// rejected form is redisplayed with field errors.
func (h *AuthHandler) Register(c *gin.Context) {
	form := forms.ParseRegistration(c.Request)
	if !form.Validate() {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Form":    form,
			"Flashes": h.flash.Pop(c),
		})
		return
	}

	_, err := h.auth.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			form.Errors = map[string]string{"username": "is already taken"}
		case errors.Is(err, auth.ErrEmailTaken):
			form.Errors = map[string]string{"email": "is already taken"}
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Form":    form,
			"Flashes": h.flash.Pop(c),
		})
		return
	}

	h.flash.Add(c, "success", "Your account has been created! You can now log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Form":    &forms.LoginForm{},
		"Flashes": h.flash.Pop(c),
	})
}

// Login establishes an authenticated session. Both failure modes render
// the same view with the same status; only the flashed message differs.
func (h *AuthHandler) Login(c *gin.Context) {
	form := forms.ParseLogin(c.Request)
	if !form.Validate() {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Form":    form,
			"Flashes": h.flash.Pop(c),
		})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			metrics.IncrementLogin("user_not_found")
			h.flash.Add(c, "danger", "Login unsuccessful. User not found.")
		case errors.Is(err, auth.ErrBadCredentials):
			metrics.IncrementLogin("bad_password")
			h.flash.Add(c, "danger", "Login unsuccessful. Please check your username and password.")
		default:
			metrics.IncrementLogin("error")
			h.logger.Error("Login failed", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Form":    form,
			"Flashes": h.flash.Pop(c),
		})
		return
	}

	if err := h.sessions.Establish(c, user.ID); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	metrics.IncrementLogin("success")
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the authenticated session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}
