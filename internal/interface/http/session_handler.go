package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/application"
	"github.com/rimsapp/rims-activation/pkg/response"
	"github.com/rimsapp/rims-activation/pkg/session"
	"github.com/rimsapp/rims-activation/pkg/validation"
)

type SessionHandler struct {
	Auth     *application.AuthService
	Sessions *session.Manager
	Cookies  *session.CookieManager
	Logger   *logrus.Logger
}

func NewSessionHandler(auth *application.AuthService, sessions *session.Manager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *SessionHandler {
	return &SessionHandler{
		Auth:     auth,
		Sessions: sessions,
		Cookies:  session.NewCookieManager(cookieDomain, cookieSecure),
		Logger:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Login POST /api/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailNotVerified) {
			response.Error[any](c, http.StatusForbidden, "email not verified", gin.H{"redirect": "/resend-activation"})
			return
		}
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("login failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	h.Cookies.Set(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"user_id": res.User.ID,
		"email":   res.User.Email,
		"name":    res.User.Name,
	}, "login successful", gin.H{"expires_at": res.ExpiresAt})
}

// Logout POST /api/logout (auth required)
func (h *SessionHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if uid != "" {
		if err := h.Auth.Logout(c.Request.Context(), uid); err != nil && h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("session revoke failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Validate GET /api/session/validate
// Reports whether the request carries a live session artifact.
func (h *SessionHandler) Validate(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "no active session", nil)
		return
	}
	claims, err := h.Sessions.Validate(c.Request.Context(), token)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "no active session", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": claims.UserID}, "session is valid", nil)
}
