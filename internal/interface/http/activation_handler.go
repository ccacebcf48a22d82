package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/application"
	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/pkg/response"
	"github.com/rimsapp/rims-activation/pkg/validation"
)

type ActivationHandler struct {
	Svc    *application.ActivationService
	Logger *logrus.Logger
}

func NewActivationHandler(svc *application.ActivationService, logger *logrus.Logger) *ActivationHandler {
	return &ActivationHandler{Svc: svc, Logger: logger}
}

type resendRequest struct {
	Email string `json:"email" binding:"required"`
}

type confirmRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// resendView is one row of the outcome-to-response mapping. Responses are
// built from these fields and nothing else, so a new outcome cannot leak
// account existence by accident.
type resendView struct {
	status    int
	success   bool
	message   string
	emailSent *bool
	redirect  string
}

func boolPtr(b bool) *bool { return &b }

var resendViews = map[application.ResendOutcome]resendView{
	application.OutcomeEmailSent: {
		status:    http.StatusOK,
		success:   true,
		message:   "activation email sent",
		emailSent: boolPtr(true),
	},
	application.OutcomeEmailFailed: {
		status:    http.StatusOK,
		success:   true,
		message:   "activation email could not be sent, please try again",
		emailSent: boolPtr(false),
	},
	application.OutcomeAlreadyActivated: {
		status:   http.StatusBadRequest,
		success:  false,
		message:  "account is already activated, please log in",
		redirect: "/login",
	},
	application.OutcomeGenericOK: {
		status:  http.StatusOK,
		success: true,
		message: "if an account exists for this address, an activation email has been sent",
	},
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// Resend POST /api/activation/resend {email}
func (h *ActivationHandler) Resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Resend(c.Request.Context(), application.ResendInput{
		Email:     req.Email,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		if errors.Is(err, entity.ErrInvalidEmail) {
			response.Error[any](c, http.StatusBadRequest, "invalid email address", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("resend activation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	view, ok := resendViews[res.Outcome]
	if !ok {
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	data := gin.H{}
	if view.emailSent != nil {
		data["email_sent"] = *view.emailSent
	}
	if view.redirect != "" {
		data["redirect"] = view.redirect
	}
	if view.success {
		response.Success(c, view.status, data, view.message, nil)
		return
	}
	response.Error[any](c, view.status, view.message, data)
}

// Confirm POST /api/activation/confirm {email, token}
func (h *ActivationHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.Confirm(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidOrExpiredToken) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("confirm activation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activated": true, "redirect": "/login"}, "account activated", nil)
}
