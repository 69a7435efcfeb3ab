package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/pkg/response"
	"github.com/anandkhari/nfcstudio/pkg/validation"
)

// AuthHandler proxies the admin auth flow to the NFC API. Credentials and
// session cookies are owned upstream; this handler only relays them.
type AuthHandler struct {
	API    *nfcapi.Client
	Logger *logrus.Logger
}

func NewAuthHandler(api *nfcapi.Client, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{API: api, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	body, setCookies, err := h.API.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.WithError(err).Warn("admin login failed")
		upstreamError(c, err, "login failed")
		return
	}
	// Relay the upstream credential cookie so the browser sends it back on
	// every authenticated call.
	for _, sc := range setCookies {
		c.Writer.Header().Add("Set-Cookie", sc)
	}
	response.Success(c, http.StatusOK, json.RawMessage(body), "login successful", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.API.Logout(c.Request.Context(), forwardCookie(c)); err != nil {
		upstreamError(c, err, "logout failed")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	body, err := h.API.CheckAuth(c.Request.Context(), forwardCookie(c))
	if err != nil {
		upstreamError(c, err, "not authenticated")
		return
	}
	response.Success(c, http.StatusOK, json.RawMessage(body), "authenticated", nil)
}
