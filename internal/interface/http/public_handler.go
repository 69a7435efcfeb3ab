package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/staging"
	"github.com/anandkhari/nfcstudio/internal/render"
	"github.com/anandkhari/nfcstudio/pkg/response"
)

// PublicHandler serves the pages an NFC tap lands on: the rendered profile,
// its downloadable vCard, and the staged-image previews used while editing.
type PublicHandler struct {
	API      *nfcapi.Client
	Renderer *render.Renderer
	Staging  *staging.Store
	Logger   *logrus.Logger
}

func NewPublicHandler(api *nfcapi.Client, renderer *render.Renderer, store *staging.Store, logger *logrus.Logger) *PublicHandler {
	return &PublicHandler{API: api, Renderer: renderer, Staging: store, Logger: logger}
}

func (h *PublicHandler) html(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
}

// Profile renders the public card page for a persisted profile.
func (h *PublicHandler) Profile(c *gin.Context) {
	id := c.Param("id")
	p, err := h.API.FetchProfile(c.Request.Context(), id, "")
	if err != nil {
		status := http.StatusBadGateway
		msg := "This profile is temporarily unavailable."
		if nfcapi.IsNotFound(err) {
			status = http.StatusNotFound
			msg = "This profile does not exist or has been removed."
		} else {
			h.Logger.WithError(err).WithField("profile_id", id).Error("public profile fetch failed")
		}
		h.html(c)
		c.Status(status)
		_ = h.Renderer.RenderError(c.Writer, render.ErrorView{Status: status, Message: msg})
		return
	}

	index := 0
	if q := c.Query("img"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			index = n
		}
	}
	vcf := ""
	if p.VcfURL != "" || p.ID != "" {
		vcf = "/vcf/" + p.ID
	}
	view := render.BuildView(p, h.API.AbsoluteURL, index, vcf)
	view.ReadOnly = true
	h.html(c)
	c.Status(http.StatusOK)
	if err := h.Renderer.Render(c.Writer, view); err != nil {
		h.Logger.WithError(err).Error("public profile render failed")
	}
}

// VCard streams the profile's .vcf download and records the contact save.
func (h *PublicHandler) VCard(c *gin.Context) {
	id := c.Param("id")
	body, contentType, err := h.API.VCard(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err, "error downloading contact card")
		return
	}
	defer func() { _ = body.Close() }()

	if err := h.API.LogContactSave(c.Request.Context(), id); err != nil {
		// Analytics only; the download itself must not fail on it.
		h.Logger.WithError(err).WithField("profile_id", id).Warn("contact save log failed")
	}

	if contentType == "" {
		contentType = "text/vcard"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="contact.vcf"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.Logger.WithError(err).Warn("vcf stream interrupted")
	}
}

// LogSave records a manual "save contact" action.
func (h *PublicHandler) LogSave(c *gin.Context) {
	if err := h.API.LogContactSave(c.Request.Context(), c.Param("id")); err != nil {
		upstreamError(c, err, "error logging contact save")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged": true}, "contact save logged", nil)
}

// StagedAsset serves a staged upload back to the editing browser.
func (h *PublicHandler) StagedAsset(c *gin.Context) {
	f, err := h.Staging.Open(c.Param("draft"), c.Param("asset"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "staged image not found", nil)
		return
	}
	defer func() { _ = f.Close() }()
	fi, err := f.Stat()
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "staged image not found", nil)
		return
	}
	http.ServeContent(c.Writer, c.Request, c.Param("asset"), fi.ModTime(), f)
}
