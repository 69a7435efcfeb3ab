package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/application"
	"github.com/anandkhari/nfcstudio/internal/domain"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/staging"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
	"github.com/anandkhari/nfcstudio/internal/render"
	"github.com/anandkhari/nfcstudio/pkg/helpers"
	"github.com/anandkhari/nfcstudio/pkg/response"
	"github.com/anandkhari/nfcstudio/pkg/validation"
)

// DraftHandler exposes the profile-authoring surface: one draft session per
// editing screen, mutated through explicit endpoints and previewed through
// the shared template renderer.
type DraftHandler struct {
	Drafts   *application.DraftService
	Sessions *helpers.SessionManager
	Cookies  *helpers.Manager
	Renderer *render.Renderer
	Logger   *logrus.Logger

	// Absolutize maps persisted asset refs onto displayable URLs.
	Absolutize func(string) string
}

func NewDraftHandler(drafts *application.DraftService, sessions *helpers.SessionManager, cookies *helpers.Manager, renderer *render.Renderer, absolutize func(string) string, logger *logrus.Logger) *DraftHandler {
	return &DraftHandler{
		Drafts:     drafts,
		Sessions:   sessions,
		Cookies:    cookies,
		Renderer:   renderer,
		Absolutize: absolutize,
		Logger:     logger,
	}
}

func (h *DraftHandler) draftID(c *gin.Context) string {
	return c.GetString(middleware.CtxDraftIDKey)
}

// draftError maps application/domain failures onto responses.
func (h *DraftHandler) draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrDraftNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrSaveInFlight):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, staging.ErrFileTooLarge):
		response.Error[any](c, http.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, application.ErrNameRequired),
		errors.Is(err, application.ErrIncompleteSocial),
		errors.Is(err, application.ErrUnknownPlatform),
		errors.Is(err, domain.ErrLinkRequired),
		errors.Is(err, domain.ErrInvalidLink):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		upstreamError(c, err, "error saving profile")
	}
}

type galleryItem struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Staged bool   `json:"staged"`
}

type draftSnapshot struct {
	ProfileID       string              `json:"profileId,omitempty"`
	Name            string              `json:"name"`
	Title           string              `json:"title"`
	Company         string              `json:"company"`
	JobTitle        string              `json:"jobTitle"`
	Website         string              `json:"website"`
	Address         string              `json:"address"`
	AddressLink     string              `json:"addressLink"`
	Phones          []domain.PhoneEntry `json:"phones"`
	Emails          []domain.EmailEntry `json:"emails"`
	Socials         []domain.SocialLink `json:"socials"`
	Theme           domain.Theme        `json:"theme"`
	ProfileImageURL string              `json:"profileImageUrl"`
	CoverImageURL   string              `json:"coverImageUrl"`
	Gallery         []galleryItem       `json:"gallery"`
	GalleryIndex    int                 `json:"galleryIndex"`
}

func (h *DraftHandler) snapshot(d *domain.ProfileDraft) draftSnapshot {
	var snap draftSnapshot
	d.WithLock(func() {
		snap = draftSnapshot{
			ProfileID:       d.ProfileID,
			Name:            d.Name,
			Title:           d.Title,
			Company:         d.Company,
			JobTitle:        d.JobTitle,
			Website:         d.Website,
			Address:         d.Address,
			AddressLink:     d.AddressLink,
			Phones:          append([]domain.PhoneEntry(nil), d.Phones...),
			Emails:          append([]domain.EmailEntry(nil), d.Emails...),
			Socials:         append([]domain.SocialLink(nil), d.Socials...),
			Theme:           d.Theme,
			ProfileImageURL: h.Absolutize(d.ProfileImage.Ref),
			CoverImageURL:   h.Absolutize(d.CoverImage.Ref),
			GalleryIndex:    d.GalleryIndex,
		}
		for _, g := range d.Gallery {
			snap.Gallery = append(snap.Gallery, galleryItem{ID: g.ID, URL: h.Absolutize(g.Ref), Staged: g.Staged()})
		}
	})
	return snap
}

type openDraftRequest struct {
	FromProfileID string `json:"fromProfileId"`
}

// Open starts a new editing session (empty draft, or hydrated from a
// persisted profile for the edit flow) and binds the browser to it via the
// signed draft-session cookie.
func (h *DraftHandler) Open(c *gin.Context) {
	var req openDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}

	// A fresh session replaces any previous one this browser held.
	if token, err := c.Cookie(helpers.DraftSessionCookie); err == nil && token != "" {
		if claims, err := h.Sessions.ParseToken(token); err == nil {
			h.Drafts.Discard(claims.DraftID)
		}
	}

	id, d, err := h.Drafts.Create(c.Request.Context(), forwardCookie(c), req.FromProfileID)
	if err != nil {
		upstreamError(c, err, "error fetching profile")
		return
	}
	token, exp, err := h.Sessions.GenerateToken(id)
	if err != nil {
		h.Drafts.Discard(id)
		response.Error[any](c, http.StatusInternalServerError, "could not open editing session", nil)
		return
	}
	h.Cookies.SetDraftSession(c, token, exp)
	response.Success(c, http.StatusCreated, h.snapshot(d), "editing session opened", nil)
}

// Current returns the full draft state.
func (h *DraftHandler) Current(c *gin.Context) {
	d, err := h.Drafts.Get(h.draftID(c))
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.snapshot(d), "draft", nil)
}

// Discard drops the session and its staged files.
func (h *DraftHandler) Discard(c *gin.Context) {
	h.Drafts.Discard(h.draftID(c))
	h.Cookies.ClearDraftSession(c)
	response.Success[any](c, http.StatusOK, map[string]any{"discarded": true}, "draft discarded", nil)
}

// UpdateFields applies scalar edits.
func (h *DraftHandler) UpdateFields(c *gin.Context) {
	var req application.FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Drafts.UpdateFields(h.draftID(c), req); err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"updated": true}, "fields updated", nil)
}

type themeRequest struct {
	Template       string `json:"template" binding:"required,oneof=template1 template2 template3 template4 template5 template6"`
	ShowGallery    bool   `json:"showGallery"`
	ShowSocials    bool   `json:"showSocials"`
	PrimaryColor   string `json:"primaryColor" binding:"required,hexcolor"`
	AccentColor    string `json:"accentColor" binding:"required,hexcolor"`
	IconColor      string `json:"iconColor" binding:"required,hexcolor"`
	TitleTextColor string `json:"titleTextColor" binding:"required,hexcolor"`
	BioTextColor   string `json:"bioTextColor" binding:"required,hexcolor"`
	FontFamily     string `json:"fontFamily" binding:"required"`
}

// UpdateTheme replaces the visual configuration.
func (h *DraftHandler) UpdateTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if !domain.KnownFontFamily(req.FontFamily) {
		response.Error[any](c, http.StatusBadRequest, "unknown font family", nil)
		return
	}
	theme := domain.Theme{
		Template:       req.Template,
		ShowGallery:    req.ShowGallery,
		ShowSocials:    req.ShowSocials,
		PrimaryColor:   req.PrimaryColor,
		AccentColor:    req.AccentColor,
		IconColor:      req.IconColor,
		TitleTextColor: req.TitleTextColor,
		BioTextColor:   req.BioTextColor,
		FontFamily:     req.FontFamily,
	}
	if err := h.Drafts.UpdateTheme(h.draftID(c), theme); err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"updated": true}, "theme updated", nil)
}

type addContactRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type updateEntryRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *DraftHandler) AddPhone(c *gin.Context) {
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	entry, err := h.Drafts.AddPhone(h.draftID(c), req.Type, req.Value)
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry, "phone added", nil)
}

func (h *DraftHandler) UpdatePhone(c *gin.Context) {
	h.updateEntry(c, h.Drafts.UpdatePhone)
}

func (h *DraftHandler) RemovePhone(c *gin.Context) {
	h.removeEntry(c, h.Drafts.RemovePhone)
}

func (h *DraftHandler) AddEmail(c *gin.Context) {
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	entry, err := h.Drafts.AddEmail(h.draftID(c), req.Type, req.Value)
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry, "email added", nil)
}

func (h *DraftHandler) UpdateEmail(c *gin.Context) {
	h.updateEntry(c, h.Drafts.UpdateEmail)
}

func (h *DraftHandler) RemoveEmail(c *gin.Context) {
	h.removeEntry(c, h.Drafts.RemoveEmail)
}

type addSocialRequest struct {
	Platform string `json:"platform" binding:"required"`
	Handle   string `json:"handle"`
	Link     string `json:"link" binding:"required"`
}

func (h *DraftHandler) AddSocial(c *gin.Context) {
	var req addSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	entry, err := h.Drafts.AddSocial(h.draftID(c), req.Platform, req.Handle, req.Link)
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry, "social link added", nil)
}

func (h *DraftHandler) UpdateSocial(c *gin.Context) {
	h.updateEntry(c, h.Drafts.UpdateSocial)
}

func (h *DraftHandler) RemoveSocial(c *gin.Context) {
	h.removeEntry(c, h.Drafts.RemoveSocial)
}

// updateEntry and removeEntry share the stale-id contract: a missing id is a
// benign no-op reported as found=false, never an error.
func (h *DraftHandler) updateEntry(c *gin.Context, op func(draftID, id, field, value string) (bool, error)) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	found, err := op(h.draftID(c), c.Param("id"), req.Field, req.Value)
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"found": found}, "entry updated", nil)
}

func (h *DraftHandler) removeEntry(c *gin.Context, op func(draftID, id string) (bool, error)) {
	found, err := op(h.draftID(c), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"found": found}, "entry removed", nil)
}

// StageImage replaces the profile or cover picture with an uploaded file.
func (h *DraftHandler) StageImage(c *gin.Context) {
	surface := application.ImageSurface(c.Param("surface"))
	if surface != application.SurfaceProfile && surface != application.SurfaceCover {
		response.Error[any](c, http.StatusBadRequest, "unknown image surface", nil)
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read image", nil)
		return
	}
	defer func() { _ = f.Close() }()
	ref, err := h.Drafts.StageSingleImage(h.draftID(c), surface, fh.Filename, fh.Size, f)
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"previewUrl": ref}, "image staged", nil)
}

// StageGallery stages a batch of gallery selections.
func (h *DraftHandler) StageGallery(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image files required", nil)
		return
	}
	files := form.File["images"]
	batch := make([]application.GalleryFile, 0, len(files))
	for _, fh := range files {
		batch = append(batch, application.GalleryFile{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	staged, err := h.Drafts.StageGalleryFiles(h.draftID(c), batch)
	if err != nil {
		h.draftError(c, err)
		return
	}
	items := make([]galleryItem, 0, len(staged))
	for _, g := range staged {
		items = append(items, galleryItem{ID: g.ID, URL: g.Ref, Staged: true})
	}
	response.Success(c, http.StatusOK, items, "gallery images staged", nil)
}

// RemoveGalleryImage removes one gallery slot by its stable id.
func (h *DraftHandler) RemoveGalleryImage(c *gin.Context) {
	found, err := h.Drafts.RemoveGalleryImage(h.draftID(c), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"found": found}, "gallery image removed", nil)
}

// Carousel advances or rewinds the preview carousel.
func (h *DraftHandler) Carousel(c *gin.Context) {
	d, err := h.Drafts.Get(h.draftID(c))
	if err != nil {
		h.draftError(c, err)
		return
	}
	var index int
	d.WithLock(func() {
		switch c.Param("dir") {
		case "next":
			d.NextImage()
		case "prev":
			d.PrevImage()
		}
		index = d.GalleryIndex
	})
	response.Success[any](c, http.StatusOK, map[string]any{"index": index}, "carousel moved", nil)
}

// Save runs the full save protocol against the NFC API.
func (h *DraftHandler) Save(c *gin.Context) {
	outcome, err := h.Drafts.Save(c.Request.Context(), h.draftID(c), forwardCookie(c))
	if err != nil {
		h.draftError(c, err)
		return
	}
	msg := "profile updated successfully"
	if outcome.Created {
		msg = "profile saved successfully"
	}
	response.Success(c, http.StatusOK, map[string]any{
		"created":   outcome.Created,
		"profileId": outcome.ProfileID,
		"nfcLink":   outcome.NFCLink,
	}, msg, nil)
}

// Preview renders the live authoring preview through the same template
// renderer the public page uses.
func (h *DraftHandler) Preview(c *gin.Context) {
	d, err := h.Drafts.Get(h.draftID(c))
	if err != nil {
		h.draftError(c, err)
		return
	}
	var p domain.Profile
	var index int
	d.WithLock(func() {
		p = domain.Profile{
			Name:            d.Name,
			Title:           d.Title,
			Company:         d.Company,
			JobTitle:        d.JobTitle,
			Phones:          append([]domain.PhoneEntry(nil), d.Phones...),
			Emails:          append([]domain.EmailEntry(nil), d.Emails...),
			Website:         d.Website,
			Address:         d.Address,
			AddressLink:     d.AddressLink,
			Socials:         append([]domain.SocialLink(nil), d.Socials...),
			Theme:           d.Theme,
			ProfileImageURL: d.ProfileImage.Ref,
			CoverImageURL:   d.CoverImage.Ref,
		}
		for _, g := range d.Gallery {
			p.GalleryImages = append(p.GalleryImages, g.Ref)
		}
		index = d.GalleryIndex
	})
	if q := c.Query("img"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			index = n
		}
	}
	view := render.BuildView(&p, h.Absolutize, index, "")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.Renderer.Render(c.Writer, view); err != nil {
		h.Logger.WithError(err).Error("preview render failed")
	}
}
