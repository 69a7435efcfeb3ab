package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/domain"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/staging"
)

var (
	ErrDraftNotFound    = errors.New("draft session not found")
	ErrNameRequired     = errors.New("name is required")
	ErrIncompleteSocial = errors.New("each social link must include a platform and link")
	ErrSaveInFlight     = errors.New("a save is already in progress")
	ErrUnknownPlatform  = errors.New("unknown social platform")
)

// DraftService owns every live editing session. A draft is created when an
// authoring screen opens, is mutated only through these methods, and is
// destroyed on create-save or explicit discard. Nothing here persists across
// process restarts; persistence belongs to the NFC API.
type DraftService struct {
	mu     sync.RWMutex
	drafts map[string]*domain.ProfileDraft

	API     *nfcapi.Client
	Staging *staging.Store
	Logger  *logrus.Logger
}

func NewDraftService(api *nfcapi.Client, st *staging.Store, logger *logrus.Logger) *DraftService {
	return &DraftService{
		drafts:  make(map[string]*domain.ProfileDraft),
		API:     api,
		Staging: st,
		Logger:  logger,
	}
}

// Create opens a new editing session. With fromProfileID set, the draft is
// hydrated from the persisted profile (edit flow); otherwise it starts empty.
func (s *DraftService) Create(ctx context.Context, cookie, fromProfileID string) (string, *domain.ProfileDraft, error) {
	var d *domain.ProfileDraft
	if fromProfileID != "" {
		p, err := s.API.FetchProfile(ctx, fromProfileID, cookie)
		if err != nil {
			return "", nil, err
		}
		d = domain.HydrateDraft(p)
	} else {
		d = domain.NewDraft()
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.drafts[id] = d
	s.mu.Unlock()
	s.Logger.WithFields(logrus.Fields{"draft": id, "profile": fromProfileID}).Debug("draft session opened")
	return id, d, nil
}

// Get looks up a live draft by session id.
func (s *DraftService) Get(draftID string) (*domain.ProfileDraft, error) {
	s.mu.RLock()
	d, ok := s.drafts[draftID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Discard drops a session and releases its staged files.
func (s *DraftService) Discard(draftID string) {
	s.mu.Lock()
	_, ok := s.drafts[draftID]
	delete(s.drafts, draftID)
	s.mu.Unlock()
	if ok {
		s.Staging.DiscardDraft(draftID)
		s.Logger.WithField("draft", draftID).Debug("draft session discarded")
	}
}

// FieldUpdate carries scalar field edits. Pointers distinguish "not sent"
// from "cleared".
type FieldUpdate struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	JobTitle    *string `json:"jobTitle"`
	Website     *string `json:"website"`
	Address     *string `json:"address"`
	AddressLink *string `json:"addressLink"`
}

// UpdateFields applies scalar edits to the draft.
func (s *DraftService) UpdateFields(draftID string, in FieldUpdate) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	d.WithLock(func() {
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		set(&d.Name, in.Name)
		set(&d.Title, in.Title)
		set(&d.Company, in.Company)
		set(&d.JobTitle, in.JobTitle)
		set(&d.Website, in.Website)
		set(&d.Address, in.Address)
		set(&d.AddressLink, in.AddressLink)
	})
	return nil
}

// UpdateTheme replaces the draft's theme wholesale.
func (s *DraftService) UpdateTheme(draftID string, theme domain.Theme) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	d.WithLock(func() { d.Theme = theme })
	return nil
}

// AddPhone appends a phone entry with a fresh id.
func (s *DraftService) AddPhone(draftID, phoneType, number string) (domain.PhoneEntry, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return domain.PhoneEntry{}, err
	}
	entry := domain.PhoneEntry{ID: domain.NewEntryID(), Type: phoneType, Number: number}
	d.WithLock(func() { d.Phones = domain.AddEntry(d.Phones, entry) })
	return entry, nil
}

// UpdatePhone replaces one named field on the entry matching id. A stale id
// is reported as found=false, not an error.
func (s *DraftService) UpdatePhone(draftID, id, field, value string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	d.WithLock(func() {
		found = domain.UpdateEntry(d.Phones, id, func(p *domain.PhoneEntry) {
			switch field {
			case "type":
				p.Type = value
			case "number":
				p.Number = value
			}
		})
	})
	return found, nil
}

func (s *DraftService) RemovePhone(draftID, id string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	d.WithLock(func() { d.Phones, found = domain.RemoveEntry(d.Phones, id) })
	return found, nil
}

func (s *DraftService) AddEmail(draftID, emailType, address string) (domain.EmailEntry, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return domain.EmailEntry{}, err
	}
	entry := domain.EmailEntry{ID: domain.NewEntryID(), Type: emailType, Address: address}
	d.WithLock(func() { d.Emails = domain.AddEntry(d.Emails, entry) })
	return entry, nil
}

func (s *DraftService) UpdateEmail(draftID, id, field, value string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	d.WithLock(func() {
		found = domain.UpdateEntry(d.Emails, id, func(e *domain.EmailEntry) {
			switch field {
			case "type":
				e.Type = value
			case "address":
				e.Address = value
			}
		})
	})
	return found, nil
}

func (s *DraftService) RemoveEmail(draftID, id string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	d.WithLock(func() { d.Emails, found = domain.RemoveEntry(d.Emails, id) })
	return found, nil
}

// AddSocial runs the modal flow: normalize the raw link against the platform
// and append on success.
func (s *DraftService) AddSocial(draftID, platform, handle, rawLink string) (domain.SocialLink, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return domain.SocialLink{}, err
	}
	if !domain.KnownPlatform(platform) {
		return domain.SocialLink{}, ErrUnknownPlatform
	}
	link, err := domain.NormalizeLink(platform, rawLink)
	if err != nil {
		return domain.SocialLink{}, err
	}
	entry := domain.SocialLink{ID: domain.NewEntryID(), Platform: platform, Handle: handle, Link: link}
	d.WithLock(func() { d.Socials = domain.AddEntry(d.Socials, entry) })
	return entry, nil
}

// UpdateSocial edits one field on a social entry. Link edits pass through the
// same normalization as the add flow, so both paths agree.
func (s *DraftService) UpdateSocial(draftID, id, field, value string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	var normErr error
	d.WithLock(func() {
		found = domain.UpdateEntry(d.Socials, id, func(sl *domain.SocialLink) {
			switch field {
			case "handle":
				sl.Handle = value
			case "link":
				link, e := domain.NormalizeLink(sl.Platform, value)
				if e != nil {
					normErr = e
					return
				}
				sl.Link = link
			}
		})
	})
	if normErr != nil {
		return found, normErr
	}
	return found, nil
}

func (s *DraftService) RemoveSocial(draftID, id string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	d.WithLock(func() { d.Socials, found = domain.RemoveEntry(d.Socials, id) })
	return found, nil
}

// ImageSurface names a single-image slot.
type ImageSurface string

const (
	SurfaceProfile ImageSurface = "profile"
	SurfaceCover   ImageSurface = "cover"
)

// StageSingleImage replaces the profile or cover image with a newly selected
// file. The previous staged file, if any, is released.
func (s *DraftService) StageSingleImage(draftID string, surface ImageSurface, filename string, size int64, r io.Reader) (string, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return "", err
	}
	asset, err := s.Staging.Stage(draftID, filename, size, r)
	if err != nil {
		return "", err
	}
	var previous string
	d.WithLock(func() {
		switch surface {
		case SurfaceCover:
			previous = d.CoverImage.AssetID
			d.CoverImage = domain.ImageRef{Ref: asset.PreviewRef, AssetID: asset.ID}
		default:
			previous = d.ProfileImage.AssetID
			d.ProfileImage = domain.ImageRef{Ref: asset.PreviewRef, AssetID: asset.ID}
		}
	})
	if previous != "" {
		s.Staging.Remove(draftID, previous)
	}
	return asset.PreviewRef, nil
}

// GalleryFile is one file in a gallery selection batch.
type GalleryFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// StageGalleryFiles stages a batch of gallery selections. Slots remaining are
// computed first and the batch truncated from the front; one oversized file
// rejects the whole batch and leaves the gallery unchanged.
func (s *DraftService) StageGalleryFiles(draftID string, files []GalleryFile) ([]domain.GalleryEntry, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return nil, err
	}
	var remaining int
	d.WithLock(func() { remaining = domain.MaxImages - len(d.Gallery) })
	if remaining <= 0 {
		return nil, nil
	}
	if len(files) > remaining {
		files = files[:remaining]
	}
	for _, f := range files {
		if f.Size > s.Staging.MaxSize {
			return nil, staging.ErrFileTooLarge
		}
	}

	staged := make([]domain.GalleryEntry, 0, len(files))
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			s.releaseEntries(draftID, staged)
			return nil, fmt.Errorf("open gallery file: %w", err)
		}
		asset, err := s.Staging.Stage(draftID, f.Filename, f.Size, rc)
		_ = rc.Close()
		if err != nil {
			s.releaseEntries(draftID, staged)
			return nil, err
		}
		staged = append(staged, domain.GalleryEntry{
			ID:      domain.NewEntryID(),
			Ref:     asset.PreviewRef,
			AssetID: asset.ID,
		})
	}

	d.WithLock(func() {
		// Re-check under the lock: another request from the same session may
		// have filled slots while files were being copied.
		room := domain.MaxImages - len(d.Gallery)
		if room < 0 {
			room = 0
		}
		if room < len(staged) {
			s.releaseEntries(draftID, staged[room:])
			staged = staged[:room]
		}
		d.Gallery = append(d.Gallery, staged...)
	})
	return staged, nil
}

func (s *DraftService) releaseEntries(draftID string, entries []domain.GalleryEntry) {
	for _, g := range entries {
		if g.AssetID != "" {
			s.Staging.Remove(draftID, g.AssetID)
		}
	}
}

// RemoveGalleryImage removes one gallery entry by id, releasing its staged
// file when it was a local selection.
func (s *DraftService) RemoveGalleryImage(draftID, entryID string) (found bool, err error) {
	d, err := s.Get(draftID)
	if err != nil {
		return false, err
	}
	var removed domain.GalleryEntry
	d.WithLock(func() { removed, found = d.RemoveGalleryEntry(entryID) })
	if found && removed.AssetID != "" {
		s.Staging.Remove(draftID, removed.AssetID)
	}
	return found, nil
}

// SaveOutcome reports what a successful save did.
type SaveOutcome struct {
	Created   bool
	ProfileID string
	NFCLink   string
	Profile   *domain.Profile
}

// Save validates and serializes the whole draft plus staged assets into one
// multipart request against the NFC API, then reconciles the response back
// into local state. At most one save per draft is in flight; a second call
// fails fast with ErrSaveInFlight. On any failure the draft is left exactly
// as it was so the user can correct and resubmit.
func (s *DraftService) Save(ctx context.Context, draftID, cookie string) (*SaveOutcome, error) {
	d, err := s.Get(draftID)
	if err != nil {
		return nil, err
	}
	if !d.BeginSave() {
		return nil, ErrSaveInFlight
	}
	defer d.EndSave()

	// Snapshot under the lock; the network call happens outside it.
	var (
		snapshot      domain.Profile
		nfcLink       string
		profileAsset  string
		coverAsset    string
		galleryAssets []domain.GalleryEntry
		existing      []string
		isCreate      bool
	)
	var precondition error
	d.WithLock(func() {
		if strings.TrimSpace(d.Name) == "" {
			precondition = ErrNameRequired
			return
		}
		if d.Theme.ShowSocials {
			for _, sl := range d.Socials {
				if sl.Platform == "" || sl.Link == "" {
					precondition = ErrIncompleteSocial
					return
				}
			}
		}
		isCreate = d.ProfileID == ""
		if isCreate {
			nfcLink = domain.NFCLinkSlug(d.Name)
		}
		snapshot = domain.Profile{
			ID:          d.ProfileID,
			Name:        d.Name,
			Title:       d.Title,
			Company:     d.Company,
			JobTitle:    d.JobTitle,
			Phones:      append([]domain.PhoneEntry(nil), d.Phones...),
			Emails:      append([]domain.EmailEntry(nil), d.Emails...),
			Website:     d.Website,
			Address:     d.Address,
			AddressLink: d.AddressLink,
			Socials:     append([]domain.SocialLink(nil), d.Socials...),
			Theme:       d.Theme,
			NFCLink:     nfcLink,
		}
		if d.ProfileImage.AssetID != "" {
			profileAsset = d.ProfileImage.AssetID
		}
		if d.CoverImage.AssetID != "" {
			coverAsset = d.CoverImage.AssetID
		}
		galleryAssets = d.StagedGallery()
		existing = d.ExistingGallery()
	})
	if precondition != nil {
		return nil, precondition
	}

	body, contentType, err := s.buildSaveRequest(draftID, &snapshot, existing, profileAsset, coverAsset, galleryAssets)
	if err != nil {
		return nil, err
	}

	var res *nfcapi.SaveResult
	if isCreate {
		res, err = s.API.CreateProfile(ctx, cookie, contentType, body)
	} else {
		res, err = s.API.UpdateProfile(ctx, snapshot.ID, cookie, contentType, body)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("draft", draftID).Warn("profile save failed")
		return nil, err
	}

	outcome := &SaveOutcome{Created: isCreate, ProfileID: res.ID, NFCLink: nfcLink, Profile: res.Profile}
	if isCreate {
		d.WithLock(func() { d.Reset() })
		s.Staging.DiscardDraft(draftID)
		s.Logger.WithFields(logrus.Fields{"draft": draftID, "profile": res.ID}).Info("profile created")
		return outcome, nil
	}

	// Update: adopt the canonical refs the server returned, dropping every
	// leftover local preview. When the server omits the profile body the
	// draft keeps its staged refs, so the staged files must stay on disk.
	reconciled := false
	d.WithLock(func() {
		if res.Profile != nil {
			d.ProfileImage = domain.ImageRef{Ref: res.Profile.ProfileImageURL}
			d.CoverImage = domain.ImageRef{Ref: res.Profile.CoverImageURL}
			d.Gallery = d.Gallery[:0]
			for _, ref := range res.Profile.GalleryImages {
				d.Gallery = append(d.Gallery, domain.GalleryEntry{ID: domain.NewEntryID(), Ref: ref})
			}
			if d.GalleryIndex >= len(d.Gallery) {
				d.GalleryIndex = 0
			}
			reconciled = true
		}
	})
	if reconciled {
		s.Staging.DiscardDraft(draftID)
	}
	s.Logger.WithFields(logrus.Fields{"draft": draftID, "profile": snapshot.ID}).Info("profile updated")
	return outcome, nil
}

type savePayload struct {
	domain.Profile
	ExistingGallery []string `json:"existingGallery"`
}

// buildSaveRequest assembles the multipart body: one JSON "data" part, the
// single-image parts when newly staged, and one "galleryImages" part per
// staged gallery file.
func (s *DraftService) buildSaveRequest(draftID string, p *domain.Profile, existingGallery []string, profileAsset, coverAsset string, gallery []domain.GalleryEntry) (*bytes.Buffer, string, error) {
	payload := savePayload{Profile: *p, ExistingGallery: existingGallery}
	payload.ID = "" // ids travel in the URL, never in the body
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal save payload: %w", err)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("data", string(data)); err != nil {
		return nil, "", err
	}
	attach := func(field, assetID string) error {
		if assetID == "" {
			return nil
		}
		f, err := s.Staging.Open(draftID, assetID)
		if err != nil {
			return fmt.Errorf("open staged %s: %w", field, err)
		}
		defer func() { _ = f.Close() }()
		part, err := w.CreateFormFile(field, assetID)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, f)
		return err
	}
	if err := attach("profileImage", profileAsset); err != nil {
		return nil, "", err
	}
	if err := attach("coverImage", coverAsset); err != nil {
		return nil, "", err
	}
	for _, g := range gallery {
		if err := attach("galleryImages", g.AssetID); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
