package domain

import (
	"crypto/rand"
	"strings"
	"sync"
)

// Staged asset previews are addressed under this path prefix. Anything else
// (server-relative path or absolute URL) is a persisted reference.
const StagingPrefix = "/staging/"

const (
	MaxImages     = 4
	MaxFileSizeMB = 1
)

// PhoneEntry is one phone number row on a profile.
type PhoneEntry struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Number string `json:"number"`
}

func (p PhoneEntry) EntryID() string { return p.ID }

// EmailEntry is one email row on a profile.
type EmailEntry struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

func (e EmailEntry) EntryID() string { return e.ID }

// SocialLink is one social row. Link is always a normalized absolute URL once
// it has passed through NormalizeLink.
type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
	Link     string `json:"link"`
}

func (s SocialLink) EntryID() string { return s.ID }

// Theme bundles the visual configuration attached to a profile.
type Theme struct {
	Template       string `json:"template"`
	ShowGallery    bool   `json:"showGallery"`
	ShowSocials    bool   `json:"showSocials"`
	PrimaryColor   string `json:"primaryColor"`
	AccentColor    string `json:"accentColor"`
	IconColor      string `json:"iconColor"`
	TitleTextColor string `json:"titleTextColor"`
	BioTextColor   string `json:"bioTextColor"`
	FontFamily     string `json:"fontFamily"`
}

// FontFamilies is the fixed set of selectable font stacks.
var FontFamilies = []string{
	"'Inter', sans-serif",
	"'Roboto', sans-serif",
	"'Playfair Display', serif",
	"'Oswald', sans-serif",
}

// KnownFontFamily reports whether f is one of the selectable stacks.
func KnownFontFamily(f string) bool {
	for _, v := range FontFamilies {
		if v == f {
			return true
		}
	}
	return false
}

// TemplateIDs lists the six selectable layout identifiers.
var TemplateIDs = []string{
	"template1", "template2", "template3", "template4", "template5", "template6",
}

// KnownTemplate reports whether id names one of the six layouts.
func KnownTemplate(id string) bool {
	for _, v := range TemplateIDs {
		if v == id {
			return true
		}
	}
	return false
}

// DefaultTheme returns the theme a fresh draft starts with.
func DefaultTheme() Theme {
	return Theme{
		Template:       "template1",
		ShowGallery:    true,
		ShowSocials:    true,
		PrimaryColor:   "#1A1A1A",
		AccentColor:    "#FF4F00",
		IconColor:      "#FFFFFF",
		TitleTextColor: "#FFFFFF",
		BioTextColor:   "#E5E7EB",
		FontFamily:     "'Inter', sans-serif",
	}
}

// GalleryEntry is one gallery slot. Staged entries carry the AssetID of the
// locally staged file; persisted entries carry only the canonical Ref.
type GalleryEntry struct {
	ID      string `json:"id"`
	Ref     string `json:"ref"`
	AssetID string `json:"-"`
}

// Staged reports whether the entry points at a not-yet-uploaded local file.
func (g GalleryEntry) Staged() bool {
	return strings.HasPrefix(g.Ref, StagingPrefix)
}

// ImageRef is a single-image surface (profile or cover picture).
type ImageRef struct {
	Ref     string `json:"ref"`
	AssetID string `json:"-"`
}

func (r ImageRef) Staged() bool {
	return strings.HasPrefix(r.Ref, StagingPrefix)
}

// Profile is the persisted shape exchanged with the NFC API.
type Profile struct {
	ID              string       `json:"_id,omitempty"`
	Name            string       `json:"name"`
	Title           string       `json:"title"`
	Company         string       `json:"company"`
	JobTitle        string       `json:"jobTitle"`
	Phones          []PhoneEntry `json:"phones"`
	Emails          []EmailEntry `json:"emails"`
	Website         string       `json:"website"`
	Address         string       `json:"address"`
	AddressLink     string       `json:"addressLink"`
	Socials         []SocialLink `json:"socials"`
	Theme           Theme        `json:"theme"`
	ProfileImageURL string       `json:"profileImageUrl,omitempty"`
	CoverImageURL   string       `json:"coverImageUrl,omitempty"`
	GalleryImages   []string     `json:"galleryImages,omitempty"`
	NFCLink         string       `json:"nfcLink,omitempty"`
	VcfURL          string       `json:"vcfUrl,omitempty"`
}

// ProfileDraft is the aggregate being authored in one editing session. It is
// constructed once per session and mutated only through its own methods; the
// mutex covers interleaved requests from the owning session.
type ProfileDraft struct {
	mu sync.Mutex

	ProfileID string

	Name        string
	Title       string
	Company     string
	JobTitle    string
	Website     string
	Address     string
	AddressLink string

	Phones  []PhoneEntry
	Emails  []EmailEntry
	Socials []SocialLink

	Theme Theme

	ProfileImage ImageRef
	CoverImage   ImageRef
	Gallery      []GalleryEntry
	GalleryIndex int

	saveInFlight bool
}

// NewDraft returns an empty draft with the documented defaults (create flow).
func NewDraft() *ProfileDraft {
	return &ProfileDraft{
		Phones: []PhoneEntry{{ID: NewEntryID(), Type: "Mobile"}},
		Emails: []EmailEntry{{ID: NewEntryID(), Type: "Work"}},
		Theme:  DefaultTheme(),
	}
}

// HydrateDraft builds a draft from a previously persisted profile (edit flow).
// Entries missing ids (older records) get fresh ones so list edits stay keyed.
func HydrateDraft(p *Profile) *ProfileDraft {
	d := &ProfileDraft{
		ProfileID:   p.ID,
		Name:        p.Name,
		Title:       p.Title,
		Company:     p.Company,
		JobTitle:    p.JobTitle,
		Website:     p.Website,
		Address:     p.Address,
		AddressLink: p.AddressLink,
		Phones:      append([]PhoneEntry(nil), p.Phones...),
		Emails:      append([]EmailEntry(nil), p.Emails...),
		Socials:     append([]SocialLink(nil), p.Socials...),
		Theme:       p.Theme,
	}
	if d.Theme.Template == "" {
		d.Theme = DefaultTheme()
	}
	for i := range d.Phones {
		if d.Phones[i].ID == "" {
			d.Phones[i].ID = NewEntryID()
		}
	}
	for i := range d.Emails {
		if d.Emails[i].ID == "" {
			d.Emails[i].ID = NewEntryID()
		}
	}
	for i := range d.Socials {
		if d.Socials[i].ID == "" {
			d.Socials[i].ID = NewEntryID()
		}
	}
	d.ProfileImage = ImageRef{Ref: p.ProfileImageURL}
	d.CoverImage = ImageRef{Ref: p.CoverImageURL}
	for _, ref := range p.GalleryImages {
		d.Gallery = append(d.Gallery, GalleryEntry{ID: NewEntryID(), Ref: ref})
	}
	return d
}

// WithLock runs fn while holding the draft's mutex.
func (d *ProfileDraft) WithLock(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// BeginSave marks a save as in flight; false means one is already running.
func (d *ProfileDraft) BeginSave() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.saveInFlight {
		return false
	}
	d.saveInFlight = true
	return true
}

// EndSave clears the in-flight marker.
func (d *ProfileDraft) EndSave() {
	d.mu.Lock()
	d.saveInFlight = false
	d.mu.Unlock()
}

// Reset returns the draft to empty defaults after a successful create-save.
// Theme is intentionally kept, matching the authoring flow where the chosen
// look carries over to the next card.
func (d *ProfileDraft) Reset() {
	d.ProfileID = ""
	d.Name = ""
	d.Title = ""
	d.Company = ""
	d.JobTitle = ""
	d.Website = ""
	d.Address = ""
	d.AddressLink = ""
	d.Phones = nil
	d.Emails = nil
	d.Socials = nil
	d.ProfileImage = ImageRef{}
	d.CoverImage = ImageRef{}
	d.Gallery = nil
	d.GalleryIndex = 0
}

// ExistingGallery returns the persisted (non-staged) gallery refs in order.
func (d *ProfileDraft) ExistingGallery() []string {
	out := make([]string, 0, len(d.Gallery))
	for _, g := range d.Gallery {
		if !g.Staged() {
			out = append(out, g.Ref)
		}
	}
	return out
}

// StagedGallery returns the staged gallery entries in order.
func (d *ProfileDraft) StagedGallery() []GalleryEntry {
	out := make([]GalleryEntry, 0, len(d.Gallery))
	for _, g := range d.Gallery {
		if g.Staged() {
			out = append(out, g)
		}
	}
	return out
}

// RemoveGalleryEntry drops the entry with the given id and returns it. The
// carousel index is reset to 0 when it would fall out of bounds.
func (d *ProfileDraft) RemoveGalleryEntry(id string) (GalleryEntry, bool) {
	for i, g := range d.Gallery {
		if g.ID == id {
			d.Gallery = append(d.Gallery[:i], d.Gallery[i+1:]...)
			if d.GalleryIndex >= len(d.Gallery) {
				d.GalleryIndex = 0
			}
			return g, true
		}
	}
	return GalleryEntry{}, false
}

// NextImage advances the carousel, wrapping at the end. With zero or one
// images it is a no-op.
func (d *ProfileDraft) NextImage() {
	if len(d.Gallery) > 1 {
		d.GalleryIndex = (d.GalleryIndex + 1) % len(d.Gallery)
	}
}

// PrevImage steps the carousel back, wrapping at the start.
func (d *ProfileDraft) PrevImage() {
	if len(d.Gallery) > 1 {
		d.GalleryIndex = (d.GalleryIndex - 1 + len(d.Gallery)) % len(d.Gallery)
	}
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NFCLinkSlug derives the short public slug for a new profile: the lowercased,
// hyphenated name plus a 5-character random suffix.
func NFCLinkSlug(name string) string {
	base := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
	if base == "" {
		base = "user"
	}
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = slugAlphabet[int(b[i])%len(slugAlphabet)]
	}
	return base + "-" + string(b)
}
