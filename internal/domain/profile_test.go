package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	require.Len(t, d.Phones, 1)
	assert.Equal(t, "Mobile", d.Phones[0].Type)
	assert.NotEmpty(t, d.Phones[0].ID)
	require.Len(t, d.Emails, 1)
	assert.Equal(t, "Work", d.Emails[0].Type)

	assert.Equal(t, DefaultTheme(), d.Theme)
	assert.Empty(t, d.ProfileID)
	assert.Empty(t, d.Gallery)
}

func TestHydrateDraft(t *testing.T) {
	p := &Profile{
		ID:      "abc123",
		Name:    "Jane Doe",
		Phones:  []PhoneEntry{{Type: "Mobile", Number: "555"}},
		Emails:  []EmailEntry{{ID: "kept", Type: "Work", Address: "jane@doe.io"}},
		Socials: []SocialLink{{Platform: "instagram", Link: "https://www.instagram.com/jane"}},
		Theme:   Theme{Template: "template3", PrimaryColor: "#000000"},
		GalleryImages: []string{
			"/uploads/one.jpg",
			"https://cdn.example.com/two.jpg",
		},
	}
	d := HydrateDraft(p)

	assert.Equal(t, "abc123", d.ProfileID)
	assert.Equal(t, "Jane Doe", d.Name)
	assert.Equal(t, "template3", d.Theme.Template)

	require.Len(t, d.Phones, 1)
	assert.NotEmpty(t, d.Phones[0].ID, "missing ids get fresh ones")
	assert.Equal(t, "kept", d.Emails[0].ID, "existing ids are preserved")
	assert.NotEmpty(t, d.Socials[0].ID)

	require.Len(t, d.Gallery, 2)
	assert.False(t, d.Gallery[0].Staged())
	assert.False(t, d.Gallery[1].Staged())
	assert.NotEqual(t, d.Gallery[0].ID, d.Gallery[1].ID)
}

func TestHydrateDraftMissingThemeFallsBack(t *testing.T) {
	d := HydrateDraft(&Profile{ID: "x", Name: "N"})
	assert.Equal(t, DefaultTheme(), d.Theme)
}

func TestResetKeepsTheme(t *testing.T) {
	d := NewDraft()
	d.Name = "Jane"
	d.ProfileID = "abc"
	d.Theme.Template = "template5"
	d.Theme.AccentColor = "#123456"
	d.Gallery = []GalleryEntry{{ID: "g1", Ref: "/uploads/a.jpg"}}
	d.GalleryIndex = 1

	d.Reset()

	assert.Empty(t, d.Name)
	assert.Empty(t, d.ProfileID)
	assert.Empty(t, d.Phones)
	assert.Empty(t, d.Gallery)
	assert.Zero(t, d.GalleryIndex)
	assert.Equal(t, "template5", d.Theme.Template, "theme survives a reset")
	assert.Equal(t, "#123456", d.Theme.AccentColor)
}

func TestCarousel(t *testing.T) {
	d := NewDraft()

	t.Run("no-op with zero or one images", func(t *testing.T) {
		d.NextImage()
		assert.Zero(t, d.GalleryIndex)
		d.Gallery = []GalleryEntry{{ID: "a"}}
		d.NextImage()
		d.PrevImage()
		assert.Zero(t, d.GalleryIndex)
	})

	t.Run("wraps around", func(t *testing.T) {
		d.Gallery = []GalleryEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		d.GalleryIndex = 0
		d.PrevImage()
		assert.Equal(t, 2, d.GalleryIndex)
		d.NextImage()
		assert.Equal(t, 0, d.GalleryIndex)
		d.NextImage()
		assert.Equal(t, 1, d.GalleryIndex)
	})
}

func TestRemoveGalleryEntry(t *testing.T) {
	d := NewDraft()
	d.Gallery = []GalleryEntry{
		{ID: "a", Ref: "/uploads/a.jpg"},
		{ID: "b", Ref: StagingPrefix + "draft1/b.jpg", AssetID: "b.jpg"},
		{ID: "c", Ref: "/uploads/c.jpg"},
	}
	d.GalleryIndex = 2

	removed, found := d.RemoveGalleryEntry("b")
	require.True(t, found)
	assert.True(t, removed.Staged())
	assert.Equal(t, "b.jpg", removed.AssetID)
	require.Len(t, d.Gallery, 2)
	assert.Zero(t, d.GalleryIndex, "index reset when out of bounds")

	_, found = d.RemoveGalleryEntry("b")
	assert.False(t, found)
}

func TestGallerySplit(t *testing.T) {
	d := NewDraft()
	d.Gallery = []GalleryEntry{
		{ID: "a", Ref: "/uploads/a.jpg"},
		{ID: "b", Ref: StagingPrefix + "d/x.png", AssetID: "x.png"},
		{ID: "c", Ref: "https://cdn.example.com/c.jpg"},
	}

	existing := d.ExistingGallery()
	assert.Equal(t, []string{"/uploads/a.jpg", "https://cdn.example.com/c.jpg"}, existing)

	staged := d.StagedGallery()
	require.Len(t, staged, 1)
	assert.Equal(t, "b", staged[0].ID)
}

func TestBeginEndSave(t *testing.T) {
	d := NewDraft()
	require.True(t, d.BeginSave())
	assert.False(t, d.BeginSave(), "second save must not start while one is running")
	d.EndSave()
	assert.True(t, d.BeginSave())
}

func TestNFCLinkSlug(t *testing.T) {
	re := regexp.MustCompile(`^jane-doe-[a-z0-9]{5}$`)
	slug := NFCLinkSlug("  Jane   DOE ")
	assert.Regexp(t, re, slug)

	assert.Regexp(t, `^user-[a-z0-9]{5}$`, NFCLinkSlug("   "))

	other := NFCLinkSlug("Jane Doe")
	assert.NotEqual(t, slug, other, "suffix is random")
}

func TestKnownSets(t *testing.T) {
	for _, id := range TemplateIDs {
		assert.True(t, KnownTemplate(id))
	}
	assert.False(t, KnownTemplate("template7"))

	for _, f := range FontFamilies {
		assert.True(t, KnownFontFamily(f))
	}
	assert.False(t, KnownFontFamily("Comic Sans"))
}
