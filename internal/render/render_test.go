package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

func identity(ref string) string { return ref }

func sampleProfile() *domain.Profile {
	return &domain.Profile{
		ID:    "abc123",
		Name:  "Jane Doe",
		Title: "Senior Engineer",
		Phones: []domain.PhoneEntry{
			{ID: "p1", Type: "Mobile", Number: "+1 555 0100"},
			{ID: "p2", Type: "Work", Number: "+1 555 0200"},
		},
		Emails: []domain.EmailEntry{{ID: "e1", Type: "Work", Address: "jane@doe.io"}},
		Socials: []domain.SocialLink{
			{ID: "s1", Platform: "instagram", Handle: "jane", Link: "https://www.instagram.com/jane"},
		},
		Theme:         domain.DefaultTheme(),
		GalleryImages: []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"},
	}
}

func TestBuildView(t *testing.T) {
	p := sampleProfile()
	v := BuildView(p, identity, 1, "/vcf/abc123")

	assert.Equal(t, "Jane Doe", v.Name)
	assert.Equal(t, "+1 555 0100", v.FirstPhone, "only the first phone is displayed")
	assert.Equal(t, "jane@doe.io", v.FirstEmail)
	assert.Equal(t, "/profile-placeholder.png", v.ProfileImageURL)
	assert.Equal(t, "/cover-placeholder.png", v.CoverImageURL)

	assert.Equal(t, 1, v.GalleryIndex)
	assert.Equal(t, 0, v.PrevIndex)
	assert.Equal(t, 2, v.NextIndex)
	assert.True(t, v.HasCarousel)

	require.Len(t, v.Socials, 1)
	assert.Equal(t, "Instagram", v.Socials[0].Name)
	assert.Equal(t, "#E4405F", v.Socials[0].Color)
}

func TestBuildViewClampsIndex(t *testing.T) {
	p := sampleProfile()

	v := BuildView(p, identity, 99, "")
	assert.Zero(t, v.GalleryIndex)
	v = BuildView(p, identity, -1, "")
	assert.Zero(t, v.GalleryIndex)
}

func TestBuildViewSingleImageHasNoCarousel(t *testing.T) {
	p := sampleProfile()
	p.GalleryImages = p.GalleryImages[:1]
	v := BuildView(p, identity, 0, "")
	assert.False(t, v.HasCarousel)
}

func TestBuildViewMissingThemeFallsBack(t *testing.T) {
	p := sampleProfile()
	p.Theme = domain.Theme{}
	v := BuildView(p, identity, 0, "")
	assert.Equal(t, domain.DefaultTheme(), v.Theme)
}

func TestRender(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("every template renders", func(t *testing.T) {
		for _, id := range domain.TemplateIDs {
			p := sampleProfile()
			p.Theme.Template = id
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, BuildView(p, identity, 0, "")))
			out := buf.String()
			assert.Contains(t, out, "Jane Doe", "layout %s", id)
			assert.Contains(t, out, "--accent-color:#FF4F00", "layout %s", id)
		}
	})

	t.Run("unknown template falls back", func(t *testing.T) {
		p := sampleProfile()
		p.Theme.Template = "template99"
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, BuildView(p, identity, 0, "")))
		assert.Contains(t, buf.String(), "Jane Doe")
	})

	t.Run("save contact button on public page only", func(t *testing.T) {
		p := sampleProfile()
		v := BuildView(p, identity, 0, "/vcf/abc123")
		v.ReadOnly = true
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, v))
		assert.Contains(t, buf.String(), "/vcf/abc123")

		buf.Reset()
		require.NoError(t, r.Render(&buf, BuildView(p, identity, 0, "")))
		assert.NotContains(t, buf.String(), "/vcf/abc123")
	})

	t.Run("carousel links use wrapped indices", func(t *testing.T) {
		p := sampleProfile()
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, BuildView(p, identity, 0, "")))
		out := buf.String()
		assert.Contains(t, out, "?img=2", "prev from first wraps to last")
		assert.Contains(t, out, "?img=1")
	})
}

func TestRenderError(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, ErrorView{Status: 404, Message: "This profile does not exist or has been removed."}))
	out := buf.String()
	assert.Contains(t, out, "Profile not found")
	assert.True(t, strings.Contains(out, "removed"))

	buf.Reset()
	require.NoError(t, r.RenderError(&buf, ErrorView{Status: 502, Message: "This profile is temporarily unavailable."}))
	assert.Contains(t, buf.String(), "Something went wrong")
}
