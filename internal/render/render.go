package render

import (
	"embed"
	"fmt"
	htmpl "html/template"
	"io"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

//go:embed templates/*.tmpl
var fs embed.FS

// DefaultTemplate is the layout used when a profile carries an unknown or
// missing template id.
const DefaultTemplate = "template2"

// SocialView is one social row ready for display.
type SocialView struct {
	Platform string
	Name     string
	Color    string
	Handle   string
	Link     string
}

// View is the normalized prop set every layout receives. Layouts differ only
// in arrangement, never in data contract.
type View struct {
	Name     string
	Title    string
	Company  string
	JobTitle string

	FirstPhone  string
	FirstEmail  string
	Website     string
	Address     string
	AddressLink string

	ProfileImageURL string
	CoverImageURL   string

	ShowGallery  bool
	Gallery      []string
	GalleryIndex int
	PrevIndex    int
	NextIndex    int
	HasCarousel  bool

	ShowSocials bool
	Socials     []SocialView

	Theme  domain.Theme
	VcfURL string

	// ReadOnly marks the public page as opposed to the authoring preview.
	ReadOnly bool
}

// StyleVars exposes the theme as CSS custom properties for the page
// skeleton. Colors are hexcolor-validated at edit time and the font family
// comes from a fixed set, so the values are safe to emit as CSS.
func (v View) StyleVars() htmpl.CSS {
	t := v.Theme
	return htmpl.CSS(fmt.Sprintf(
		"--primary-color:%s;--accent-color:%s;--icon-color:%s;--title-color:%s;--bio-color:%s;--font-family:%s",
		t.PrimaryColor, t.AccentColor, t.IconColor, t.TitleTextColor, t.BioTextColor, t.FontFamily,
	))
}

// BuildView flattens a profile into the layout contract. absolutize maps
// server-relative asset paths onto displayable URLs; index selects the
// current carousel image and is clamped into range.
func BuildView(p *domain.Profile, absolutize func(string) string, index int, vcfURL string) View {
	v := View{
		Name:        p.Name,
		Title:       p.Title,
		Company:     p.Company,
		JobTitle:    p.JobTitle,
		Website:     p.Website,
		Address:     p.Address,
		AddressLink: p.AddressLink,
		Theme:       p.Theme,
		ShowGallery: p.Theme.ShowGallery,
		ShowSocials: p.Theme.ShowSocials,
		VcfURL:      vcfURL,
	}
	if v.Theme.Template == "" {
		v.Theme = domain.DefaultTheme()
		v.ShowGallery = v.Theme.ShowGallery
		v.ShowSocials = v.Theme.ShowSocials
	}
	if len(p.Phones) > 0 {
		v.FirstPhone = p.Phones[0].Number
	}
	if len(p.Emails) > 0 {
		v.FirstEmail = p.Emails[0].Address
	}
	v.ProfileImageURL = absolutize(p.ProfileImageURL)
	if v.ProfileImageURL == "" {
		v.ProfileImageURL = "/profile-placeholder.png"
	}
	v.CoverImageURL = absolutize(p.CoverImageURL)
	if v.CoverImageURL == "" {
		v.CoverImageURL = "/cover-placeholder.png"
	}
	for _, ref := range p.GalleryImages {
		v.Gallery = append(v.Gallery, absolutize(ref))
	}
	if n := len(v.Gallery); n > 0 {
		if index < 0 || index >= n {
			index = 0
		}
		v.GalleryIndex = index
		v.PrevIndex = (index - 1 + n) % n
		v.NextIndex = (index + 1) % n
		v.HasCarousel = n > 1
	}
	for _, sl := range p.Socials {
		sv := SocialView{Platform: sl.Platform, Handle: sl.Handle, Link: sl.Link}
		if def, ok := domain.PlatformByKey(sl.Platform); ok {
			sv.Name = def.Name
			sv.Color = def.Color
		} else {
			sv.Name = sl.Platform
			sv.Color = "#6B7280"
		}
		v.Socials = append(v.Socials, sv)
	}
	return v
}

// Renderer maps template ids onto parsed layout sets. All six share the page
// skeleton and body; only the header block differs.
type Renderer struct {
	layouts map[string]*htmpl.Template
	errPage *htmpl.Template
}

func New() (*Renderer, error) {
	r := &Renderer{layouts: make(map[string]*htmpl.Template, len(domain.TemplateIDs))}
	for _, id := range domain.TemplateIDs {
		t, err := htmpl.ParseFS(fs,
			"templates/page.html.tmpl",
			"templates/body.html.tmpl",
			"templates/"+id+".html.tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", id, err)
		}
		r.layouts[id] = t
	}
	errPage, err := htmpl.ParseFS(fs, "templates/error.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse error page: %w", err)
	}
	r.errPage = errPage
	return r, nil
}

// Render writes the full profile page for the view's chosen template,
// falling back to DefaultTemplate for unknown ids.
func (r *Renderer) Render(w io.Writer, v View) error {
	t, ok := r.layouts[v.Theme.Template]
	if !ok {
		t = r.layouts[DefaultTemplate]
	}
	return t.ExecuteTemplate(w, "page", v)
}

// ErrorView is the dedicated error page, distinct from the loading state.
type ErrorView struct {
	Status  int
	Message string
}

func (r *Renderer) RenderError(w io.Writer, v ErrorView) error {
	return r.errPage.ExecuteTemplate(w, "error", v)
}
