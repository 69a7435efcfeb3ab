package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DraftSessionCookie is the cookie carrying the signed draft-session token.
const DraftSessionCookie = "draft_session"

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetDraftSession stores the draft-session token for the editing screen.
func (m *Manager) SetDraftSession(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DraftSessionCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// ClearDraftSession drops the draft-session cookie.
func (m *Manager) ClearDraftSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DraftSessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
