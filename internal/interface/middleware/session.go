package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/pkg/helpers"
	"github.com/anandkhari/nfcstudio/pkg/response"
)

// CtxDraftIDKey is where the owning draft id lives in the Gin context.
const CtxDraftIDKey = "draftID"

// DraftSession validates the signed draft-session cookie and injects the
// draft id into the Gin context. Every draft-editing route sits behind this,
// so a draft can only ever be touched by the session that created it.
func DraftSession(sessions *helpers.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.DraftSessionCookie)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "no editing session", nil)
			c.Abort()
			return
		}
		claims, err := sessions.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid editing session", nil)
			c.Abort()
			return
		}
		c.Set(CtxDraftIDKey, claims.DraftID)
		c.Next()
	}
}
