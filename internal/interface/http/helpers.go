package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/pkg/response"
)

// forwardCookie returns the raw Cookie header to replay upstream. The
// credential cookie is issued by the NFC API; this process never inspects it.
func forwardCookie(c *gin.Context) string {
	return c.Request.Header.Get("Cookie")
}

// upstreamError maps an NFC API failure onto a client response. Upstream
// statuses (401 for expired sessions, 404, validation rejections) pass
// through with the server-provided message; transport failures become a 502
// with a generic fallback so the caller can retry.
func upstreamError(c *gin.Context, err error, fallback string) {
	if ae, ok := err.(*nfcapi.APIError); ok {
		response.Error[any](c, ae.Status, ae.Message, nil)
		return
	}
	response.Error[any](c, http.StatusBadGateway, fallback, nil)
}
