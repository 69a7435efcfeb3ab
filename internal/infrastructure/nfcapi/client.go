package nfcapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

// Client talks to the external NFC REST API. The API owns persistence, auth
// token issuance, image storage and scan analytics; this process only ever
// sees it over HTTP. The caller's credential cookie is forwarded verbatim on
// authenticated calls.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

// APIError carries the upstream status and the server-provided message (or a
// generic fallback when the body had none).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nfc api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	ae, ok := err.(*APIError)
	return ok && ae.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	ae, ok := err.(*APIError)
	return ok && ae.Status == http.StatusNotFound
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// AbsoluteURL qualifies a server-relative asset path against the API base.
// Absolute URLs and local staging previews pass through untouched.
func (c *Client) AbsoluteURL(ref string) string {
	if ref == "" ||
		strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, domain.StagingPrefix) {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.BaseURL + ref
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType, cookie string) (*http.Response, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nfc api request: %w", err)
	}
	return resp, nil
}

// errorFromResponse drains the body and builds an APIError. The upstream
// message is used when present; otherwise a generic fallback.
func errorFromResponse(resp *http.Response, fallback string) error {
	defer func() { _ = resp.Body.Close() }()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := fallback
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &parsed); err == nil {
		if parsed.Message != "" {
			msg = parsed.Message
		} else if parsed.Error != "" {
			msg = parsed.Error
		}
	} else if t := strings.TrimSpace(string(b)); t != "" && len(t) < 200 {
		msg = t
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// decodeProfile accepts both { profile: {...} } and a bare profile object.
func decodeProfile(r io.Reader) (*domain.Profile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Profile *domain.Profile `json:"profile"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Profile != nil {
		return wrapped.Profile, nil
	}
	var p domain.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// FetchProfile loads a persisted profile by id. Used by both the public page
// and the edit flow; the cookie may be empty for public reads.
func (c *Client) FetchProfile(ctx context.Context, id, cookie string) (*domain.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/profile/"+url.PathEscape(id), nil, nil, "", cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "error fetching profile")
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeProfile(resp.Body)
}

// SaveResult is what a create or update save comes back with.
type SaveResult struct {
	ID      string          `json:"_id"`
	Profile *domain.Profile `json:"profile"`
}

// CreateProfile posts a multipart save request for a brand new profile.
func (c *Client) CreateProfile(ctx context.Context, cookie, contentType string, body *bytes.Buffer) (*SaveResult, error) {
	return c.save(ctx, http.MethodPost, "/api/profile", cookie, contentType, body)
}

// UpdateProfile puts a multipart save request for an existing profile.
func (c *Client) UpdateProfile(ctx context.Context, id, cookie, contentType string, body *bytes.Buffer) (*SaveResult, error) {
	return c.save(ctx, http.MethodPut, "/api/profile/"+url.PathEscape(id), cookie, contentType, body)
}

func (c *Client) save(ctx context.Context, method, path, cookie, contentType string, body *bytes.Buffer) (*SaveResult, error) {
	resp, err := c.do(ctx, method, path, nil, body, contentType, cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "error saving profile")
	}
	defer func() { _ = resp.Body.Close() }()
	var res SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode save response: %w", err)
	}
	if res.ID == "" && res.Profile != nil {
		res.ID = res.Profile.ID
	}
	return &res, nil
}

// ListQuery mirrors the profile-list query surface of the API.
type ListQuery struct {
	Q         string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ListProfiles returns the raw list payload (profiles + pagination) for
// pass-through to the admin UI.
func (c *Client) ListProfiles(ctx context.Context, cookie string, q ListQuery) (json.RawMessage, error) {
	vals := url.Values{}
	if q.Q != "" {
		vals.Set("q", q.Q)
	}
	if q.Page > 0 {
		vals.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		vals.Set("limit", fmt.Sprint(q.Limit))
	}
	if q.SortBy != "" {
		vals.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		vals.Set("sortOrder", q.SortOrder)
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/profile", vals, nil, "", cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "error fetching profiles")
	}
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// DeleteProfile removes a persisted profile.
func (c *Client) DeleteProfile(ctx context.Context, id, cookie string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/profile/"+url.PathEscape(id), nil, nil, "", cookie)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp, "error deleting profile")
	}
	_ = resp.Body.Close()
	return nil
}

// Login forwards admin credentials and hands back the upstream body plus the
// Set-Cookie headers carrying the session credential.
func (c *Client) Login(ctx context.Context, email, password string) (json.RawMessage, []string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login-admin", nil, bytes.NewReader(body), "application/json", "")
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, errorFromResponse(resp, "login failed")
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return b, resp.Header.Values("Set-Cookie"), nil
}

// Logout invalidates the upstream session.
func (c *Client) Logout(ctx context.Context, cookie string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, "", cookie)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp, "logout failed")
	}
	_ = resp.Body.Close()
	return nil
}

// CheckAuth validates the forwarded credential cookie.
func (c *Client) CheckAuth(ctx context.Context, cookie string) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/check-auth", nil, nil, "", cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "not authenticated")
	}
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalProfiles int `json:"totalProfiles"`
	TotalScans    int `json:"totalScans"`
	TotalSaves    int `json:"totalSaves"`
}

func (c *Client) FetchDashboardStats(ctx context.Context, cookie string) (*DashboardStats, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/dashboard-stats", nil, nil, "", cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "failed to fetch dashboard stats")
	}
	defer func() { _ = resp.Body.Close() }()
	var stats DashboardStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode dashboard stats: %w", err)
	}
	return &stats, nil
}

// ScanPoint is one day of scan counts.
type ScanPoint struct {
	Date  string `json:"date"`
	Scans int    `json:"scans"`
}

func (c *Client) FetchScanAnalytics(ctx context.Context, cookie string) ([]ScanPoint, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/scan-analytics", nil, nil, "", cookie)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp, "failed to fetch scan analytics")
	}
	defer func() { _ = resp.Body.Close() }()
	var parsed struct {
		ScanData []ScanPoint `json:"scanData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode scan analytics: %w", err)
	}
	return parsed.ScanData, nil
}

// VCard streams the downloadable vCard for a profile. The caller owns the
// returned body.
func (c *Client) VCard(ctx context.Context, id string) (io.ReadCloser, string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/public/vcf/"+url.PathEscape(id), nil, nil, "", "")
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", errorFromResponse(resp, "vcard not available")
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "text/vcard"
	}
	return resp.Body, ct, nil
}

// LogContactSave records a contact-save event for analytics.
func (c *Client) LogContactSave(ctx context.Context, profileID string) error {
	body, _ := json.Marshal(map[string]string{"profileId": profileID})
	resp, err := c.do(ctx, http.MethodPost, "/api/profile/log-save", nil, bytes.NewReader(body), "application/json", "")
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp, "failed to log save")
	}
	_ = resp.Body.Close()
	return nil
}
