package domain

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrLinkRequired = errors.New("link required")
	ErrInvalidLink  = errors.New("invalid link")
)

// SocialPlatform describes one supported platform and the base URL used to
// build a canonical link from a bare handle.
type SocialPlatform struct {
	Key   string
	Name  string
	Color string
	Base  string
}

// SocialPlatforms is the fixed set of supported platforms, in display order.
var SocialPlatforms = []SocialPlatform{
	{Key: "instagram", Name: "Instagram", Color: "#E4405F", Base: "https://www.instagram.com/"},
	{Key: "linkedin", Name: "LinkedIn", Color: "#0A66C2", Base: "https://www.linkedin.com/in/"},
	{Key: "twitter", Name: "Twitter (X)", Color: "#1DA1F2", Base: "https://twitter.com/"},
	{Key: "facebook", Name: "Facebook", Color: "#1877F2", Base: "https://www.facebook.com/"},
	{Key: "youtube", Name: "YouTube", Color: "#FF0000", Base: "https://www.youtube.com/"},
	{Key: "telegram", Name: "Telegram", Color: "#2AABEE", Base: "https://t.me/"},
	{Key: "website", Name: "Website", Color: "#6B7280", Base: "https://"},
}

// PlatformByKey looks up a platform definition; ok is false for unknown keys.
func PlatformByKey(key string) (SocialPlatform, bool) {
	for _, p := range SocialPlatforms {
		if p.Key == key {
			return p, true
		}
	}
	return SocialPlatform{}, false
}

// KnownPlatform reports whether key names a supported platform.
func KnownPlatform(key string) bool {
	_, ok := PlatformByKey(key)
	return ok
}

// NormalizeLink converts a raw user-entered handle or URL into a canonical
// absolute link:
//
//	trim; empty is rejected
//	a single leading @ is stripped
//	http:// and https:// values pass through untouched
//	anything else is prefixed with the platform's base URL
//	the result must parse as an absolute URL
//
// Both the add-social flow and direct field edits go through this one
// function, so a link can never be stored without passing it.
func NormalizeLink(platform, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrLinkRequired
	}
	value = strings.TrimPrefix(value, "@")

	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		if p, ok := PlatformByKey(platform); ok {
			value = p.Base + value
		} else {
			value = "https://" + value
		}
	}

	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidLink
	}
	return value, nil
}
