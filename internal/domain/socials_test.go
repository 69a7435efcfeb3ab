package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLink(t *testing.T) {
	cases := []struct {
		name     string
		platform string
		raw      string
		want     string
		wantErr  error
	}{
		{name: "bare handle gets platform base", platform: "instagram", raw: "john", want: "https://www.instagram.com/john"},
		{name: "leading at is stripped", platform: "instagram", raw: "@john", want: "https://www.instagram.com/john"},
		{name: "linkedin uses in path", platform: "linkedin", raw: "jane-doe", want: "https://www.linkedin.com/in/jane-doe"},
		{name: "telegram short domain", platform: "telegram", raw: "johnny", want: "https://t.me/johnny"},
		{name: "https url passes through", platform: "instagram", raw: "https://example.com/me", want: "https://example.com/me"},
		{name: "http url passes through", platform: "twitter", raw: "http://example.com/me", want: "http://example.com/me"},
		{name: "website handle gets scheme", platform: "website", raw: "example.com", want: "https://example.com"},
		{name: "unknown platform defaults to https", platform: "myspace", raw: "example.com/x", want: "https://example.com/x"},
		{name: "surrounding whitespace trimmed", platform: "twitter", raw: "  jack  ", want: "https://twitter.com/jack"},
		{name: "empty rejected", platform: "instagram", raw: "", wantErr: ErrLinkRequired},
		{name: "whitespace only rejected", platform: "instagram", raw: "   ", wantErr: ErrLinkRequired},
		{name: "only an at sign is empty after both prefixes", platform: "website", raw: "@", wantErr: ErrInvalidLink},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeLink(tc.platform, tc.raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlatformByKey(t *testing.T) {
	p, ok := PlatformByKey("linkedin")
	require.True(t, ok)
	assert.Equal(t, "LinkedIn", p.Name)
	assert.Equal(t, "https://www.linkedin.com/in/", p.Base)

	_, ok = PlatformByKey("myspace")
	assert.False(t, ok)
	assert.False(t, KnownPlatform("myspace"))
	assert.True(t, KnownPlatform("website"))
}
