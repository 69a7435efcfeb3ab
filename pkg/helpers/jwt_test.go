package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, exp, err := m.GenerateToken("draft-42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "draft-42", claims.DraftID)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	m := NewSessionManager("secret-a", time.Hour)
	token, _, err := m.GenerateToken("draft-42")
	require.NoError(t, err)

	other := NewSessionManager("secret-b", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	m := NewSessionManager("test-secret", -time.Minute)
	token, _, err := m.GenerateToken("draft-42")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	_, err := m.ParseToken("not-a-token")
	assert.Error(t, err)
}
