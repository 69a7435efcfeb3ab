package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 64, nil)
	require.NoError(t, err)
	return s
}

func TestStage(t *testing.T) {
	s := newTestStore(t)

	asset, err := s.Stage("draft1", "Photo.JPG", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(asset.ID, ".jpg"), "extension is kept lowercased")
	assert.Equal(t, domain.StagingPrefix+"draft1/"+asset.ID, asset.PreviewRef)

	b, err := os.ReadFile(asset.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestStageRejectsOversized(t *testing.T) {
	s := newTestStore(t)

	t.Run("declared size too large", func(t *testing.T) {
		_, err := s.Stage("draft1", "big.png", 65, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("stream larger than declared", func(t *testing.T) {
		payload := strings.Repeat("x", 100)
		_, err := s.Stage("draft1", "liar.png", 10, strings.NewReader(payload))
		require.ErrorIs(t, err, ErrFileTooLarge)
	})

	// Rejected files must leave nothing behind.
	entries, err := os.ReadDir(filepath.Join(s.Root, "draft1"))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestOpenAndRemove(t *testing.T) {
	s := newTestStore(t)
	asset, err := s.Stage("draft1", "a.png", 3, strings.NewReader("abc"))
	require.NoError(t, err)

	f, err := s.Open("draft1", asset.ID)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	s.Remove("draft1", asset.ID)
	_, err = s.Open("draft1", asset.ID)
	assert.Error(t, err)
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, bad := range []string{"../secret", "a/b", `a\b`, ""} {
		_, err := s.Open("draft1", bad)
		assert.Error(t, err, "asset id %q", bad)
		_, err = s.Open(bad, "x.png")
		assert.Error(t, err, "draft id %q", bad)
	}
}

func TestDiscardDraft(t *testing.T) {
	s := newTestStore(t)
	a1, err := s.Stage("draft1", "a.png", 1, strings.NewReader("a"))
	require.NoError(t, err)
	a2, err := s.Stage("draft1", "b.png", 1, strings.NewReader("b"))
	require.NoError(t, err)
	other, err := s.Stage("draft2", "c.png", 1, strings.NewReader("c"))
	require.NoError(t, err)

	s.DiscardDraft("draft1")

	_, err = os.Stat(a1.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(a2.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(other.Path)
	assert.NoError(t, err, "other drafts untouched")
}

func TestSweep(t *testing.T) {
	s := newTestStore(t)
	asset, err := s.Stage("old", "a.png", 1, strings.NewReader("a"))
	require.NoError(t, err)

	s.Sweep(0)

	_, err = os.Stat(asset.Path)
	assert.True(t, os.IsNotExist(err))
}
