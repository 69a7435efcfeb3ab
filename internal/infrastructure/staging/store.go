package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

// ErrFileTooLarge is returned for any staged image over the size limit.
var ErrFileTooLarge = fmt.Errorf("image must be under %d MB", domain.MaxFileSizeMB)

// Store keeps locally selected image files on disk until save time. Each
// draft gets its own subdirectory; previews are served from it under
// domain.StagingPrefix. Files staged here never travel to the NFC API on
// their own, only as parts of an explicit save request.
type Store struct {
	Root    string
	MaxSize int64
	Logger  *logrus.Logger
}

// Asset identifies one staged file.
type Asset struct {
	ID         string
	Path       string
	PreviewRef string
}

func NewStore(root string, maxSize int64, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Store{Root: root, MaxSize: maxSize, Logger: logger}, nil
}

// Stage copies one selected file into the draft's staging directory. The size
// is checked first so a rejected file leaves no trace on disk.
func (s *Store) Stage(draftID, filename string, size int64, r io.Reader) (Asset, error) {
	if size > s.MaxSize {
		return Asset{}, ErrFileTooLarge
	}
	id := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dir := filepath.Join(s.Root, draftID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("create draft staging dir: %w", err)
	}
	path := filepath.Join(dir, id)
	f, err := os.Create(path)
	if err != nil {
		return Asset{}, fmt.Errorf("stage file: %w", err)
	}
	// LimitReader guards against a lying Content-Length.
	n, err := io.Copy(f, io.LimitReader(r, s.MaxSize+1))
	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	if err == nil && n > s.MaxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return Asset{}, err
	}
	return Asset{
		ID:         id,
		Path:       path,
		PreviewRef: domain.StagingPrefix + draftID + "/" + id,
	}, nil
}

// Open returns the staged file for attaching to a save request.
func (s *Store) Open(draftID, assetID string) (*os.File, error) {
	path, err := s.assetPath(draftID, assetID)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes one staged file, releasing its preview.
func (s *Store) Remove(draftID, assetID string) {
	path, err := s.assetPath(draftID, assetID)
	if err != nil {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) && s.Logger != nil {
		s.Logger.WithError(err).WithField("asset", assetID).Warn("remove staged file failed")
	}
}

// DiscardDraft deletes every staged file belonging to a draft. Called when a
// draft is saved or abandoned so previews do not pile up across sessions.
func (s *Store) DiscardDraft(draftID string) {
	if draftID == "" || strings.ContainsAny(draftID, "/\\.") {
		return
	}
	if err := os.RemoveAll(filepath.Join(s.Root, draftID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("draft", draftID).Warn("discard staging dir failed")
	}
}

// Sweep removes staging directories older than maxAge, catching drafts whose
// owners navigated away without saving.
func (s *Store) Sweep(maxAge time.Duration) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		s.DiscardDraft(e.Name())
	}
}

func (s *Store) assetPath(draftID, assetID string) (string, error) {
	if draftID == "" || assetID == "" ||
		strings.ContainsAny(draftID, "/\\") || strings.ContainsAny(assetID, "/\\") ||
		strings.Contains(draftID, "..") || strings.Contains(assetID, "..") {
		return "", errors.New("invalid staged asset reference")
	}
	return filepath.Join(s.Root, draftID, assetID), nil
}
