package student

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/trace"
)

// CacheDirName is the directory created under the working root to hold
// cached footprints.
const CacheDirName = ".fibgrade_cache"

// cacheFileName maps a submission name to a stable file name.
func cacheFileName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	return safe + ".json"
}

// SaveToCache writes the submission's footprint under root/.fibgrade_cache
// so later runs can skip re-tracing.
func (s *Implementation) SaveToCache(root string) error {
	dir := filepath.Join(root, CacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.WrapError(err, "creating footprint cache directory")
	}
	path := filepath.Join(dir, cacheFileName(s.name))
	if err := s.footprint.Save(path); err != nil {
		return apperrors.WrapError(err, "caching submission %q", s.name)
	}
	return nil
}

// LoadFromCache restores a previously cached submission. The second return
// value reports whether a cached footprint existed.
func LoadFromCache(root, name string) (*Implementation, bool, error) {
	path := filepath.Join(root, CacheDirName, cacheFileName(name))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, apperrors.WrapError(err, "probing footprint cache")
	}

	fp, err := trace.LoadFootprint(path)
	if err != nil {
		return nil, false, apperrors.WrapError(err, "loading cached submission %q", name)
	}
	return FromFootprint(name, fp), true, nil
}
