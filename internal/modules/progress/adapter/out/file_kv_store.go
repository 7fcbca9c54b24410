package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gofrs/flock"

	progressout "storydeck/internal/modules/progress/port/out"
	apperrors "storydeck/internal/platform/errors"
)

const lockRetryDelay = 25 * time.Millisecond

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKVStore keeps each key in <dir>/<key>.json. A sibling lock file
// serializes access between processes; writes go through a temp file and
// rename so readers never see a partial record.
type FileKVStore struct {
	dir string
}

func NewFileKVStore(dir string) progressout.KVStore {
	return &FileKVStore{dir: dir}
}

func (s *FileKVStore) Read(ctx context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	lock, err := s.lock(ctx, path, false)
	if err != nil {
		return "", false, err
	}
	defer lock.Unlock()

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(payload), true, nil
}

func (s *FileKVStore) Write(ctx context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	lock, err := s.lock(ctx, path, true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *FileKVStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	lock, err := s.lock(ctx, path, true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileKVStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: store key %q", apperrors.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileKVStore) lock(ctx context.Context, path string, exclusive bool) (*flock.Flock, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	lock := flock.New(path + ".lock")
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("lock store: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("lock store: %s is busy", path)
	}
	return lock, nil
}
