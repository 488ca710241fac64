package mockdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nfrund/miniapp/internal/domain"
	"github.com/spf13/afero"
)

// DefaultUser is the session used by the development bypass when no mock
// file is configured.
func DefaultUser() domain.UnsafeUserView {
	return domain.UnsafeUserView{
		ID:              123456789,
		FirstName:       "Dev",
		LastName:        "User",
		Username:        "dev_user",
		LanguageCode:    "en",
		IsPremium:       true,
		AllowsWriteToPM: true,
	}
}

// Store holds the mock user served by the development bypass. The user is read
// from a JSON file when a path is configured.
type Store struct {
	fs   afero.Fs
	path string

	mu   sync.RWMutex
	user domain.UnsafeUserView
}

// NewStore creates a store backed by fs. An empty path means DefaultUser.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: strings.TrimSpace(path),
		user: DefaultUser(),
	}
}

// Path returns the mock file path, or "" if none is configured.
func (s *Store) Path() string {
	return s.path
}

// Load (re)reads the mock file. The previous user is kept when it fails.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	user, err := ReadUser(s.fs, s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	slog.Debug("Loaded mock user", "path", s.path, "user_id", user.ID)
	return nil
}

// Current returns a copy of the mock user.
func (s *Store) Current() *domain.UnsafeUserView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user := s.user
	return &user
}

// ReadUser decodes a user from path. The file may hold either a bare user
// object or a full {"user": {...}} session as exposed by the platform SDK.
func ReadUser(fs afero.Fs, path string) (domain.UnsafeUserView, error) {
	f, err := fs.Open(path)
	if err != nil {
		return domain.UnsafeUserView{}, fmt.Errorf("failed to open mock user file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return domain.UnsafeUserView{}, fmt.Errorf("failed to read mock user file: %w", err)
	}
	return ParseUser(raw)
}

// ParseUser decodes either a bare user object or a {"user": {...}} wrapper.
func ParseUser(raw []byte) (domain.UnsafeUserView, error) {
	var wrapped domain.InitDataUnsafe
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return domain.UnsafeUserView{}, fmt.Errorf("invalid mock user JSON: %w", err)
	}
	if wrapped.User != nil {
		return *wrapped.User, nil
	}

	var user domain.UnsafeUserView
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.UnsafeUserView{}, fmt.Errorf("invalid mock user JSON: %w", err)
	}
	if user.ID == 0 {
		return domain.UnsafeUserView{}, errors.New("mock user has no id")
	}
	return user, nil
}
