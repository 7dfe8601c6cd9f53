package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"books.xdoubleu.com/pkg/backend"
	"gopkg.in/yaml.v3"
)

const (
	fileMode os.FileMode = 0o600
	dirMode  os.FileMode = 0o700
)

type fileContents struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	SavedAt      time.Time `yaml:"saved_at"`
}

// File persists the session between CLI invocations as a small yaml
// document readable only by the current user.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{
		mu:   sync.Mutex{},
		path: path,
	}
}

// DefaultFilePath is the session file inside the user config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "booktracker", "session.yaml"), nil
}

func (store *File) Path() string {
	return store.path
}

func (store *File) Load(_ context.Context) (backend.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	//nolint:exhaustruct //zero session
	empty := backend.Session{}

	raw, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return empty, err
	}

	var contents fileContents
	if err = yaml.Unmarshal(raw, &contents); err != nil {
		return empty, err
	}

	return backend.Session{
		AccessToken:  contents.AccessToken,
		RefreshToken: contents.RefreshToken,
	}, nil
}

func (store *File) Save(_ context.Context, session backend.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	raw, err := yaml.Marshal(fileContents{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		SavedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(store.path), dirMode); err != nil {
		return err
	}

	return os.WriteFile(store.path, raw, fileMode)
}

func (store *File) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	err := os.Remove(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
