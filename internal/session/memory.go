package session

import (
	"context"
	"sync"

	"books.xdoubleu.com/pkg/backend"
)

// Memory keeps the session for the lifetime of the process only.
type Memory struct {
	mu      sync.Mutex
	session backend.Session
}

func NewMemory() *Memory {
	//nolint:exhaustruct //other fields are optional
	return &Memory{}
}

func (store *Memory) Load(_ context.Context) (backend.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.session, nil
}

func (store *Memory) Save(_ context.Context, session backend.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.session = session
	return nil
}

func (store *Memory) Clear(ctx context.Context) error {
	//nolint:exhaustruct //zero session
	return store.Save(ctx, backend.Session{})
}
