// Package session owns the process-wide credential.
//
// A [Store] holds at most one bearer token. Readers get the current value through [Store.Current]
// or by subscribing; nothing reads a package-level variable. The token is written through a
// [Storage] under [TokenKey] so a later process picks it up again, and [Store.Token] lets the
// HTTP transport read it at send time as an [oauth2.TokenSource].
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/skillstream/internal/shared"
	"golang.org/x/oauth2"
)

const (
	TokenKey = "skillstream_token"
	ThemeKey = "skillstream_theme"
)

// ErrNoValue is returned by [Storage.Load] when key is absent.
var ErrNoValue = errors.New("no stored value")

// Storage persists small string values by key.
type Storage interface {
	Load(key string) (string, error)
	Save(key, value string) error
	Delete(key string) error
}

// Session is a snapshot of the credential. The zero value is logged out.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is the single owner of the session. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	current     Session
	storage     Storage
	subscribers map[int]func(Session)
	nextID      int
}

var _ oauth2.TokenSource = (*Store)(nil)

// NewStore restores any persisted token from storage. A nil storage keeps the session in memory.
func NewStore(storage Storage) (*Store, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{storage: storage, subscribers: map[int]func(Session){}}

	token, err := storage.Load(TokenKey)
	switch {
	case errors.Is(err, ErrNoValue):
	case err != nil:
		return nil, fmt.Errorf("failed to restore session: %w", err)
	default:
		s.current.Token = strings.TrimSpace(token)
	}
	return s, nil
}

// Current returns the session as of now.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login replaces the session with token and persists it.
func (s *Store) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidToken)
	}
	if err := s.storage.Save(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.set(Session{Token: token})
	return nil
}

// Logout clears the session. Requests already sent keep the credential they were sent with.
func (s *Store) Logout() error {
	if err := s.storage.Delete(TokenKey); err != nil && !errors.Is(err, ErrNoValue) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.set(Session{})
	return nil
}

// Subscribe registers fn to receive every change. The returned func removes it.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Token implements [oauth2.TokenSource].
func (s *Store) Token() (*oauth2.Token, error) {
	cur := s.Current()
	if !cur.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: cur.Token, TokenType: "Bearer"}, nil
}

// Theme returns the persisted theme, or fallback when none is stored.
func (s *Store) Theme(fallback string) string {
	theme, err := s.storage.Load(ThemeKey)
	if err != nil || theme == "" {
		return fallback
	}
	return theme
}

func (s *Store) SetTheme(theme string) error {
	switch theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: theme must be light or dark, got %q", shared.ErrInvalidArgument, theme)
	}
	return s.storage.Save(ThemeKey, theme)
}

// set notifies subscribers outside the lock so they may call back into the store.
func (s *Store) set(next Session) {
	s.mu.Lock()
	s.current = next
	subs := make([]func(Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// MemoryStorage is a [Storage] that lives for the process.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Load(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNoValue
	}
	return v, nil
}

func (m *MemoryStorage) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
