package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"scb/src/models"
	"scb/src/types"
	"sync"
)

// Storage is the durable home of the session: whatever survives a process
// restart. FileStorage is the default implementation.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

type FileStorage struct {
	Path string
}

func (s *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s *FileStorage) Save(data []byte) error {
	return os.WriteFile(s.Path, data, 0o600)
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

type persistedSession struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// SessionStore is the single owner of "who is acting". Every gate check
// reads through it; only login, logout and a profile self-update may write
// it. Until Load has run, Resolved reports false and gates suspend their
// decisions instead of prematurely denying.
type SessionStore struct {
	mu       sync.RWMutex
	storage  Storage
	user     *models.User
	token    string
	resolved bool
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

// Load restores the persisted session, if any. Corrupted data is dropped
// rather than surfaced; the user just has to sign in again. Load always
// leaves the store resolved.
func (s *SessionStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.resolved = true }()

	data, err := s.storage.Load()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var ps persistedSession
	if err := json.Unmarshal(data, &ps); err != nil {
		log.Printf("Error parsing stored session, discarding: %s\n", err.Error())
		if err := s.storage.Clear(); err != nil {
			log.Printf("Error clearing stored session: %s\n", err.Error())
		}
		return nil
	}
	if ps.Token == "" || ps.User.ID == 0 {
		return nil
	}
	s.user = &ps.User
	s.token = ps.Token
	return nil
}

func (s *SessionStore) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Current returns the acting identity, or nil when signed out.
func (s *SessionStore) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionStore) Role() (types.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return "", false
	}
	return s.user.Role, true
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetSession installs a fresh identity after a successful login and
// persists it.
func (s *SessionStore) SetSession(user models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.token = token
	s.resolved = true
	return s.persistLocked()
}

// UpdateProfile refreshes the stored identity after a profile fetch or
// self-update (name, image, or a server-side role promotion to member).
func (s *SessionStore) UpdateProfile(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.ID != user.ID {
		return errors.New("no matching session to update")
	}
	s.user = &user
	return s.persistLocked()
}

// Clear signs the identity out, both in memory and in storage. Also invoked
// when the server answers 401 to a credentialed request.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.resolved = true
	return s.storage.Clear()
}

func (s *SessionStore) persistLocked() error {
	data, err := json.Marshal(&persistedSession{User: *s.user, Token: s.token})
	if err != nil {
		return err
	}
	return s.storage.Save(data)
}
