package portal

import (
	"encoding/json"
	"os"
	"sync"
)

// Storage persists the session pair (token + user). The two values are
// conceptually independent keys, but a session only exists when BOTH are
// present; implementations must make SetSession atomic so that a reader can
// never observe a token from one login paired with a user from another.
//
// Reads never fail: a broken or unavailable backing store reads as logged
// out.
type Storage interface {
	Token() string
	User() *Session
	SetSession(token string, user *Session)
	SetUser(user *Session)
	Clear()
}

// MemoryStorage keeps the session in process memory. It is the default
// backend and the one used in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	token string
	user  *Session
}

// NewMemoryStorage constructs an empty in-memory session store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStorage) User() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *MemoryStorage) SetSession(token string, user *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = cloneSession(user)
}

func (s *MemoryStorage) SetUser(user *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneSession(user)
}

func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

type fileSession struct {
	Token string   `json:"token"`
	User  *Session `json:"user"`
}

// FileStorage persists the session as a JSON file, for command line tools
// that want the login to survive across runs. Read errors degrade to a
// logged-out state; write errors are swallowed, matching the contract that
// session reads and purges never fail.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage constructs a file-backed session store at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Token() string {
	state := s.load()
	return state.Token
}

func (s *FileStorage) User() *Session {
	state := s.load()
	return state.User
}

func (s *FileStorage) SetSession(token string, user *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(fileSession{Token: token, User: cloneSession(user)})
}

func (s *FileStorage) SetUser(user *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.read()
	state.User = cloneSession(user)
	s.store(state)
}

func (s *FileStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path)
}

func (s *FileStorage) load() fileSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStorage) read() fileSession {
	var state fileSession
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fileSession{}
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return fileSession{}
	}
	return state
}

func (s *FileStorage) store(state fileSession) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

func cloneSession(user *Session) *Session {
	if user == nil {
		return nil
	}
	copied := *user
	return &copied
}
