package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Usuario is the persisted session marker: who is logged in. The actual
// credential is a backend cookie; this record only drives the local guard
// and the header display.
type Usuario struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
}

// Store is the single holder of the authenticated user for the whole
// process. It is written only by the login, logout and unauthorized paths;
// everything else reads snapshots or subscribes to changes.
type Store struct {
	mu      sync.RWMutex
	path    string
	current *Usuario
	subs    []chan *Usuario
}

// NewStore loads the persisted marker from path. A missing, unreadable or
// malformed file just starts the process logged out.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.current = loadPersisted(path)
	return s
}

func loadPersisted(path string) *Usuario {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var u Usuario
	if err := json.Unmarshal(raw, &u); err != nil || u.ID <= 0 || u.Usuario == "" {
		_ = os.Remove(path)
		return nil
	}
	return &u
}

// Current returns a copy of the authenticated user, or nil.
func (s *Store) Current() *Usuario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Authenticated reports whether a user is logged in. The route guard in the
// REPL consults this synchronously before entering any page.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Set records a successful login and persists the marker.
func (s *Store) Set(u Usuario) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session marker: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("persist session marker: %w", err)
	}
	s.mu.Lock()
	s.current = &u
	s.notifyLocked(&u)
	s.mu.Unlock()
	return nil
}

// Clear drops the session: called on logout and on any 401 from a non-login
// request. Safe to call when already logged out.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
	s.mu.Lock()
	cleared := s.current != nil
	s.current = nil
	if cleared {
		s.notifyLocked(nil)
	}
	s.mu.Unlock()
}

// Subscribe returns a channel receiving the user after every change: the
// new user on login, nil on clear. Sends never block; a slow subscriber
// just misses intermediate states.
func (s *Store) Subscribe() <-chan *Usuario {
	ch := make(chan *Usuario, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notifyLocked(u *Usuario) {
	for _, ch := range s.subs {
		// Keep only the latest state: drop an unconsumed value first.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}
