package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"autolist/models"
)

// session holds one editable listing between generation and export.
// Sessions live in memory only and die with the process; there is no
// persistence layer.
type session struct {
	ID        string
	Listing   *models.Listing
	Source    *models.RawPost
	CreatedAt time.Time
	UpdatedAt time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// create registers a new session and returns its id.
func (s *sessionStore) create(listing *models.Listing, source *models.RawPost) *session {
	sess := &session{
		ID:        uuid.NewString(),
		Listing:   listing,
		Source:    source,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// update replaces the session's listing (editor save).
func (s *sessionStore) update(id string, listing *models.Listing) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.Listing = listing
	sess.UpdatedAt = time.Now()
	return sess, true
}
