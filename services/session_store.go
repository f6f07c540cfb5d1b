package services

import (
	"sync"
	"time"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// SessionStore holds live sessions in process memory only. A restart drops
// every session; that is the contract, there is no persistence layer behind
// this on purpose.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*model.Session),
	}
}

func (s *SessionStore) Put(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
	utils.UpdateActiveSessions(float64(len(s.sessions)))
}

func (s *SessionStore) Get(sessionID string) *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID]
}

// Delete removes one session; this is the sign-out operation.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	utils.UpdateActiveSessions(float64(len(s.sessions)))
}

// DeleteAllForContact ends every session belonging to one investor.
func (s *SessionStore) DeleteAllForContact(contactID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.ContactID == contactID {
			delete(s.sessions, id)
			removed++
		}
	}
	utils.UpdateActiveSessions(float64(len(s.sessions)))
	return removed
}

// ActiveForContact lists the investor's live sessions.
func (s *SessionStore) ActiveForContact(contactID string) []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Session
	for _, session := range s.sessions {
		if session.ContactID == contactID {
			out = append(out, session)
		}
	}
	return out
}

// Touch stamps last-activity, returning false when the session is unknown.
func (s *SessionStore) Touch(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	session.LastActivityAt = time.Now()
	return true
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
