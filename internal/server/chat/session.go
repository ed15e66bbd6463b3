// Package chat holds the per-session conversation state and drives one user
// turn end to end: echo the prompt, stream the completion, persist the
// finished turn pair.
package chat

import (
	"sync"

	"github.com/synogpt/synogpt/internal/common"
	"github.com/synogpt/synogpt/internal/server/conversations"
)

// Session is the explicit per-session state object: the active turn list
// plus the authentication and one-shot UI flags. It is created on login and
// destroyed on logout or expiry.
type Session struct {
	ID       string
	Username string
	Name     string
	Email    string
	Role     string

	mu                sync.Mutex
	otpVerified       bool
	enrollmentPending bool
	welcomeShown      bool
	turns             []conversations.Message
}

// OTPVerified reports whether the second factor has passed this session.
func (s *Session) OTPVerified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otpVerified
}

// MarkOTPVerified records a successful second-factor check and clears the
// enrollment flag, so the QR code is never offered again.
func (s *Session) MarkOTPVerified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otpVerified = true
	s.enrollmentPending = false
}

// EnrollmentPending reports whether the enrollment QR should be shown.
func (s *Session) EnrollmentPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enrollmentPending
}

func (s *Session) SetEnrollmentPending(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollmentPending = v
}

// ConsumeWelcome returns true exactly once per session, for the transient
// welcome-back acknowledgment.
func (s *Session) ConsumeWelcome() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.welcomeShown {
		return false
	}
	s.welcomeShown = true
	return true
}

// Turns returns a copy of the active turn list.
func (s *Session) Turns() []conversations.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversations.Message(nil), s.turns...)
}

func (s *Session) appendTurn(m conversations.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, m)
}

func (s *Session) setTurns(turns []conversations.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append([]conversations.Message(nil), turns...)
}

// Sessions is the in-memory session table, keyed by the session ID carried
// in the cookie claims.
type Sessions struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Session{}}
}

// Create registers a fresh session for an authenticated user.
func (t *Sessions) Create(username, name, email, role string) (*Session, error) {
	id, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:       id,
		Username: username,
		Name:     name,
		Email:    email,
		Role:     role,
	}

	t.mu.Lock()
	t.m[id] = sess
	t.mu.Unlock()
	return sess, nil
}

func (t *Sessions) Get(id string) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sess, ok := t.m[id]
	return sess, ok
}

// Delete drops the whole session state, the logout equivalent of clearing
// every per-session key.
func (t *Sessions) Delete(id string) {
	t.mu.Lock()
	delete(t.m, id)
	t.mu.Unlock()
}
