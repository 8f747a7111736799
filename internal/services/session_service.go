package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrSessionNotFound indicates the session id has no live session.
	ErrSessionNotFound = errors.New("session service: session not found")
	// ErrSessionLimit indicates the server-side session cap was reached.
	ErrSessionLimit = errors.New("session service: session limit reached")
)

// BrowsingSession holds the per-visitor navigation and gallery state. The
// filter panel flag models the scroll lock held while the panel is open; it
// is released on close, on delete, and on expiry.
type BrowsingSession struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
	panelOpen bool

	sync    *NavigationSync
	gallery *GallerySelection
}

// ID returns the session identifier.
func (s *BrowsingSession) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *BrowsingSession) CreatedAt() time.Time { return s.createdAt }

// ExpiresAt returns the current expiry deadline.
func (s *BrowsingSession) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Navigation returns the session's navigation sync.
func (s *BrowsingSession) Navigation() *NavigationSync { return s.sync }

// Gallery returns the session's gallery selection.
func (s *BrowsingSession) Gallery() *GallerySelection { return s.gallery }

// OpenFilterPanel acquires the panel's scroll lock. Idempotent.
func (s *BrowsingSession) OpenFilterPanel() {
	s.mu.Lock()
	s.panelOpen = true
	s.mu.Unlock()
}

// CloseFilterPanel releases the panel's scroll lock. Idempotent.
func (s *BrowsingSession) CloseFilterPanel() {
	s.mu.Lock()
	s.panelOpen = false
	s.mu.Unlock()
}

// PanelOpen reports whether the filter panel currently holds the scroll lock.
func (s *BrowsingSession) PanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

func (s *BrowsingSession) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

func (s *BrowsingSession) touch(deadline time.Time) {
	s.mu.Lock()
	s.expiresAt = deadline
	s.mu.Unlock()
}

// SessionServiceDeps bundles constructor inputs for the session service.
type SessionServiceDeps struct {
	TTL         time.Duration
	MaxSessions int
	// Clock overrides the time source. Nil means time.Now.
	Clock func() time.Time
}

type sessionService struct {
	mu       sync.Mutex
	sessions map[string]*BrowsingSession
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewSessionService constructs an in-memory session service. Sessions use a
// sliding expiry: every successful Get extends the deadline by the TTL.
// Expired sessions are reaped lazily on access, so no background worker runs.
func NewSessionService(deps SessionServiceDeps) (SessionService, error) {
	if deps.TTL <= 0 {
		return nil, fmt.Errorf("session service: ttl must be positive")
	}
	if deps.MaxSessions <= 0 {
		return nil, fmt.Errorf("session service: max sessions must be positive")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		sessions: make(map[string]*BrowsingSession),
		ttl:      deps.TTL,
		max:      deps.MaxSessions,
		now:      now,
	}, nil
}

func (s *sessionService) Create(ctx context.Context) (*BrowsingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.reapLocked(now)
	if len(s.sessions) >= s.max {
		return nil, ErrSessionLimit
	}

	session := &BrowsingSession{
		id:        ulid.Make().String(),
		createdAt: now,
		expiresAt: now.Add(s.ttl),
		sync:      NewNavigationSync(nil),
		gallery:   &GallerySelection{},
	}
	s.sessions[session.id] = session
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*BrowsingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	now := s.now()
	if session.expired(now) {
		s.evictLocked(session)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	session.touch(now.Add(s.ttl))
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.evictLocked(session)
	return nil
}

// evictLocked removes a session and releases any state it still holds.
func (s *sessionService) evictLocked(session *BrowsingSession) {
	session.CloseFilterPanel()
	delete(s.sessions, session.id)
}

func (s *sessionService) reapLocked(now time.Time) {
	for _, session := range s.sessions {
		if session.expired(now) {
			s.evictLocked(session)
		}
	}
}
