package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-portal/internal/events"
)

// Store manages the one persisted token slot, derives session facts from it
// and broadcasts a change notification on every mutation. One Store is created
// per running application and handed to every view that needs it.
type Store struct {
	slot   Slot
	bus    events.Dispatcher
	logger *zap.Logger
	now    func() time.Time

	// mu serializes writers so an implicit clear never removes a token
	// written after the one it judged invalid.
	mu sync.Mutex
}

// NewStore builds a Store over slot. A nil bus gets a private in-memory dispatcher.
func NewStore(slot Slot, bus events.Dispatcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bus == nil {
		bus = events.NewInMemoryDispatcher(logger)
	}
	return &Store{slot: slot, bus: bus, logger: logger, now: time.Now}
}

// Subscribe registers a listener for session change notifications.
func (s *Store) Subscribe(listener events.Listener) (unsubscribe func()) {
	return s.bus.Subscribe(listener)
}

// Token returns the stored token. A slot read failure is logged and reported as absent.
func (s *Store) Token() (string, bool) {
	token, ok, err := s.slot.Load()
	if err != nil {
		s.logger.Warn("session slot read failed", zap.Error(err))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken overwrites the slot and broadcasts LOGIN. Repeated writes of the
// same token each broadcast.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	err := s.slot.Save(token)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	s.publish(events.ReasonLogin)
	return nil
}

// RemoveToken clears the slot and broadcasts LOGOUT, even if it was already empty.
func (s *Store) RemoveToken() error {
	return s.clear(events.ReasonLogout)
}

// Invalidate clears the slot after the server rejected the token and broadcasts EXPIRED.
func (s *Store) Invalidate() error {
	return s.clear(events.ReasonExpired)
}

func (s *Store) clear(reason events.Reason) error {
	s.mu.Lock()
	err := s.slot.Clear()
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	s.publish(reason)
	return nil
}

// IsLoggedIn reports whether a decodable, unexpired token is stored. A token
// that fails to decode or has expired is cleared as a side effect, with an
// EXPIRED broadcast. A token without an exp claim never expires.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	token, ok := s.Token()
	if !ok {
		s.mu.Unlock()
		return false
	}

	claims, err := Decode(token)
	if err == nil && !claims.ExpiredAt(s.now()) {
		s.mu.Unlock()
		return true
	}
	if err == nil {
		err = ErrExpiredToken
	}
	s.logger.Info("discarding session token", zap.Error(err))

	clearErr := s.slot.Clear()
	s.mu.Unlock()
	if clearErr != nil {
		s.logger.Warn("session slot clear failed", zap.Error(clearErr))
		return false
	}
	s.publish(events.ReasonExpired)
	return false
}

// Validate classifies the stored token without side effects.
func (s *Store) Validate() (Claims, error) {
	token, ok := s.Token()
	if !ok {
		return Claims{}, ErrNoToken
	}
	claims, err := Decode(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.ExpiredAt(s.now()) {
		return claims, ErrExpiredToken
	}
	return claims, nil
}

// CurrentUser returns the decoded claims of the stored token. Unlike
// IsLoggedIn it leaves an undecodable token in place, and it does not look at expiry.
func (s *Store) CurrentUser() (Claims, bool) {
	token, ok := s.Token()
	if !ok {
		return Claims{}, false
	}
	claims, err := Decode(token)
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}

// Username projects CurrentUser to its subject.
func (s *Store) Username() (string, bool) {
	claims, ok := s.CurrentUser()
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// IsTokenExpired is true when there is no usable token or its expiry has passed.
// It never mutates the slot.
func (s *Store) IsTokenExpired() bool {
	_, err := s.Validate()
	return err != nil
}

// AuthHeader returns the Authorization header for outgoing requests, or an
// empty map when no token is stored.
func (s *Store) AuthHeader() map[string]string {
	token, ok := s.Token()
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// Logout removes the token and then runs afterLogout, typically a redirect.
func (s *Store) Logout(afterLogout func()) error {
	err := s.RemoveToken()
	if afterLogout != nil {
		afterLogout()
	}
	return err
}

// Close releases the slot if it holds resources.
func (s *Store) Close() error {
	closer, ok := s.slot.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}

func (s *Store) publish(reason events.Reason) {
	s.bus.Publish(events.NewSessionChanged(reason, s.now()))
}
