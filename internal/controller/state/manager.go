package state

import (
	"sync"
	"time"
)

// Manager keeps the sessions of all chats.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the session, if any.
func (sm *Manager) Get(telegramID int64) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if s, ok := sm.sessions[telegramID]; ok {
		return *s, true
	}
	return Session{}, false
}

// Update applies fn to the session, creating it when missing.
func (sm *Manager) Update(telegramID int64, fn func(s *Session)) Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[telegramID]
	if !ok {
		s = &Session{}
		sm.sessions[telegramID] = s
	}
	fn(s)
	s.UpdatedAt = sm.now()
	return *s
}

// Touch marks the session as active.
func (sm *Manager) Touch(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[telegramID]; ok {
		s.UpdatedAt = sm.now()
	}
}

// GetState returns the dialog state of the user.
func (sm *Manager) GetState(telegramID int64) UserState {
	s, ok := sm.Get(telegramID)
	if !ok {
		return StateNone
	}
	return s.State
}

// SetState switches the dialog state.
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.Update(telegramID, func(s *Session) {
		s.State = state
	})
}

// CloseDay drops the open editor together with its draft.
func (sm *Manager) CloseDay(telegramID int64) {
	sm.Update(telegramID, func(s *Session) {
		if s.Editor != nil {
			s.Editor.Discard()
		}
		s.Editor = nil
	})
}

// ClearState resets the dialog and the open day but keeps the priest identity.
func (sm *Manager) ClearState(telegramID int64) {
	sm.Update(telegramID, func(s *Session) {
		if s.Editor != nil {
			s.Editor.Discard()
		}
		s.Editor = nil
		s.State = StateNone
		s.AppointmentID = ""
	})
}

// SweepIdle discards sessions untouched for longer than idle and returns their IDs.
// Sessions with a commit in flight are kept.
func (sm *Manager) SweepIdle(idle time.Duration) []int64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cutoff := sm.now().Add(-idle)
	var swept []int64
	for id, s := range sm.sessions {
		if s.UpdatedAt.After(cutoff) {
			continue
		}
		if s.Editor != nil {
			if s.Editor.IsCommitting() {
				continue
			}
			s.Editor.Discard()
		}
		delete(sm.sessions, id)
		swept = append(swept, id)
	}
	return swept
}

// Len returns the number of live sessions.
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
