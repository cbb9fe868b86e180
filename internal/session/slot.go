package session

import "sync"

// Slot is the single durable key-value location holding the raw bearer token.
type Slot interface {
	// Load returns the stored token and whether one exists.
	Load() (string, bool, error)
	// Save overwrites the stored token.
	Save(token string) error
	// Clear removes the token. Clearing an empty slot is not an error.
	Clear() error
}

// MemorySlot keeps the token in process memory.
type MemorySlot struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Load() (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.set, nil
}

func (m *MemorySlot) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	return nil
}

func (m *MemorySlot) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}
