// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/pursuit/network"
)

// Session is one live connection. Identity is the durable token a seat is
// keyed by; it outlives the session, so a reconnecting player gets a new
// session bound to the same identity.
type Session struct {
	ID         string
	Conn       network.Connection
	Identity   string
	Name       string
	RoomCode   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind attaches the durable identity and display name after the first
// create/join action on this connection.
func (s *Session) Bind(identity, name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Identity = identity
	s.Name = name
}

func (s *Session) GetIdentity() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Identity
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.Touch()
	return s.Conn.Send(msgID, data)
}

// Touch marks the session as recently active. Broadcasts and the read loop
// hit this concurrently, so it takes the session mutex.
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks live sessions by id and by durable identity.
type Manager struct {
	sessions   map[string]*Session
	byIdentity map[string]*Session
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		byIdentity: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

// BindIdentity indexes the session under its durable identity. A reconnect
// replaces the previous (dead) session for that identity.
func (m *Manager) BindIdentity(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if identity := session.GetIdentity(); identity != "" {
		m.byIdentity[identity] = session
	}
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return
	}
	delete(m.sessions, sessionID)

	// Only unbind the identity if this session still owns it; a reconnect
	// may have already rebound it to a newer session.
	if identity := session.GetIdentity(); identity != "" {
		if current, ok := m.byIdentity[identity]; ok && current.ID == sessionID {
			delete(m.byIdentity, identity)
		}
	}
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByIdentity returns the live session bound to a durable identity.
func (m *Manager) GetByIdentity(identity string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.byIdentity[identity]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
