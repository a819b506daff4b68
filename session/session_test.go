package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/pursuit/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if len(manager.sessions) != 1 {
		t.Fatalf("Expected session count to be 1, got %d", len(manager.sessions))
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if len(manager.sessions) != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", len(manager.sessions))
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByIdentity(t *testing.T) {
	manager := NewManager()

	sess := NewSession("session1", &MockConnection{})
	sess.Bind("identity-a", "Alice")
	manager.Add(sess)
	manager.BindIdentity(sess)

	found, exists := manager.GetByIdentity("identity-a")
	if !exists {
		t.Fatal("GetByIdentity should find the bound session")
	}
	if found != sess {
		t.Fatal("GetByIdentity should return the bound session instance")
	}

	_, exists = manager.GetByIdentity("identity-b")
	if exists {
		t.Fatal("GetByIdentity should not find an unbound identity")
	}
}

func TestManager_ReconnectRebindsIdentity(t *testing.T) {
	manager := NewManager()

	old := NewSession("session1", &MockConnection{})
	old.Bind("identity-a", "Alice")
	manager.Add(old)
	manager.BindIdentity(old)

	// A reconnect binds the same identity to a new session before the dead
	// one is removed.
	fresh := NewSession("session2", &MockConnection{})
	fresh.Bind("identity-a", "Alice")
	manager.Add(fresh)
	manager.BindIdentity(fresh)

	manager.Remove(old.GetID())

	found, exists := manager.GetByIdentity("identity-a")
	if !exists {
		t.Fatal("Identity should still resolve after the old session is removed")
	}
	if found != fresh {
		t.Fatal("Identity should resolve to the newer session")
	}

	manager.Remove(fresh.GetID())
	if _, exists := manager.GetByIdentity("identity-a"); exists {
		t.Fatal("Identity should not resolve once its session is removed")
	}
}

func TestSession_ConcurrentSendAndTouch(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.LastActive

	// Broadcasts write LastActive through Send while the read loop touches
	// the session; both must go through the mutex.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sess.Send(1, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sess.Touch()
			}
		}()
	}
	wg.Wait()

	if sess.LastActive.Before(before) {
		t.Error("LastActive should move forward")
	}
}

func TestSession_Bind(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	if sess.GetIdentity() != "" {
		t.Fatal("A fresh session should have no identity")
	}

	sess.Bind("identity-a", "Alice")
	if sess.GetIdentity() != "identity-a" {
		t.Errorf("Expected identity %q, got %q", "identity-a", sess.GetIdentity())
	}
	if sess.Name != "Alice" {
		t.Errorf("Expected name %q, got %q", "Alice", sess.Name)
	}
}
