// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/pursuit/session"
)

var ErrNotConnected = errors.New("identity has no live session")

// Broadcaster delivers per-viewer payloads. Projections differ per seat, so
// delivery is addressed by durable identity rather than fanned out blindly.
type Broadcaster interface {
	SendToIdentity(identity string, msgID uint16, data []byte) error
}

// SessionBroadcaster routes payloads through the live-session index.
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{sessionManager: sessionManager}
}

// SendToIdentity delivers to the identity's live session. A disconnected
// seat is not an error worth failing the action over: the participant will
// receive a fresh projection on reconnect.
func (b *SessionBroadcaster) SendToIdentity(identity string, msgID uint16, data []byte) error {
	sess, exists := b.sessionManager.GetByIdentity(identity)
	if !exists {
		return ErrNotConnected
	}
	return sess.Send(msgID, data)
}
