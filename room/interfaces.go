package room

// Broadcaster delivers a per-viewer payload to one durable identity. Defined
// here to break the import cycle between room and broadcast.
type Broadcaster interface {
	SendToIdentity(identity string, msgID uint16, data []byte) error
}
