package network

// Message ids carried in the packet header. 1xx are lobby actions, 2xx are
// in-game actions, 3xx are server pushes.
const (
	MsgTypeHeartbeat    = 1
	MsgTypeError        = 2
	MsgTypeCreateRoom   = 101
	MsgTypeJoinRoom     = 102
	MsgTypeLeaveRoom    = 103
	MsgTypeSetReady     = 104
	MsgTypeStartGame    = 105
	MsgTypeMove         = 201
	MsgTypeDoubleMove   = 202
	MsgTypeRematchReady = 203
	MsgTypeRoomState    = 301
	MsgTypeMoveOptions  = 302
	MsgTypeGameEnd      = 303
)
