package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/pursuit/broadcast"
	"github.com/wfunc/pursuit/config"
	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
	"github.com/wfunc/pursuit/logger"
	"github.com/wfunc/pursuit/monitor"
	"github.com/wfunc/pursuit/network"
	"github.com/wfunc/pursuit/persistence"
	"github.com/wfunc/pursuit/room"
	adminrpc "github.com/wfunc/pursuit/rpc"
	"github.com/wfunc/pursuit/rules"
	"github.com/wfunc/pursuit/services"
	"github.com/wfunc/pursuit/session"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	board          *graph.Graph
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	rpcServer      *adminrpc.Server
	monitor        *monitor.Monitor
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, board *graph.Graph, store persistence.Store) *GameServer {
	settings := game.Settings{
		Capacity:     cfg.Game.RoomCapacity,
		MaxRounds:    cfg.Game.MaxRounds,
		RevealRounds: cfg.Game.RevealRounds,
	}

	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		board:          board,
		sessionManager: session.NewManager(),
		monitor:        monitor.NewMonitor("pursuit"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.roomManager = room.NewManager(store, board, settings)
	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)

	rpcServer, err := adminrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	stats := services.NewStatsService(store, s.roomManager)
	rpc.Register(adminrpc.NewAdminService(stats))

	if cfg.Server.MetricsAddress != "" {
		s.monitor.StartServer(cfg.Server.MetricsAddress)
	}

	return s
}

// RoomManager exposes the registry for housekeeping wiring.
func (s *GameServer) RoomManager() *room.Manager {
	return s.roomManager
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncConnectedPlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		// Disconnection is not a leave: the seat and its durable identity
		// stay in the room so the same identity can reconnect mid-game.
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecConnectedPlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	started := time.Now()
	defer func() {
		s.monitor.ObserveActionLatency(time.Since(started))
	}()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
		sess.Send(network.MsgTypeHeartbeat, nil)
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(sess, packet)
	case network.MsgTypeSetReady:
		s.handleSetReady(sess, packet)
	case network.MsgTypeStartGame:
		s.handleStartGame(sess, packet)
	case network.MsgTypeMove:
		s.handleMove(sess, packet)
	case network.MsgTypeDoubleMove:
		s.handleDoubleMove(sess, packet)
	case network.MsgTypeRematchReady:
		s.handleRematchReady(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

type errorReply struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendError reports a per-action failure to the initiating actor only; it is
// never broadcast.
func (s *GameServer) sendError(sess *session.Session, err error) {
	s.monitor.IncMovesRejected()
	reply := errorReply{Code: errorCode(err), Message: err.Error()}
	data, _ := json.Marshal(reply)
	sess.Send(network.MsgTypeError, data)
}

func errorCode(err error) string {
	var rejection *rules.Rejection
	switch {
	case errors.As(err, &rejection):
		return string(rejection.Reason)
	case errors.Is(err, game.ErrRoomFull):
		return "full"
	case errors.Is(err, game.ErrAlreadyPlaying):
		return "already_playing"
	case errors.Is(err, game.ErrNotSeated), errors.Is(err, room.ErrRoomNotFound):
		return "not_found"
	case errors.Is(err, game.ErrNotHost):
		return "not_host"
	case errors.Is(err, game.ErrNotEnoughReady):
		return "not_ready"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrNotActive):
		return "not_active"
	case errors.Is(err, game.ErrNotFugitive):
		return "role_not_allowed"
	case errors.Is(err, game.ErrNoDoubleTicket):
		return "insufficient_tickets"
	case errors.Is(err, game.ErrDoubleMovePending):
		return "double_move_pending"
	case errors.Is(err, room.ErrPersistence):
		return "retry"
	default:
		return "internal"
	}
}

type createRoomRequest struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

type createRoomReply struct {
	RoomCode string `json:"room_code"`
	Identity string `json:"identity"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req createRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if req.Identity == "" {
		req.Identity = uuid.New().String()
	}

	newRoom, err := s.roomManager.CreateRoom(s.broadcaster)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	sess.Bind(req.Identity, req.Name)
	sess.RoomCode = newRoom.Code()
	s.sessionManager.BindIdentity(sess)

	reply := createRoomReply{RoomCode: newRoom.Code(), Identity: req.Identity}
	data, _ := json.Marshal(reply)
	sess.Send(network.MsgTypeCreateRoom, data)

	if err := newRoom.Join(req.Identity, req.Name); err != nil {
		s.sendError(sess, err)
		return
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())
	logger.Log.Infof("Session %s created room %s", sess.GetID(), newRoom.Code())
}

type joinRoomRequest struct {
	RoomCode string `json:"room_code"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req joinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if req.Identity == "" {
		req.Identity = uuid.New().String()
	}

	target, err := s.roomManager.GetRoom(req.RoomCode, s.broadcaster)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	sess.Bind(req.Identity, req.Name)
	sess.RoomCode = req.RoomCode
	s.sessionManager.BindIdentity(sess)

	if err := target.Join(req.Identity, req.Name); err != nil {
		s.sendError(sess, err)
		return
	}

	// A reconnecting identity gets a fresh projection even if the join
	// changed nothing.
	view := target.ProjectFor(req.Identity)
	data, _ := json.Marshal(view)
	sess.Send(network.MsgTypeRoomState, data)

	logger.Log.Infof("Session %s joined room %s as %s", sess.GetID(), req.RoomCode, req.Identity)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, packet *network.Packet) {
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}

	empty, err := target.Leave(sess.GetIdentity())
	if err != nil {
		s.sendError(sess, err)
		return
	}
	sess.RoomCode = ""
	if empty {
		s.roomManager.RemoveRoom(target.Code())
		logger.Log.Infof("Room %s destroyed", target.Code())
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

func (s *GameServer) handleSetReady(sess *session.Session, packet *network.Packet) {
	var req readyRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}
	if err := target.SetReady(sess.GetIdentity(), req.Ready); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) handleStartGame(sess *session.Session, packet *network.Packet) {
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}
	if err := target.StartGame(sess.GetIdentity()); err != nil {
		s.sendError(sess, err)
	}
}

type moveRequest struct {
	Destination int    `json:"destination"`
	RouteType   string `json:"route_type"`
}

func (s *GameServer) handleMove(sess *session.Session, packet *network.Packet) {
	var req moveRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}
	routeType, ok := graph.ParseRouteType(req.RouteType)
	if !ok {
		s.sendError(sess, &rules.Rejection{Reason: rules.NoRoute})
		return
	}

	if err := target.Move(sess.GetIdentity(), req.Destination, routeType); err != nil {
		s.sendError(sess, err)
		return
	}
	s.monitor.IncMovesProcessed()
}

func (s *GameServer) handleDoubleMove(sess *session.Session, packet *network.Packet) {
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}
	if err := target.StartDoubleMove(sess.GetIdentity()); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) handleRematchReady(sess *session.Session, packet *network.Packet) {
	var req readyRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	target, ok := s.sessionRoom(sess)
	if !ok {
		return
	}
	if err := target.SetRematchReady(sess.GetIdentity(), req.Ready); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) sessionRoom(sess *session.Session) (*room.Room, bool) {
	if sess.RoomCode == "" {
		logger.Log.Warnf("Session %s acted without a room", sess.GetID())
		return nil, false
	}
	target, err := s.roomManager.GetRoom(sess.RoomCode, s.broadcaster)
	if err != nil {
		logger.Log.Errorf("Room %s not found for session %s", sess.RoomCode, sess.GetID())
		s.sendError(sess, err)
		return nil, false
	}
	return target, true
}
