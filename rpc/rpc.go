package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/pursuit/logger"
	"github.com/wfunc/pursuit/services"
)

// Server manages the admin RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operator queries over net/rpc.
type AdminService struct {
	stats *services.StatsService
}

func NewAdminService(stats *services.StatsService) *AdminService {
	return &AdminService{stats: stats}
}

type ServerStatsArgs struct{}

type ServerStatsReply struct {
	LiveRooms    int
	RoomCodes    []string
	WinsByWinner map[string]int
}

func (a *AdminService) ServerStats(args *ServerStatsArgs, reply *ServerStatsReply) error {
	stats, err := a.stats.ServerStats()
	if err != nil {
		return err
	}
	reply.LiveRooms = stats.LiveRooms
	reply.RoomCodes = stats.RoomCodes
	reply.WinsByWinner = stats.WinsByWinner
	return nil
}

type RoomSummaryArgs struct {
	Code string
}

type RoomSummaryReply struct {
	Code    string
	Phase   string
	Round   int
	Seats   int
	Outcome string
}

func (a *AdminService) RoomSummary(args *RoomSummaryArgs, reply *RoomSummaryReply) error {
	summary, err := a.stats.RoomSummary(args.Code)
	if err != nil {
		return err
	}
	reply.Code = summary.Code
	reply.Phase = summary.Phase
	reply.Round = summary.Round
	reply.Seats = summary.Seats
	reply.Outcome = summary.Outcome
	return nil
}
