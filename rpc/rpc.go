package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/models"
	"github.com/wfunc/geoserver/services"
)

// Server manages the RPC listener for the admin/stats surface.
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

// CareerService exposes archived player stats over net/rpc.
type CareerService struct {
	records *services.RecordService
}

func NewCareerService(records *services.RecordService) *CareerService {
	return &CareerService{records: records}
}

type GetCareerArgs struct {
	UserID string
}

type GetCareerReply struct {
	Career *models.PlayerCareer
}

func (cs *CareerService) GetPlayerCareer(args *GetCareerArgs, reply *GetCareerReply) error {
	career, err := cs.records.GetPlayerCareer(args.UserID)
	if err != nil {
		return err
	}
	reply.Career = career
	return nil
}
