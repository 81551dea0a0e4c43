package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/wfunc/geoserver/auth"
	"github.com/wfunc/geoserver/broadcast"
	"github.com/wfunc/geoserver/config"
	"github.com/wfunc/geoserver/game"
	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/monitor"
	"github.com/wfunc/geoserver/network"
	"github.com/wfunc/geoserver/room"
	geoserver_rpc "github.com/wfunc/geoserver/rpc"
	"github.com/wfunc/geoserver/services"
	"github.com/wfunc/geoserver/session"
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	engine         *game.Engine
	signer         *auth.Signer
	mon            *monitor.Monitor
	rpcServer      *geoserver_rpc.Server
	router         *mux.Router
}

func NewGameServer(cfg *config.Config, records *services.RecordService) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		roomManager:    room.NewManager(),
		sessionManager: session.NewManager(),
		signer:         auth.NewSigner(cfg.Auth.SigningSecret),
		mon:            monitor.NewMonitor("geoserver"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.engine = game.NewEngine(broadcast.NewRoomBroadcaster(), records, cfg.Game.CountdownSeconds)

	if records != nil {
		rpcServer, err := geoserver_rpc.NewServer(cfg.Server.RPCAddress)
		if err != nil {
			logger.Log.Fatalf("Failed to create RPC server: %v", err)
		}
		s.rpcServer = rpcServer
		rpc.Register(geoserver_rpc.NewCareerService(records))
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/api/create_room", s.handleCreateRoom).Methods(http.MethodPost)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router = router

	return s
}

func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}
	s.mon.StartServer(s.cfg.Server.MetricsAddress)

	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, s.router)
}

func (s *GameServer) Shutdown() {
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

func (s *GameServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"ts": time.Now().Unix(),
	})
}

type createRoomRequest struct {
	HostUserID    string      `json:"host_user_id"`
	Name          string      `json:"name"`
	RoundsTotal   json.Number `json:"rounds_total"`
	RoundSeconds  json.Number `json:"round_seconds"`
	RevealSeconds json.Number `json:"reveal_seconds"`
	Region        string      `json:"region"`
	Country       string      `json:"country"`
}

func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "invalid json"})
		return
	}

	if req.HostUserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "host_user_id required"})
		return
	}
	name := req.Name
	if name == "" {
		name = "Host"
	}

	newRoom := s.roomManager.CreateRoom(req.HostUserID, name, room.CreateOptions{
		RoundsTotal:   intOr(req.RoundsTotal, s.cfg.Game.RoundsTotal),
		RoundSeconds:  intOr(req.RoundSeconds, s.cfg.Game.RoundSeconds),
		RevealSeconds: intOr(req.RevealSeconds, s.cfg.Game.RevealSeconds),
		Region:        strings.ToUpper(req.Region),
		Country:       strings.ToUpper(req.Country),
	})
	s.mon.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Host %s created room %s", req.HostUserID, newRoom.Code)

	sig := s.signer.Sign(newRoom.Code, req.HostUserID)
	joinURL := auth.JoinURL(s.baseURL(r), newRoom.Code, req.HostUserID, sig, name)

	resp := map[string]interface{}{
		"ok":       true,
		"code":     newRoom.Code,
		"join_url": joinURL,
		"sig":      sig,
	}
	if png, err := auth.JoinQRCode(joinURL); err == nil {
		resp["qr_png_base64"] = base64.StdEncoding.EncodeToString(png)
	} else {
		logger.Log.Warnf("Failed to render join QR for room %s: %v", newRoom.Code, err)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *GameServer) baseURL(r *http.Request) string {
	if s.cfg.Server.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.Server.PublicBaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	query := r.URL.Query()
	code := strings.ToUpper(query.Get("room"))
	userID := query.Get("user")
	sig := query.Get("sig")
	name := query.Get("name")

	wsConn := network.NewWSConnection(conn)

	if code == "" || userID == "" {
		rejectConnection(wsConn, "room/user required")
		return
	}
	// The token is optional but checked when present.
	if sig != "" && !s.signer.Verify(code, userID, sig) {
		rejectConnection(wsConn, "bad signature")
		return
	}

	gameRoom, exists := s.roomManager.Get(code)
	if !exists {
		rejectConnection(wsConn, "room not found")
		return
	}

	sess := session.NewSession(uuid.New().String(), wsConn)
	sess.UserID = userID
	sess.RoomCode = code

	gameRoom.Mu.Lock()
	if _, known := gameRoom.Players[userID]; !known && len(gameRoom.Players) >= s.cfg.Game.MaxPlayers {
		gameRoom.Mu.Unlock()
		rejectConnection(wsConn, "room full")
		return
	}
	gameRoom.EnsurePlayer(userID, name)
	gameRoom.AttachSession(sess)
	state := gameRoom.PublicState()
	gameRoom.Mu.Unlock()

	s.sessionManager.Add(sess)
	s.mon.IncConnectedPlayers()
	logger.Log.Infof("Player %s connected to room %s from %s", userID, code, wsConn.RemoteAddr())

	sess.Send(network.NewStateEvent(state))
	sess.Send(network.NewToast(network.ToastOK, "Connected"))

	defer func() {
		gameRoom.Mu.Lock()
		gameRoom.DetachSession(sess)
		gameRoom.Mu.Unlock()
		s.sessionManager.Remove(sess.ID)
		s.mon.DecConnectedPlayers()
		wsConn.Close()
		logger.Log.Infof("Player %s disconnected from room %s", userID, code)
	}()

	for {
		data, err := wsConn.ReadMessage()
		if err != nil {
			return
		}

		action, err := network.DecodeAction(data)
		if err != nil {
			sess.Send(network.NewToast(network.ToastError, "invalid json"))
			continue
		}
		if action == nil {
			// Unrecognized action kinds are ignored.
			continue
		}

		s.mon.IncActionsReceived()
		start := time.Now()
		s.engine.HandleAction(gameRoom, userID, action)
		s.mon.ObserveActionLatency(time.Since(start))
	}
}

func rejectConnection(conn *network.WSConnection, reason string) {
	conn.Send(network.NewToast(network.ToastError, reason))
	conn.Close()
}

func intOr(n json.Number, fallback int) int {
	v, err := n.Int64()
	if err != nil {
		return fallback
	}
	return int(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to write response: %v", err)
	}
}
