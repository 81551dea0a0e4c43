package broadcast

import (
	"errors"
	"net"
	"testing"

	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/room"
	"github.com/wfunc/geoserver/session"
)

func init() {
	logger.Init(true)
}

// MockConnection records sends and can be told to fail.
type MockConnection struct {
	sent []interface{}
	fail bool
}

func (m *MockConnection) Send(v interface{}) error {
	if m.fail {
		return errors.New("connection closed")
	}
	m.sent = append(m.sent, v)
	return nil
}
func (m *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return &net.TCPAddr{} }

func newTestRoom() *room.Room {
	manager := room.NewManager()
	return manager.CreateRoom("host", "Host", room.CreateOptions{
		RoundsTotal:   5,
		RoundSeconds:  90,
		RevealSeconds: 12,
	})
}

func attach(r *room.Room, userID string, conn *MockConnection) *session.Session {
	sess := session.NewSession("sess_"+userID, conn)
	sess.UserID = userID
	r.AttachSession(sess)
	return sess
}

func TestBroadcast_DeliversToAll(t *testing.T) {
	r := newTestRoom()
	b := NewRoomBroadcaster()

	conn1 := &MockConnection{}
	conn2 := &MockConnection{}
	attach(r, "u1", conn1)
	attach(r, "u2", conn2)

	r.Mu.Lock()
	b.Broadcast(r, "hello")
	r.Mu.Unlock()

	if len(conn1.sent) != 1 || len(conn2.sent) != 1 {
		t.Errorf("Expected one delivery each, got %d and %d", len(conn1.sent), len(conn2.sent))
	}
}

func TestBroadcast_PrunesDeadConnections(t *testing.T) {
	r := newTestRoom()
	b := NewRoomBroadcaster()

	healthy := &MockConnection{}
	dead := &MockConnection{fail: true}
	attach(r, "alive", healthy)
	attach(r, "gone", dead)

	r.Mu.Lock()
	b.Broadcast(r, "hello")
	r.Mu.Unlock()

	if len(healthy.sent) != 1 {
		t.Errorf("A dead recipient must not block the rest, got %d deliveries", len(healthy.sent))
	}

	r.Mu.Lock()
	_, stillThere := r.Sessions["gone"]
	r.Mu.Unlock()
	if stillThere {
		t.Error("Dead connection should be pruned from the session table")
	}

	// The player entity survives the prune, only the connection goes.
	r.Mu.Lock()
	_, playerKept := r.Players["host"]
	r.Mu.Unlock()
	if !playerKept {
		t.Error("Pruning must not touch player entities")
	}
}

func TestSendTo(t *testing.T) {
	r := newTestRoom()
	b := NewRoomBroadcaster()

	conn1 := &MockConnection{}
	conn2 := &MockConnection{}
	attach(r, "u1", conn1)
	attach(r, "u2", conn2)

	r.Mu.Lock()
	b.SendTo(r, "u1", "private")
	b.SendTo(r, "nobody", "dropped")
	r.Mu.Unlock()

	if len(conn1.sent) != 1 {
		t.Errorf("Expected one delivery to u1, got %d", len(conn1.sent))
	}
	if len(conn2.sent) != 0 {
		t.Errorf("Expected no deliveries to u2, got %d", len(conn2.sent))
	}
}
