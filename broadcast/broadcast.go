// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/room"
)

// Broadcaster fans an event out to every live connection in a room.
type Broadcaster interface {
	// Broadcast delivers v to all of r's live sessions. Caller must hold
	// r.Mu: delivery inspects and lazily prunes the session table.
	Broadcast(r *room.Room, v interface{})
	// SendTo delivers v to a single player if connected. Caller must hold
	// r.Mu.
	SendTo(r *room.Room, userID string, v interface{})
}

// RoomBroadcaster delivers events fire-and-forget: a connection that fails
// to accept a write is dropped from the room's session table, and one bad
// recipient never fails delivery to the rest.
type RoomBroadcaster struct{}

func NewRoomBroadcaster() *RoomBroadcaster {
	return &RoomBroadcaster{}
}

func (b *RoomBroadcaster) Broadcast(r *room.Room, v interface{}) {
	var dead []string
	for userID, sess := range r.Sessions {
		if err := sess.Send(v); err != nil {
			logger.Log.Debugf("broadcast to %s in room %s failed: %v", userID, r.Code, err)
			dead = append(dead, userID)
		}
	}
	for _, userID := range dead {
		delete(r.Sessions, userID)
	}
}

func (b *RoomBroadcaster) SendTo(r *room.Room, userID string, v interface{}) {
	sess, ok := r.Sessions[userID]
	if !ok {
		return
	}
	if err := sess.Send(v); err != nil {
		logger.Log.Debugf("send to %s in room %s failed: %v", userID, r.Code, err)
		delete(r.Sessions, userID)
	}
}
