// room/room.go
package room

import (
	"sort"
	"sync"
	"time"

	"github.com/wfunc/geoserver/geo"
	"github.com/wfunc/geoserver/session"
)

// GameStatus is the room-level phase of a game session.
type GameStatus string

const (
	GameLobby     GameStatus = "lobby"
	GameCountdown GameStatus = "countdown"
	GameRunning   GameStatus = "running"
	GameFinished  GameStatus = "finished"
)

// RoundStatus is the phase of a single round. It only ever advances
// running -> reveal -> ended.
type RoundStatus string

const (
	RoundRunning RoundStatus = "running"
	RoundReveal  RoundStatus = "reveal"
	RoundEnded   RoundStatus = "ended"
)

// Player is one participant in a room. The entity survives disconnects so a
// returning connection with the same identity resumes its score.
type Player struct {
	UserID         string
	Name           string
	TotalScore     int
	HasGuessed     bool
	Guess          *geo.Point
	LastDistanceKM *float64
	LastScore      *int
}

// ResetRound clears the per-round fields at the start of a new round.
func (p *Player) ResetRound() {
	p.HasGuessed = false
	p.Guess = nil
	p.LastDistanceKM = nil
	p.LastScore = nil
}

// Round is one guess-then-reveal cycle. Rounds are replaced, never reused:
// the next round installs a fresh Round value.
type Round struct {
	Index          int
	Seed           geo.Point
	StartedAtMS    int64
	EndsAtMS       int64
	RevealEndsAtMS int64
	Status         RoundStatus
	True           *geo.Point
}

// TruePoint resolves the coordinate guesses are scored against: the
// host-confirmed point, or the seed if none was ever confirmed.
func (r *Round) TruePoint() geo.Point {
	if r.True != nil {
		return *r.True
	}
	return r.Seed
}

// Room is one game session. Every mutable field is guarded by Mu; the game
// engine and the connection handlers take the lock for the full
// read-modify-write of any transition, so timer-driven and player-driven
// mutations never race.
type Room struct {
	Mu sync.Mutex

	Code        string
	HostUserID  string
	CreatedAtMS int64

	// Fixed at creation, mutable only while in lobby.
	RoundsTotal   int
	RoundSeconds  int
	RevealSeconds int
	Region        string
	Country       string

	GameStatus        GameStatus
	CountdownEndsAtMS int64
	RoundNumber       int
	CurrentRound      *Round

	Players  map[string]*Player
	Sessions map[string]*session.Session

	// TimerGen supersedes stale countdown/timer tasks: every new countdown
	// or round bumps it, and a task whose captured generation no longer
	// matches exits without mutating or broadcasting.
	TimerGen uint64
}

func NowMS() int64 {
	return time.Now().UnixMilli()
}

// BBox resolves the play area from the room's country/region selection.
func (r *Room) BBox() geo.BBox {
	return geo.ResolveBBox(r.Region, r.Country)
}

// NextTimerGen invalidates any live timer/countdown task and returns the
// generation the replacement task should carry. Caller must hold Mu.
func (r *Room) NextTimerGen() uint64 {
	r.TimerGen++
	return r.TimerGen
}

// EnsurePlayer returns the player for userID, enrolling a new one if
// needed. A non-empty name updates the display name either way. Caller
// must hold Mu.
func (r *Room) EnsurePlayer(userID, name string) *Player {
	p, exists := r.Players[userID]
	if !exists {
		p = &Player{UserID: userID}
		r.Players[userID] = p
	}
	if name != "" {
		p.Name = name
	}
	if p.Name == "" {
		p.Name = "User " + userID
	}
	return p
}

// AttachSession registers a live connection for userID, replacing any
// previous one. Caller must hold Mu.
func (r *Room) AttachSession(sess *session.Session) {
	r.Sessions[sess.UserID] = sess
}

// DetachSession removes userID's live connection if sess is still the one
// registered. The Player entity is kept for reconnects. Caller must hold Mu.
func (r *Room) DetachSession(sess *session.Session) {
	if current, ok := r.Sessions[sess.UserID]; ok && current == sess {
		delete(r.Sessions, sess.UserID)
	}
}

// SessionsSnapshot copies the live session list so broadcasts can run
// without holding Mu. Caller must hold Mu.
func (r *Room) SessionsSnapshot() []*session.Session {
	sessions := make([]*session.Session, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// sortedPlayers returns the players ordered by total score, best first.
func (r *Room) sortedPlayers() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalScore != players[j].TotalScore {
			return players[i].TotalScore > players[j].TotalScore
		}
		return players[i].UserID < players[j].UserID
	})
	return players
}
