// room/manager.go
package room

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/wfunc/geoserver/geo"
	"github.com/wfunc/geoserver/session"
)

// Room codes avoid 0/O/1/I so they survive being read out loud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// Configuration clamps.
const (
	MinRounds        = 1
	MaxRounds        = 20
	MinRoundSeconds  = 15
	MaxRoundSeconds  = 600
	MinRevealSeconds = 5
	MaxRevealSeconds = 40
)

// CreateOptions is the requested room configuration; out-of-range values
// are clamped, unknown selectors fall back to defaults.
type CreateOptions struct {
	RoundsTotal   int
	RoundSeconds  int
	RevealSeconds int
	Region        string
	Country       string
}

// Manager owns every Room in the process, keyed by code.
type Manager struct {
	rooms map[string]*Room
	mutex sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func randomCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			panic("room: crypto/rand failed: " + err.Error())
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// CreateRoom validates and clamps the configuration, generates a
// collision-free code and registers the new room with the host as its
// first player. The collision check and the insert happen under one lock
// so two concurrent creations can never claim the same code.
func (m *Manager) CreateRoom(hostUserID, hostName string, opts CreateOptions) *Room {
	opts.RoundsTotal = clamp(opts.RoundsTotal, MinRounds, MaxRounds)
	opts.RoundSeconds = clamp(opts.RoundSeconds, MinRoundSeconds, MaxRoundSeconds)
	opts.RevealSeconds = clamp(opts.RevealSeconds, MinRevealSeconds, MaxRevealSeconds)
	if _, ok := geo.Regions[opts.Region]; !ok {
		opts.Region = geo.DefaultRegion
	}
	if _, ok := geo.Countries[opts.Country]; !ok {
		opts.Country = ""
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	var code string
	for {
		code = randomCode()
		if _, taken := m.rooms[code]; !taken {
			break
		}
	}

	r := &Room{
		Code:          code,
		HostUserID:    hostUserID,
		CreatedAtMS:   NowMS(),
		RoundsTotal:   opts.RoundsTotal,
		RoundSeconds:  opts.RoundSeconds,
		RevealSeconds: opts.RevealSeconds,
		Region:        opts.Region,
		Country:       opts.Country,
		GameStatus:    GameLobby,
		Players:       make(map[string]*Player),
		Sessions:      make(map[string]*session.Session),
	}
	r.Players[hostUserID] = &Player{UserID: hostUserID, Name: hostName}

	m.rooms[code] = r
	return r
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	r, exists := m.rooms[code]
	return r, exists
}

func (m *Manager) Count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.rooms)
}
