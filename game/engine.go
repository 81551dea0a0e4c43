// game/engine.go
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/wfunc/geoserver/broadcast"
	"github.com/wfunc/geoserver/geo"
	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/network"
	"github.com/wfunc/geoserver/room"
	"github.com/wfunc/geoserver/services"
)

const (
	// tickInterval drives every per-room timer task.
	tickInterval = 250 * time.Millisecond
	// nextRoundDelay gives clients a beat to render the round transition.
	nextRoundDelay = 750 * time.Millisecond

	DefaultCountdownSeconds = 5
)

// Engine advances rooms through their lifecycle and applies player actions.
// Every mutation of a room happens under that room's mutex, so a timer tick
// and a player action arriving in the same instant can never race.
type Engine struct {
	bc               broadcast.Broadcaster
	records          *services.RecordService
	countdownSeconds int
}

func NewEngine(bc broadcast.Broadcaster, records *services.RecordService, countdownSeconds int) *Engine {
	if countdownSeconds <= 0 {
		countdownSeconds = DefaultCountdownSeconds
	}
	return &Engine{
		bc:               bc,
		records:          records,
		countdownSeconds: countdownSeconds,
	}
}

// StartCountdown moves a lobby room into the pre-game countdown. Starting
// while not in lobby is a no-op.
func (e *Engine) StartCountdown(r *room.Room, seconds int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	e.startCountdownLocked(r, seconds)
}

func (e *Engine) startCountdownLocked(r *room.Room, seconds int) {
	if r.GameStatus != room.GameLobby {
		return
	}

	r.GameStatus = room.GameCountdown
	r.CountdownEndsAtMS = room.NowMS() + int64(seconds)*1000
	e.bc.Broadcast(r, network.NewCountdownEvent(r.CountdownEndsAtMS))
	e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))

	gen := r.NextTimerGen()
	deadline := time.UnixMilli(r.CountdownEndsAtMS)
	go e.runCountdown(r, gen, deadline)
}

// runCountdown starts round 1 once the deadline passes, unless a newer task
// superseded this one or the room left the countdown state meanwhile.
func (e *Engine) runCountdown(r *room.Room, gen uint64, deadline time.Time) {
	defer e.recoverRoomTask(r, gen, "countdown")

	time.Sleep(time.Until(deadline))

	r.Mu.Lock()
	defer r.Mu.Unlock()
	if gen != r.TimerGen || r.GameStatus != room.GameCountdown {
		return
	}
	e.startRoundLocked(r)
}

func (e *Engine) startRoundLocked(r *room.Room) {
	r.RoundNumber++
	seed := geo.PickPoint(r.BBox())

	start := room.NowMS()
	endsAt := start + int64(r.RoundSeconds)*1000
	revealEndsAt := endsAt + int64(r.RevealSeconds)*1000

	for _, p := range r.Players {
		p.ResetRound()
	}

	r.CurrentRound = &room.Round{
		Index:          r.RoundNumber,
		Seed:           seed,
		StartedAtMS:    start,
		EndsAtMS:       endsAt,
		RevealEndsAtMS: revealEndsAt,
		Status:         room.RoundRunning,
	}
	r.GameStatus = room.GameRunning

	e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))
	e.bc.Broadcast(r, network.NewToast(network.ToastInfo,
		fmt.Sprintf("Round %d/%d started!", r.RoundNumber, r.RoundsTotal)))

	gen := r.NextTimerGen()
	go e.runTimer(r, gen)
}

// finishRoundLocked resolves the true coordinate and scores every submitted
// guess. Players tied on the best distance share the win.
func (e *Engine) finishRoundLocked(r *room.Room) {
	cr := r.CurrentRound
	if cr == nil {
		return
	}

	truePoint := cr.TruePoint()
	cr.True = &truePoint

	var bestDistance *float64
	winners := make([]string, 0)
	noGuess := make([]string, 0)

	for userID, p := range r.Players {
		if !p.HasGuessed || p.Guess == nil {
			noGuess = append(noGuess, userID)
			continue
		}

		d := geo.Distance(truePoint, *p.Guess)
		s := geo.ScoreFromDistance(d)

		p.LastDistanceKM = &d
		score := s
		p.LastScore = &score
		p.TotalScore += s

		switch {
		case bestDistance == nil || d < *bestDistance:
			bestDistance = &d
			winners = []string{userID}
		case d == *bestDistance:
			winners = append(winners, userID)
		}
	}

	e.bc.Broadcast(r, network.NewRoundEndEvent(winners, noGuess, bestDistance))
	e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))
}

type tickResult int

const (
	tickContinue tickResult = iota
	tickStop
	tickNextRound
)

// runTimer is the per-room recurring task. At most one per room is ever
// live: a superseded task notices the generation mismatch on its next tick
// and exits without touching room state.
func (e *Engine) runTimer(r *room.Room, gen uint64) {
	defer e.recoverRoomTask(r, gen, "timer")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for range ticker.C {
		switch e.tick(r, gen) {
		case tickStop:
			return
		case tickNextRound:
			time.Sleep(nextRoundDelay)
			r.Mu.Lock()
			if gen == r.TimerGen {
				e.startRoundLocked(r)
			}
			r.Mu.Unlock()
			return
		}
	}
}

func (e *Engine) tick(r *room.Room, gen uint64) tickResult {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if gen != r.TimerGen {
		return tickStop
	}
	cr := r.CurrentRound
	if cr == nil {
		return tickStop
	}

	now := room.NowMS()

	switch cr.Status {
	case room.RoundRunning:
		left := cr.EndsAtMS - now
		e.bc.Broadcast(r, network.NewTimerEvent(network.PhaseGuess, max64(0, left)))
		if left <= 0 {
			cr.Status = room.RoundReveal
			e.finishRoundLocked(r)
			e.bc.Broadcast(r, network.NewToast(network.ToastInfo, "Results are in"))
			e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))
		}
		return tickContinue

	case room.RoundReveal:
		left := cr.RevealEndsAtMS - now
		e.bc.Broadcast(r, network.NewTimerEvent(network.PhaseReveal, max64(0, left)))
		if left <= 0 {
			cr.Status = room.RoundEnded
			e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))

			if r.RoundNumber >= r.RoundsTotal {
				r.GameStatus = room.GameFinished
				e.bc.Broadcast(r, network.NewToast(network.ToastOK, "Game over"))
				e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))
				e.archiveLocked(r)
				return tickStop
			}
			return tickNextRound
		}
		return tickContinue

	default:
		return tickStop
	}
}

// archiveLocked hands the finished game to the record store, if one is
// configured. Failures are logged and never affect the room.
func (e *Engine) archiveLocked(r *room.Room) {
	if e.records == nil {
		return
	}
	record := services.BuildGameRecord(r)
	go func() {
		if err := e.records.SaveFinishedGame(record); err != nil {
			logger.Log.Errorf("failed to archive game %s: %v", record.RoomCode, err)
		}
	}()
}

// recoverRoomTask converts a panic in a room task into a logged, room-local
// failure: the task dies, its generation is retired, other rooms and the
// dispatcher keep running.
func (e *Engine) recoverRoomTask(r *room.Room, gen uint64, task string) {
	rec := recover()
	if rec == nil {
		return
	}
	logger.Log.Errorf("room %s %s task panicked: %v", r.Code, task, rec)
	r.Mu.Lock()
	if gen == r.TimerGen {
		r.NextTimerGen()
	}
	r.Mu.Unlock()
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// HandleAction validates one decoded player action against the current room
// state and applies it. Actions whose preconditions no longer hold are
// dropped silently: a guess racing a phase transition is normal, not a
// fault.
func (e *Engine) HandleAction(r *room.Room, userID string, action network.Action) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	isHost := r.HostUserID == userID
	cr := r.CurrentRound

	switch a := action.(type) {
	case network.StartGameAction:
		if isHost && r.GameStatus == room.GameLobby {
			e.startCountdownLocked(r, e.countdownSeconds)
		}

	case network.SetSettingsAction:
		if !isHost || r.GameStatus != room.GameLobby {
			return
		}
		if region := strings.ToUpper(a.Region); region != "" {
			if _, ok := geo.Regions[region]; ok {
				r.Region = region
			}
		}
		if country := strings.ToUpper(a.Country); country != "" {
			if _, ok := geo.Countries[country]; ok {
				r.Country = country
			}
		}
		e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))

	case network.PanoReadyAction:
		if !isHost || cr == nil || cr.Status != room.RoundRunning {
			return
		}
		if cr.True != nil {
			// Already confirmed for this round; later calls are ignored.
			return
		}
		truePoint := cr.Seed
		if a.TrueLat != nil && a.TrueLng != nil {
			truePoint = geo.Point{Lat: *a.TrueLat, Lng: *a.TrueLng}
		}
		cr.True = &truePoint
		e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))

	case network.GuessAction:
		if cr == nil || cr.Status != room.RoundRunning || r.GameStatus != room.GameRunning {
			e.bc.SendTo(r, userID, network.NewToast(network.ToastError, "You can't guess right now"))
			return
		}
		if a.Lat == nil || a.Lng == nil {
			return
		}
		p, ok := r.Players[userID]
		if !ok || p.HasGuessed {
			return
		}
		p.Guess = &geo.Point{Lat: *a.Lat, Lng: *a.Lng}
		p.HasGuessed = true
		e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))

	case network.RerollAction:
		if !isHost || cr == nil || cr.Status != room.RoundRunning {
			return
		}
		// Round timing is deliberately untouched: only the target moves.
		cr.Seed = geo.PickPoint(r.BBox())
		cr.True = nil
		e.bc.Broadcast(r, network.NewToast(network.ToastInfo, "Location rerolled"))
		e.bc.Broadcast(r, network.NewStateEvent(r.PublicState()))
	}
}
