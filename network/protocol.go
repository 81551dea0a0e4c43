package network

import (
	"encoding/json"
	"fmt"
)

// Outbound event discriminants.
const (
	EventState     = "state"
	EventCountdown = "countdown"
	EventTimer     = "timer"
	EventRoundEnd  = "round_end"
	EventToast     = "toast"
)

// Toast kinds.
const (
	ToastInfo  = "info"
	ToastError = "error"
	ToastOK    = "ok"
)

// Round timer phases.
const (
	PhaseGuess  = "guess"
	PhaseReveal = "reveal"
)

type StateEvent struct {
	T     string      `json:"t"`
	State interface{} `json:"state"`
}

type CountdownEvent struct {
	T        string `json:"t"`
	EndsAtMS int64  `json:"ends_at_ms"`
}

type TimerEvent struct {
	T      string `json:"t"`
	Phase  string `json:"phase"`
	MSLeft int64  `json:"ms_left"`
}

type RoundEndEvent struct {
	T              string   `json:"t"`
	Winners        []string `json:"winners"`
	NoGuess        []string `json:"no_guess"`
	BestDistanceKM *float64 `json:"best_distance_km"`
}

type ToastEvent struct {
	T    string `json:"t"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func NewStateEvent(state interface{}) StateEvent {
	return StateEvent{T: EventState, State: state}
}

func NewCountdownEvent(endsAtMS int64) CountdownEvent {
	return CountdownEvent{T: EventCountdown, EndsAtMS: endsAtMS}
}

func NewTimerEvent(phase string, msLeft int64) TimerEvent {
	return TimerEvent{T: EventTimer, Phase: phase, MSLeft: msLeft}
}

func NewRoundEndEvent(winners, noGuess []string, bestDistanceKM *float64) RoundEndEvent {
	return RoundEndEvent{T: EventRoundEnd, Winners: winners, NoGuess: noGuess, BestDistanceKM: bestDistanceKM}
}

func NewToast(kind, text string) ToastEvent {
	return ToastEvent{T: EventToast, Kind: kind, Text: text}
}

// Action is one decoded inbound player action. The concrete type carries the
// payload; unknown or precondition-failing actions are handled by the game
// engine, not here.
type Action interface {
	isAction()
}

type StartGameAction struct{}

type SetSettingsAction struct {
	Region  string
	Country string
}

type PanoReadyAction struct {
	TrueLat *float64
	TrueLng *float64
}

type GuessAction struct {
	Lat *float64
	Lng *float64
}

type RerollAction struct{}

func (StartGameAction) isAction()   {}
func (SetSettingsAction) isAction() {}
func (PanoReadyAction) isAction()   {}
func (GuessAction) isAction()       {}
func (RerollAction) isAction()      {}

// DecodeAction parses an inbound frame into a typed action. A malformed
// frame returns an error; a well-formed frame with an unrecognized "t"
// returns (nil, nil) so the caller can ignore it.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		T string `json:"t"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed action frame: %w", err)
	}

	switch envelope.T {
	case "start_game":
		return StartGameAction{}, nil
	case "set_settings":
		var payload struct {
			Region  string `json:"region"`
			Country string `json:"country"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("malformed set_settings payload: %w", err)
		}
		return SetSettingsAction{Region: payload.Region, Country: payload.Country}, nil
	case "pano_ready":
		var payload struct {
			TrueLat *float64 `json:"trueLat"`
			TrueLng *float64 `json:"trueLng"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("malformed pano_ready payload: %w", err)
		}
		return PanoReadyAction{TrueLat: payload.TrueLat, TrueLng: payload.TrueLng}, nil
	case "guess":
		var payload struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("malformed guess payload: %w", err)
		}
		return GuessAction{Lat: payload.Lat, Lng: payload.Lng}, nil
	case "reroll":
		return RerollAction{}, nil
	default:
		return nil, nil
	}
}
