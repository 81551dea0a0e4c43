// room/state.go
package room

import (
	"github.com/wfunc/geoserver/geo"
)

// PublicRound is the client-visible view of the current round. True is
// included only once confirmed or revealed.
type PublicRound struct {
	Index          int         `json:"index"`
	SeedLat        float64     `json:"seed_lat"`
	SeedLng        float64     `json:"seed_lng"`
	StartedAtMS    int64       `json:"started_at_ms"`
	EndsAtMS       int64       `json:"ends_at_ms"`
	RevealEndsAtMS int64       `json:"reveal_ends_at_ms"`
	Status         RoundStatus `json:"status"`
	True           *geo.Point  `json:"true"`
}

type PublicPlayer struct {
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	TotalScore     int      `json:"total_score"`
	HasGuessed     bool     `json:"has_guessed"`
	LastDistanceKM *float64 `json:"last_distance_km"`
	LastScore      *int     `json:"last_score"`
}

// PublicGuess is one submitted guess in the current round. Distance and
// score stay nil until the reveal computes them.
type PublicGuess struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	DistanceKM *float64 `json:"distance_km"`
	Score      *int     `json:"score"`
}

// PublicState is the full state snapshot fanned out to every client.
type PublicState struct {
	Code              string            `json:"code"`
	HostUserID        string            `json:"host_user_id"`
	GameStatus        GameStatus        `json:"game_status"`
	CountdownEndsAtMS int64             `json:"countdown_ends_at_ms"`
	RoundNumber       int               `json:"round_number"`
	RoundsTotal       int               `json:"rounds_total"`
	RoundSeconds      int               `json:"round_seconds"`
	RevealSeconds     int               `json:"reveal_seconds"`
	Region            string            `json:"region"`
	Country           string            `json:"country"`
	Regions           map[string]string `json:"regions"`
	Countries         map[string]string `json:"countries"`
	CurrentRound      *PublicRound      `json:"current_round"`
	Players           []PublicPlayer    `json:"players"`
	Guesses           []PublicGuess     `json:"guesses"`
}

// PublicState builds the snapshot for broadcast. Caller must hold Mu.
func (r *Room) PublicState() PublicState {
	players := r.sortedPlayers()

	publicPlayers := make([]PublicPlayer, 0, len(players))
	guesses := make([]PublicGuess, 0)
	for _, p := range players {
		publicPlayers = append(publicPlayers, PublicPlayer{
			UserID:         p.UserID,
			Name:           p.Name,
			TotalScore:     p.TotalScore,
			HasGuessed:     p.HasGuessed,
			LastDistanceKM: p.LastDistanceKM,
			LastScore:      p.LastScore,
		})
		if p.Guess != nil {
			guesses = append(guesses, PublicGuess{
				UserID:     p.UserID,
				Name:       p.Name,
				Lat:        p.Guess.Lat,
				Lng:        p.Guess.Lng,
				DistanceKM: p.LastDistanceKM,
				Score:      p.LastScore,
			})
		}
	}

	var currentRound *PublicRound
	if cr := r.CurrentRound; cr != nil {
		currentRound = &PublicRound{
			Index:          cr.Index,
			SeedLat:        cr.Seed.Lat,
			SeedLng:        cr.Seed.Lng,
			StartedAtMS:    cr.StartedAtMS,
			EndsAtMS:       cr.EndsAtMS,
			RevealEndsAtMS: cr.RevealEndsAtMS,
			Status:         cr.Status,
			True:           cr.True,
		}
	}

	return PublicState{
		Code:              r.Code,
		HostUserID:        r.HostUserID,
		GameStatus:        r.GameStatus,
		CountdownEndsAtMS: r.CountdownEndsAtMS,
		RoundNumber:       r.RoundNumber,
		RoundsTotal:       r.RoundsTotal,
		RoundSeconds:      r.RoundSeconds,
		RevealSeconds:     r.RevealSeconds,
		Region:            r.Region,
		Country:           r.Country,
		Regions:           geo.RegionNames(),
		Countries:         geo.CountryNames(),
		CurrentRound:      currentRound,
		Players:           publicPlayers,
		Guesses:           guesses,
	}
}
