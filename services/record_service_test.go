package services

import (
	"errors"
	"testing"

	"github.com/wfunc/geoserver/models"
	"github.com/wfunc/geoserver/persistence"
	"github.com/wfunc/geoserver/room"
	"github.com/wfunc/geoserver/session"
)

// MockDatabase records calls and returns canned results.
type MockDatabase struct {
	records     []*models.GameRecord
	careers     map[string]*models.PlayerCareer
	saveErr     error
	upsertCalls []upsertCall
}

type upsertCall struct {
	userID string
	games  int
	wins   int
	score  int64
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{careers: make(map[string]*models.PlayerCareer)}
}

func (m *MockDatabase) SaveGameRecord(record *models.GameRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockDatabase) UpsertPlayerCareer(userID string, games, wins int, score int64) error {
	m.upsertCalls = append(m.upsertCalls, upsertCall{userID, games, wins, score})
	return nil
}

func (m *MockDatabase) GetPlayerCareer(userID string) (*models.PlayerCareer, error) {
	c, ok := m.careers[userID]
	if !ok {
		return nil, persistence.ErrRecordNotFound
	}
	return c, nil
}

func (m *MockDatabase) Close() error { return nil }

func finishedRoom() *room.Room {
	return &room.Room{
		Code:        "ARCH77",
		HostUserID:  "alice",
		Region:      "EUROPE",
		RoundNumber: 3,
		RoundsTotal: 3,
		GameStatus:  room.GameFinished,
		Players: map[string]*room.Player{
			"alice": {UserID: "alice", Name: "Alice", TotalScore: 9000},
			"bob":   {UserID: "bob", Name: "Bob", TotalScore: 9000},
			"carol": {UserID: "carol", Name: "Carol", TotalScore: 1200},
		},
		Sessions: make(map[string]*session.Session),
	}
}

func TestBuildGameRecord(t *testing.T) {
	r := finishedRoom()

	r.Mu.Lock()
	record := BuildGameRecord(r)
	r.Mu.Unlock()

	if record.RoomCode != "ARCH77" || record.Region != "EUROPE" {
		t.Errorf("Unexpected record header: %+v", record)
	}
	if record.RoundsPlayed != 3 {
		t.Errorf("Expected 3 rounds played, got %d", record.RoundsPlayed)
	}
	if len(record.Players) != 3 {
		t.Fatalf("Expected 3 player results, got %d", len(record.Players))
	}

	winners := 0
	for _, p := range record.Players {
		switch p.UserID {
		case "alice", "bob":
			if !p.Winner {
				t.Errorf("Expected %s to be a winner", p.UserID)
			}
			winners++
		case "carol":
			if p.Winner {
				t.Error("Carol must not be a winner")
			}
		}
	}
	if winners != 2 {
		t.Errorf("Tied top scores must all win, got %d winners", winners)
	}
}

func TestBuildGameRecord_NoWinnerAtZero(t *testing.T) {
	r := finishedRoom()
	for _, p := range r.Players {
		p.TotalScore = 0
	}

	r.Mu.Lock()
	record := BuildGameRecord(r)
	r.Mu.Unlock()

	for _, p := range record.Players {
		if p.Winner {
			t.Errorf("A zero-score game has no winners, but %s won", p.UserID)
		}
	}
}

func TestSaveFinishedGame(t *testing.T) {
	db := NewMockDatabase()
	svc := NewRecordService(db)

	r := finishedRoom()
	r.Mu.Lock()
	record := BuildGameRecord(r)
	r.Mu.Unlock()

	if err := svc.SaveFinishedGame(record); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	if len(db.records) != 1 {
		t.Fatalf("Expected one stored record, got %d", len(db.records))
	}
	if len(db.upsertCalls) != 3 {
		t.Fatalf("Expected one career upsert per player, got %d", len(db.upsertCalls))
	}

	for _, call := range db.upsertCalls {
		if call.games != 1 {
			t.Errorf("Each game counts once, got %d for %s", call.games, call.userID)
		}
		wantWins := 0
		if call.userID == "alice" || call.userID == "bob" {
			wantWins = 1
		}
		if call.wins != wantWins {
			t.Errorf("Expected %d wins for %s, got %d", wantWins, call.userID, call.wins)
		}
	}
}

func TestSaveFinishedGame_PropagatesError(t *testing.T) {
	db := NewMockDatabase()
	db.saveErr = errors.New("connection refused")
	svc := NewRecordService(db)

	r := finishedRoom()
	r.Mu.Lock()
	record := BuildGameRecord(r)
	r.Mu.Unlock()

	if err := svc.SaveFinishedGame(record); err == nil {
		t.Fatal("Expected the storage error to propagate")
	}
	if len(db.upsertCalls) != 0 {
		t.Error("Career upserts must not run when the record save fails")
	}
}

func TestGetPlayerCareer(t *testing.T) {
	db := NewMockDatabase()
	db.careers["alice"] = &models.PlayerCareer{UserID: "alice", Games: 10, Wins: 4, TotalScore: 41000}
	svc := NewRecordService(db)

	career, err := svc.GetPlayerCareer("alice")
	if err != nil {
		t.Fatalf("Expected a career, got %v", err)
	}
	if career.Wins != 4 {
		t.Errorf("Expected 4 wins, got %d", career.Wins)
	}

	if _, err := svc.GetPlayerCareer("nobody"); !errors.Is(err, persistence.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}
