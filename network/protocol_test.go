package network

import (
	"testing"
)

func TestDecodeAction_Malformed(t *testing.T) {
	if _, err := DecodeAction([]byte("not json")); err == nil {
		t.Error("Expected an error for a malformed frame")
	}
}

func TestDecodeAction_UnknownTypeIsIgnored(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "dance"}`))
	if err != nil {
		t.Fatalf("Unknown action type should not be an error, got: %v", err)
	}
	if action != nil {
		t.Errorf("Unknown action type should decode to nil, got %T", action)
	}
}

func TestDecodeAction_StartGame(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "start_game"}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}
	if _, ok := action.(StartGameAction); !ok {
		t.Errorf("Expected StartGameAction, got %T", action)
	}
}

func TestDecodeAction_Guess(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "guess", "lat": 48.85, "lng": 2.35}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}

	guess, ok := action.(GuessAction)
	if !ok {
		t.Fatalf("Expected GuessAction, got %T", action)
	}
	if guess.Lat == nil || *guess.Lat != 48.85 {
		t.Errorf("Expected lat 48.85, got %v", guess.Lat)
	}
	if guess.Lng == nil || *guess.Lng != 2.35 {
		t.Errorf("Expected lng 2.35, got %v", guess.Lng)
	}
}

func TestDecodeAction_GuessMissingCoordinate(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "guess", "lat": 48.85}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}

	guess := action.(GuessAction)
	if guess.Lng != nil {
		t.Error("Missing lng should decode to nil, not a zero value")
	}
}

func TestDecodeAction_GuessNonNumericCoordinate(t *testing.T) {
	if _, err := DecodeAction([]byte(`{"t": "guess", "lat": "here", "lng": 2.35}`)); err == nil {
		t.Error("Expected an error for a non-numeric coordinate")
	}
}

func TestDecodeAction_SetSettings(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "set_settings", "region": "EUROPE", "country": "FR"}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}

	settings, ok := action.(SetSettingsAction)
	if !ok {
		t.Fatalf("Expected SetSettingsAction, got %T", action)
	}
	if settings.Region != "EUROPE" || settings.Country != "FR" {
		t.Errorf("Unexpected payload: %+v", settings)
	}
}

func TestDecodeAction_PanoReady(t *testing.T) {
	action, err := DecodeAction([]byte(`{"t": "pano_ready", "trueLat": 1.5, "trueLng": -2.5}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}

	pano, ok := action.(PanoReadyAction)
	if !ok {
		t.Fatalf("Expected PanoReadyAction, got %T", action)
	}
	if pano.TrueLat == nil || *pano.TrueLat != 1.5 || pano.TrueLng == nil || *pano.TrueLng != -2.5 {
		t.Errorf("Unexpected payload: %+v", pano)
	}
}
