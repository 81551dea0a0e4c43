package auth

import (
	"strings"
	"testing"
)

func TestSigner_SignAndVerify(t *testing.T) {
	signer := NewSigner("test-secret")

	sig := signer.Sign("ABC234", "alice")
	if sig == "" {
		t.Fatal("Sign returned an empty signature")
	}

	if !signer.Verify("ABC234", "alice", sig) {
		t.Error("Verify should accept a signature it produced")
	}

	if signer.Verify("ABC234", "bob", sig) {
		t.Error("Verify must reject a signature bound to a different user")
	}
	if signer.Verify("XYZ789", "alice", sig) {
		t.Error("Verify must reject a signature bound to a different room")
	}
	if signer.Verify("ABC234", "alice", sig+"x") {
		t.Error("Verify must reject a tampered signature")
	}
}

func TestSigner_DistinctSecrets(t *testing.T) {
	a := NewSigner("secret-a")
	b := NewSigner("secret-b")

	sig := a.Sign("ABC234", "alice")
	if b.Verify("ABC234", "alice", sig) {
		t.Error("A signature from one secret must not verify under another")
	}
}

func TestNewSigner_EmptySecretGetsRandom(t *testing.T) {
	a := NewSigner("")
	b := NewSigner("")

	sig := a.Sign("ABC234", "alice")
	if !a.Verify("ABC234", "alice", sig) {
		t.Error("A random-secret signer should verify its own signatures")
	}
	if b.Verify("ABC234", "alice", sig) {
		t.Error("Two random-secret signers should not share a secret")
	}
}

func TestJoinURL(t *testing.T) {
	url := JoinURL("https://example.com", "ABC234", "user with spaces", "si/g+", "Ann & Co")

	if !strings.HasPrefix(url, "https://example.com/room/ABC234?") {
		t.Errorf("Unexpected join URL prefix: %s", url)
	}
	if strings.Contains(url, " ") {
		t.Errorf("Join URL should escape spaces: %s", url)
	}
	if !strings.Contains(url, "user=user+with+spaces") {
		t.Errorf("Expected escaped user parameter, got: %s", url)
	}
}

func TestJoinQRCode(t *testing.T) {
	png, err := JoinQRCode("https://example.com/room/ABC234?user=alice")
	if err != nil {
		t.Fatalf("JoinQRCode failed: %v", err)
	}
	// PNG magic header.
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("JoinQRCode should return PNG data")
	}
}
