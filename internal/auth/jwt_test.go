package auth

import (
	"testing"
	"time"
)

func TestBuildAndParseJWT(t *testing.T) {
	secret := []byte("test-secret-min-32-chars-xxxxxxxxxxxxxxx")
	pracID := "ah"
	tok, err := BuildJWT(secret, "user-1", RolePractitioner, &pracID, time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	c, err := ParseJWT(secret, tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if c.UserID != "user-1" || c.Role != RolePractitioner {
		t.Errorf("unexpected claims: %+v", c)
	}
	if c.PractitionerID == nil || *c.PractitionerID != "ah" {
		t.Errorf("expected practitioner_id ah, got %v", c.PractitionerID)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok, err := BuildJWT([]byte("secret-a-min-32-chars-xxxxxxxxxxxxxxxxxx"), "user-1", RoleAssistant, nil, time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT([]byte("secret-b-min-32-chars-xxxxxxxxxxxxxxxxxx"), tok); err == nil {
		t.Error("expected error with wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	secret := []byte("test-secret-min-32-chars-xxxxxxxxxxxxxxx")
	tok, err := BuildJWT(secret, "user-1", RolePractitioner, nil, -time.Minute)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT(secret, tok); err == nil {
		t.Error("expected error for expired token")
	}
}
