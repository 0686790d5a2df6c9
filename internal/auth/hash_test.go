package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("Dentiste123!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(h, "Dentiste123!") {
		t.Error("expected password to match")
	}
	if CheckPassword(h, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
