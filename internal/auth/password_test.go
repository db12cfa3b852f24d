package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("गुप्त-शब्द")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !IsHashed(h) {
		t.Errorf("hash %q not recognised", h)
	}

	ok, err := CheckPassword(h, "गुप्त-शब्द")
	if err != nil || !ok {
		t.Errorf("CheckPassword(right) = %v, %v", ok, err)
	}
	ok, err = CheckPassword(h, "wrong")
	if err != nil || ok {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
}

func TestPasswordTruncatedAt72Bytes(t *testing.T) {
	long := strings.Repeat("a", 72)
	h, err := HashPassword(long + "tail")
	if err != nil {
		t.Fatalf("hash long password: %v", err)
	}
	ok, err := CheckPassword(h, long+"different tail")
	if err != nil || !ok {
		t.Errorf("CheckPassword past 72 bytes = %v, %v; want match", ok, err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if _, err := CheckPassword("plain-text", "plain-text"); err == nil {
		t.Error("expected error for non-bcrypt hash")
	}
}

func TestIsHashed(t *testing.T) {
	tests := map[string]bool{
		"$2a$10$abc": true,
		"$2b$12$abc": true,
		"$2y$10$abc": true,
		"password":   false,
		"$argon2id$": false,
		"":           false,
	}
	for in, want := range tests {
		if got := IsHashed(in); got != want {
			t.Errorf("IsHashed(%q) = %v, want %v", in, got, want)
		}
	}
}
