package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abc12345", false},
		{"Abc12345", false},
		{"Abc!2345", true},
		{"A!1a", false},
		{"ABC!2345", false},
		{"abc!defg", false},
		{"Abc!2345 ", false},
		{"Pässw0rd!", false},
		{"Str0ng&Secure", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.ok && err != nil {
			t.Errorf("ValidatePassword(%q) unexpected error %v", tt.password, err)
		}
		if !tt.ok && !errors.Is(err, ErrWeakPassword) {
			t.Errorf("ValidatePassword(%q) = %v, want ErrWeakPassword", tt.password, err)
		}
	}
}

func TestValidatePasswordPair(t *testing.T) {
	if err := ValidatePasswordPair("Abc!2345", "Abc!2346"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := ValidatePasswordPair("abc12345", "abc12345"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password to be reported first, got %v", err)
	}
	if err := ValidatePasswordPair("Abc!2345", "Abc!2345"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("Abc!2345", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := ComparePassword(hash, "Abc!2345"); err != nil {
		t.Fatalf("ComparePassword failed: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
