package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "pw"},
		{name: "empty password", password: "", wantErr: ErrPasswordRequired},
		{name: "password at maximum length", password: strings.Repeat("a", 72)},
		{name: "password too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, 4)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HashPassword() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if hash == tt.password {
				t.Error("hash must differ from the password")
			}
			if err := CheckPassword(tt.password, hash); err != nil {
				t.Errorf("CheckPassword() on own hash failed: %v", err)
			}
		})
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := CheckPassword("wrong", hash); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}
	b, _ := GenerateSessionSecret()

	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("secrets should be random")
	}
}

func TestGeneratePassword(t *testing.T) {
	password, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword() error = %v", err)
	}
	if len(password) != 20 {
		t.Errorf("expected 20 characters, got %d", len(password))
	}
	if _, err := HashPassword(password, 4); err != nil {
		t.Errorf("generated password should be hashable: %v", err)
	}
}
