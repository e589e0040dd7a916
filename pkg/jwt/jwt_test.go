package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "kasir@example.com", "Kasir", "USER", []string{"pos:checkout"}, "v1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.RoleCode != "USER" || claims.TokenVersion != "v1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Privileges) != 1 || claims.Privileges[0] != "pos:checkout" {
		t.Fatalf("unexpected privileges: %v", claims.Privileges)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", nil, "v")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := &Manager{secret: []byte("s"), ttl: -time.Minute, issuer: "test"}
	token, err := m.GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", nil, "v")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateEmpty(t *testing.T) {
	if _, err := NewManager("", 0).ValidateToken(""); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
