package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-admin/pkg/auth/session"
	"github.com/angelmondragon/storefront-admin/pkg/auth/session/sessiontest"
	"github.com/angelmondragon/storefront-admin/pkg/config"
)

func newManager(t *testing.T) (*session.Manager, *sessiontest.MemoryStore) {
	t.Helper()
	store := sessiontest.NewMemoryStore()
	m, err := session.NewManagerWithStore(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, store
}

func TestManagerGenerateAndRotate(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	token, err := m.Generate(ctx, "access-1", 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatalf("expected refresh token")
	}

	newID, newToken, userID, err := m.Rotate(ctx, "access-1", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newID == "access-1" || newToken == token {
		t.Fatalf("rotation must issue new identifiers")
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}
	if store.Len() != 1 {
		t.Fatalf("expected old session removed, have %d", store.Len())
	}

	if _, _, _, err := m.Rotate(ctx, "access-1", token); !errors.Is(err, session.ErrInvalidRefreshToken) {
		t.Fatalf("expected reuse to fail, got %v", err)
	}
}

func TestManagerRotateRejectsWrongToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	if _, err := m.Generate(ctx, "access-1", 1); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, _, err := m.Rotate(ctx, "access-1", "forged"); !errors.Is(err, session.ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}
	if _, _, _, err := m.Rotate(ctx, "", "x"); !errors.Is(err, session.ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token for blank id, got %v", err)
	}
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	if _, err := m.Generate(ctx, "access-1", 1); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := m.HasSession(ctx, "access-1")
	if err != nil || !ok {
		t.Fatalf("expected live session ok=%v err=%v", ok, err)
	}
	if err := m.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = m.HasSession(ctx, "access-1")
	if err != nil || ok {
		t.Fatalf("expected no session after revoke ok=%v err=%v", ok, err)
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	store := sessiontest.NewMemoryStore()
	if _, err := session.NewManagerWithStore(store, config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30}); err == nil {
		t.Fatalf("expected error when refresh ttl does not exceed access ttl")
	}
	if _, err := session.NewManagerWithStore(nil, config.JWTConfig{ExpirationMinutes: 1, RefreshTokenTTLMinutes: 30}); err == nil {
		t.Fatalf("expected error without store")
	}
}
