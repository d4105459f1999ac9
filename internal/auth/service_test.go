package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/storefront-admin/pkg/auth"
	"github.com/angelmondragon/storefront-admin/pkg/auth/session"
	"github.com/angelmondragon/storefront-admin/pkg/auth/session/sessiontest"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:                 "secret",
	Issuer:                 "storefront",
	ExpirationMinutes:      30,
	RefreshTokenTTLMinutes: 120,
}

type stubGoogle struct {
	identity GoogleIdentity
	err      error
}

func (s stubGoogle) Verify(context.Context, string) (GoogleIdentity, error) {
	return s.identity, s.err
}

type harness struct {
	svc      Service
	client   *db.Client
	sessions *sessiontest.MemoryStore
	hasher   *security.Hasher
}

func newHarness(t *testing.T, google GoogleVerifier) harness {
	t.Helper()
	client := dbtest.Open(t)
	store := sessiontest.NewMemoryStore()
	manager, err := session.NewManagerWithStore(store, testJWT)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	hasher := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	svc, err := NewService(ServiceParams{
		DB:             client,
		SessionManager: manager,
		Hasher:         hasher,
		JWTConfig:      testJWT,
		Google:         google,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return harness{svc: svc, client: client, sessions: store, hasher: hasher}
}

func (h harness) seedUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{Name: "Seed", Email: email, PasswordHash: hash, Role: enums.UserRoleAdmin, IsActive: active}
	if err := h.client.DB().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginIssuesTokensAndSession(t *testing.T) {
	h := newHarness(t, nil)
	user := h.seedUser(t, "admin@example.com", "s3cret-pass", true)

	resp, err := h.svc.Login(context.Background(), LoginRequest{Email: "ADMIN@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 1800 {
		t.Fatalf("unexpected token metadata %+v", resp)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if h.sessions.Len() != 1 {
		t.Fatalf("expected one session, got %d", h.sessions.Len())
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t, nil)
	h.seedUser(t, "on@example.com", "password1", true)
	h.seedUser(t, "off@example.com", "password1", false)

	cases := []struct {
		email, password string
		code            pkgerrors.Code
	}{
		{"on@example.com", "wrong-pass", pkgerrors.CodeUnauthorized},
		{"missing@example.com", "password1", pkgerrors.CodeUnauthorized},
		{"off@example.com", "password1", pkgerrors.CodeForbidden},
	}
	for _, tc := range cases {
		_, err := h.svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.email, tc.code, err)
		}
	}
}

func TestRegisterCreatesCustomerAndRejectsDuplicate(t *testing.T) {
	h := newHarness(t, nil)
	req := RegisterRequest{Name: "New", Email: "new@example.com", Password: "password1"}

	resp, err := h.svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer, got %s", resp.User.Role)
	}

	_, err = h.svc.RegisterAdmin(context.Background(), req)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	h := newHarness(t, nil)
	h.seedUser(t, "r@example.com", "password1", true)
	ctx := context.Background()

	first, err := h.svc.Login(ctx, LoginRequest{Email: "r@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	second, err := h.svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}
	if _, err := h.svc.Refresh(ctx, first.AccessToken, first.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("reused refresh token should fail, got %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, second.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := h.svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected no sessions after logout, got %d", h.sessions.Len())
	}
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	h := newHarness(t, nil)
	user := h.seedUser(t, "e@example.com", "password1", true)
	ctx := context.Background()

	accessID := session.NewAccessID()
	manager, _ := session.NewManagerWithStore(h.sessions, testJWT)
	refresh, err := manager.Generate(ctx, accessID, user.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := pkgAuth.MintAccessToken(testJWT, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{UserID: user.ID, Role: user.Role, JTI: accessID})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := h.svc.Refresh(ctx, expired, refresh); err != nil {
		t.Fatalf("refresh with expired access token: %v", err)
	}
}

func TestGoogleCreatesThenLinksUser(t *testing.T) {
	h := newHarness(t, stubGoogle{identity: GoogleIdentity{Subject: "g-1", Email: "G@example.com", Name: "Gee"}})
	ctx := context.Background()

	resp, err := h.svc.Google(ctx, GoogleRequest{IDToken: "token"})
	if err != nil {
		t.Fatalf("google: %v", err)
	}
	if resp.User.Email != "g@example.com" || resp.User.Name != "Gee" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	again, err := h.svc.Google(ctx, GoogleRequest{IDToken: "token"})
	if err != nil {
		t.Fatalf("google again: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Fatalf("expected the same user, got %d and %d", resp.User.ID, again.User.ID)
	}

	existing := h.seedUser(t, "linked@example.com", "password1", true)
	svc, err := NewService(ServiceParams{DB: h.client, SessionManager: mustManager(t, h.sessions), Hasher: h.hasher, JWTConfig: testJWT, Google: stubGoogle{identity: GoogleIdentity{Subject: "g-2", Email: "linked@example.com"}}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	linked, err := svc.Google(ctx, GoogleRequest{IDToken: "token"})
	if err != nil {
		t.Fatalf("google link: %v", err)
	}
	if linked.User.ID != existing.ID {
		t.Fatalf("expected link to existing user %d, got %d", existing.ID, linked.User.ID)
	}
}

func TestGoogleRejectsInvalidToken(t *testing.T) {
	h := newHarness(t, stubGoogle{err: errors.New("bad audience")})
	if _, err := h.svc.Google(context.Background(), GoogleRequest{IDToken: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	unconfigured := newHarness(t, nil)
	if _, err := unconfigured.svc.Google(context.Background(), GoogleRequest{IDToken: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
}

func mustManager(t *testing.T, store session.Store) *session.Manager {
	t.Helper()
	m, err := session.NewManagerWithStore(store, testJWT)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return m
}
