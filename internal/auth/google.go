package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token we rely on.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier checks a Google ID token for the configured client.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

type idTokenVerifier struct {
	audience string
}

// NewGoogleVerifier validates tokens with Google's published keys.
func NewGoogleVerifier(clientID string) (GoogleVerifier, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	return &idTokenVerifier{audience: clientID}, nil
}

func (v *idTokenVerifier) Verify(ctx context.Context, token string) (GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return GoogleIdentity{}, err
	}
	identity := GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, nil
}
