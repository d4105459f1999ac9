package adminclient

import (
	"context"
	"net/http"
	"time"
)

type User struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Phone       *string    `json:"phone"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

// Login exchanges credentials for a session and stores its tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req, err := jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[Session]
	if err := c.do(ctx, req, &env); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(Token{AccessToken: env.Data.AccessToken, RefreshToken: env.Data.RefreshToken}); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout revokes the session server side. The local token is dropped even
// when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var env dataEnvelope[User]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
