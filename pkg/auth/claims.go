package auth

import (
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload is what the issuer knows about the caller at mint time.
type AccessTokenPayload struct {
	UserID uint
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims is the signed body of an access token. The JTI doubles
// as the key of the refresh session bound to the token.
type AccessTokenClaims struct {
	UserID uint           `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c != nil && c.Role == enums.UserRoleAdmin
}
