package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the "exp" claim of token if it is a JWT.
// The signature is not verified; the server remains the authority.
// ok is false for opaque tokens and JWTs without an expiry.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
