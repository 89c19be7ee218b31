package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims - access token claims; the player id travels in the jti claim.
type UserClaims struct {
	jwt.RegisteredClaims
}
