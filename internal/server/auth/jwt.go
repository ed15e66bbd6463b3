// Package auth implements the two authentication factors: signed session
// cookies (JWT) issued after a password login, and time-based one-time
// passwords verified against the per-user secret from the credentials
// document.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/synogpt/synogpt/internal/common"
)

// SessionClaims carries the per-session authentication state inside the
// session cookie. OTPVerified stays false until the second factor passes;
// handlers behind the OTP gate must reject tokens without it.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username    string `json:"username"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	SessionID   string `json:"sid"`
	OTPVerified bool   `json:"otp"`
}

func GenerateToken(claims SessionClaims, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetClaimsFromToken(tokenString string, secretKey []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
