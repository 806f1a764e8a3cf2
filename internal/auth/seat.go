package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justinabrahms/squarechess/internal/chess"
)

var (
	ErrInvalidToken = errors.New("invalid seat token")
	ErrWrongSeat    = errors.New("token is not for this seat")
)

const issuer = "squarechess"

// SeatClaims are the claims of a seat token: which game and which color the
// bearer plays.
type SeatClaims struct {
	GameID string `json:"gid"`
	Color  string `json:"color"`
	jwt.RegisteredClaims
}

// Issuer signs and checks HS256 seat tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A zero ttl issues tokens that never expire.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a token for one seat of a game.
func (i *Issuer) Issue(gameID string, color chess.Color) (string, error) {
	now := i.now()
	claims := SeatClaims{
		GameID: gameID,
		Color:  color.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  gameID + ":" + color.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign seat token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims.
func (i *Issuer) Verify(tokenString string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := chess.ParseColor(claims.Color); err != nil {
		return nil, fmt.Errorf("%w: color %q", ErrInvalidToken, claims.Color)
	}
	return claims, nil
}

// Authorize checks that tokenString is valid for gameID and, when seat is
// not nil, for that color.
func (i *Issuer) Authorize(tokenString, gameID string, seat *chess.Color) (*SeatClaims, error) {
	claims, err := i.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.GameID != gameID {
		return nil, fmt.Errorf("%w: issued for game %s", ErrWrongSeat, claims.GameID)
	}
	if seat != nil && claims.Color != seat.String() {
		return nil, fmt.Errorf("%w: %s cannot move for %s", ErrWrongSeat, claims.Color, seat)
	}
	return claims, nil
}

// NewSecret returns 32 random bytes, base64url encoded, suitable as a seat
// signing secret.
func NewSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
