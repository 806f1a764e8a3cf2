package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/squarechess/internal/chess"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	token, err := issuer.Issue("game-1", chess.Black)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameID)
	assert.Equal(t, "black", claims.Color)
	assert.Equal(t, "squarechess", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	token, err := NewIssuer([]byte("one"), 0).Issue("g", chess.White)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("two"), 0).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Minute)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue("g", chess.White)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := SeatClaims{GameID: "g", Color: "white", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer([]byte("secret"), 0).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsUnknownColor(t *testing.T) {
	claims := SeatClaims{GameID: "g", Color: "green", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer([]byte("secret"), 0).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestAuthorize(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), 0)
	token, err := issuer.Issue("game-1", chess.White)
	require.NoError(t, err)

	white, black := chess.White, chess.Black

	_, err = issuer.Authorize(token, "game-1", &white)
	assert.NoError(t, err)
	_, err = issuer.Authorize(token, "game-1", nil)
	assert.NoError(t, err)

	_, err = issuer.Authorize(token, "game-1", &black)
	assert.True(t, errors.Is(err, ErrWrongSeat))
	_, err = issuer.Authorize(token, "game-2", nil)
	assert.True(t, errors.Is(err, ErrWrongSeat))
	_, err = issuer.Authorize("not.a.token", "game-1", nil)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
