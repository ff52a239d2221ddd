package authn

import (
	"testing"
	"time"

	"github.com/firewatch-geo/firewatch-services/internal/appconfig"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(appconfig.JWTConfig{
		Secret:           "test-secret",
		Algorithm:        "HS256",
		AccessTTLMinutes: 60,
	})
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_RequiresSecret(t *testing.T) {
	_, err := NewTokenCodec(appconfig.JWTConfig{Algorithm: "HS256"})
	assert.Error(t, err)
}

func TestNewTokenCodec_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewTokenCodec(appconfig.JWTConfig{Secret: "x", Algorithm: "XX999"})
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	codec := testCodec(t)

	user := models.User{ID: 42, Username: "ranger", Role: models.RoleManager}
	token, err := codec.Issue(user, time.Now())
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "ranger", claims.Subject)
}

func TestVerify_ExpiredToken(t *testing.T) {
	codec := testCodec(t)

	issuedAt := time.Now().Add(-2 * time.Hour)
	token, err := codec.Issue(models.User{ID: 1, Username: "u", Role: models.RoleExpert}, issuedAt)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	codec := testCodec(t)

	other, err := NewTokenCodec(appconfig.JWTConfig{
		Secret: "other-secret", Algorithm: "HS256", AccessTTLMinutes: 60,
	})
	require.NoError(t, err)

	token, err := other.Issue(models.User{ID: 1, Username: "u", Role: models.RoleExpert}, time.Now())
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	codec := testCodec(t)

	// Sign with HS512 against the same secret. The codec only accepts its
	// configured algorithm.
	claims := Claims{
		UserID: 7,
		Role:   models.RoleExpert,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestVerify_MissingUserID(t *testing.T) {
	codec := testCodec(t)

	claims := Claims{
		Role: models.RoleExpert,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerify_Garbage(t *testing.T) {
	codec := testCodec(t)

	_, err := codec.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}
