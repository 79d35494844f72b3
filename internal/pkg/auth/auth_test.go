package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

func TestGeneratePIN_RangeAndSpread(t *testing.T) {
	const draws = 10000
	buckets := make(map[int]int)
	for i := 0; i < draws; i++ {
		pin, err := GeneratePIN()
		require.NoError(t, err)
		require.Len(t, pin, 4)
		require.True(t, IsValidPIN(pin))

		n, err := strconv.Atoi(pin)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1000)
		require.LessOrEqual(t, n, 9999)
		buckets[n/1000]++
	}

	// nine thousand-wide buckets, each expected near draws/9
	require.Len(t, buckets, 9)
	for bucket, count := range buckets {
		assert.Greater(t, count, draws/9/2, "bucket %d is underrepresented", bucket)
		assert.Less(t, count, draws/9*2, "bucket %d is overrepresented", bucket)
	}
}

func TestIsValidPIN(t *testing.T) {
	assert.True(t, IsValidPIN("4821"))
	assert.True(t, IsValidPIN("0123"))
	assert.False(t, IsValidPIN("482"))
	assert.False(t, IsValidPIN("48211"))
	assert.False(t, IsValidPIN("48a1"))
}

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(4)
	hash, err := v.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, v.Verify(hash, "s3cret!"))
	assert.False(t, v.Verify(hash, "wrong"))
	assert.False(t, v.Verify("not-a-hash", "s3cret!"))

	assert.Equal(t, DefaultBcryptCost, NewBcryptVerifier(0).Cost)
}

func TestPlainVerifier(t *testing.T) {
	var v PlainVerifier
	stored, err := v.Hash("4821")
	require.NoError(t, err)
	assert.Equal(t, "4821", stored)
	assert.True(t, v.Verify(stored, "4821"))
	assert.False(t, v.Verify(stored, "4822"))
	assert.False(t, v.Verify(stored, ""))
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "resultportal.test"})

	issued, err := svc.GenerateAccessToken(&models.Student{ID: "stu-1", StudentID: "S001"})
	require.NoError(t, err)
	assert.Equal(t, 3600, issued.ExpiresIn)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.ActorID)
	assert.Equal(t, models.ActorStudent, claims.ActorType)
	assert.Equal(t, issued.TokenID, claims.ID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "resultportal.test"})
	issued, err := svc.GenerateAccessToken(&models.Admin{ID: "adm-1"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour, TokenIssuer: "resultportal.test"})
	_, err = other.ValidateToken(issued.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(issued.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	_, err = svc.GenerateAccessToken(nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken("\"a.b.c\"")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
	_, err = ExtractBearerToken("Basic Zm9v")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}
