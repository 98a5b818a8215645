package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-jwt-secret"))
	subject := uuid.NewString()

	token, err := codec.CreateAccessToken(subject, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role())
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultAccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("secret-a"))
	token, err := codec.CreateAccessToken(uuid.NewString(), models.RoleRegular)
	require.NoError(t, err)

	other := NewCodec([]byte("secret-b"))
	_, err = other.DecodeAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_TamperedSignatureRejected(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-jwt-secret"))
	token, err := codec.CreateAccessToken(uuid.NewString(), models.RoleRegular)
	require.NoError(t, err)

	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = codec.DecodeAccessToken(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_ExpiredRejected(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-jwt-secret"))
	token, err := codec.CreateAccessTokenTTL(uuid.NewString(), models.RoleRegular, -time.Minute)
	require.NoError(t, err)

	_, err = codec.DecodeAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_GarbageRejected(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-jwt-secret"))
	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.DecodeAccessToken(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
	}
}

func TestNewRefreshToken_EntropyAndUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewRefreshToken()
		require.NoError(t, err)
		// 32 bytes base64url without padding
		assert.Len(t, token, 43)
		assert.False(t, seen[token], "refresh tokens must not repeat")
		seen[token] = true
	}
}
