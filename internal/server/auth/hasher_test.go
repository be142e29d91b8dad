package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastArgon2() Argon2Hasher {
	return Argon2Hasher{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("123")
	require.NoError(t, err)
	assert.NotEqual(t, "123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	require.NoError(t, h.Compare(hash, "123"))
	require.ErrorIs(t, h.Compare(hash, "124"), ErrMismatch)
}

func TestArgon2Hasher_HashAndCompare(t *testing.T) {
	h := fastArgon2()

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"), hash)

	require.NoError(t, h.Compare(hash, "s3cret"))
	require.ErrorIs(t, h.Compare(hash, "S3cret"), ErrMismatch)

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ")
}

func TestArgon2Hasher_Malformed(t *testing.T) {
	h := fastArgon2()
	for _, bad := range []string{"", "$argon2id$", "$argon2id$v=18$m=1,t=1,p=1$AA$AA", "$argon2id$v=19$m=x$AA$AA"} {
		err := h.Compare(bad, "p")
		require.Error(t, err, bad)
		assert.NotErrorIs(t, err, ErrMismatch, bad)
	}
}

func TestArgon2Hasher_ZeroParamsRejected(t *testing.T) {
	h := fastArgon2()
	for _, params := range []string{"m=0,t=1,p=1", "m=1024,t=0,p=1", "m=1024,t=1,p=0"} {
		bad := "$argon2id$v=19$" + params + "$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5"
		require.NotPanics(t, func() {
			err := h.Compare(bad, "p")
			require.Error(t, err, params)
			assert.Contains(t, err.Error(), "malformed argon2 params", params)
			assert.NotErrorIs(t, err, ErrMismatch, params)
		})
	}
}

func TestBcryptHasher_TooLongIsValidationError(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	_, err := h.Hash(strings.Repeat("x", MaxPasswordLen+1))
	var le *validate.LengthError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, validate.ErrValidation)
	assert.Equal(t, "password is longer than 72 bytes", err.Error())

	_, err = h.Hash(strings.Repeat("x", MaxPasswordLen))
	require.NoError(t, err)
}

func TestCompareAny_DetectsAlgorithm(t *testing.T) {
	bh, err := BcryptHasher{Cost: bcrypt.MinCost}.Hash("pw")
	require.NoError(t, err)
	ah, err := fastArgon2().Hash("pw")
	require.NoError(t, err)

	require.NoError(t, CompareAny(bh, "pw"))
	require.NoError(t, CompareAny(ah, "pw"))
	require.ErrorIs(t, CompareAny(bh, "nope"), ErrMismatch)
	require.ErrorIs(t, CompareAny(ah, "nope"), ErrMismatch)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("", 5)
	require.NoError(t, err)
	assert.Equal(t, BcryptHasher{Cost: 5}, h)

	h, err = NewHasher("ARGON2", 0)
	require.NoError(t, err)
	assert.IsType(t, Argon2Hasher{}, h)

	_, err = NewHasher("md5", 0)
	require.Error(t, err)
}

func TestCredentials(t *testing.T) {
	c := NewCredentials(BcryptHasher{Cost: bcrypt.MinCost}, NewTokenManager([]byte("k"), time.Minute))

	hash, err := c.HashPassword("123")
	require.NoError(t, err)
	require.NoError(t, c.CheckPassword(hash, "123"))
	require.ErrorIs(t, c.CheckPassword(hash, "x"), ErrMismatch)
	require.ErrorIs(t, c.CheckPassword("", "123"), ErrMismatch)

	tok, exp, err := c.IssueToken("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	id, err := c.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestContextUserID(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(context.Background(), "u-9"))
	assert.True(t, ok)
	assert.Equal(t, "u-9", id)
}
