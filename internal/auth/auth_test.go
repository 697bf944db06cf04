package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match := CheckPasswordHash(password, hash)
	require.True(t, match, "Password should match the hash")

	wrongPassword := "wrongPassword"
	match = CheckPasswordHash(wrongPassword, hash)
	require.False(t, match, "Wrong password should not match the hash")
}

func TestSignAndVerifySessionToken(t *testing.T) {
	secret := "my_super_secret_key_for_testing"
	token := "vV7kT9qZ2mN4xR8cL1wB5yH3pD6sJ0aQ"

	cookie := SignSessionToken(token, secret)
	require.NotEqual(t, token, cookie)

	got, err := VerifySessionCookie(cookie, secret)
	require.NoError(t, err)
	require.Equal(t, token, got)

	_, err = VerifySessionCookie(cookie, "wrong_secret")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCookie)
}

func TestVerifySessionCookie_Malformed(t *testing.T) {
	secret := "my_super_secret_key_for_testing"

	for _, value := range []string{
		"",
		"no-signature-here",
		".deadbeef",
		"token.",
		"token.not-hex!",
	} {
		_, err := VerifySessionCookie(value, secret)
		require.Error(t, err, "value %q should be rejected", value)
	}
}
