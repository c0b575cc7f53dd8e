package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw12345")
	require.NoError(t, err)
	require.NotEqual(t, "pw12345", hash)

	require.NoError(t, CheckPassword(hash, "pw12345"))
	require.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gedung Utama", "gedung-utama"},
		{"Lantai 2 (Barat)", "lantai-2-barat"},
		{"Café Sécurité", "cafe-securite"},
		{"  --Already--Sluggy--  ", "already-sluggy"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, GenerateSlug(tc.in), "input %q", tc.in)
	}
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("alice@example.com"))
	require.True(t, IsValidEmail("a.b+c@sub.domain.org"))
	require.False(t, IsValidEmail("not-an-email"))
	require.False(t, IsValidEmail("missing@tld"))
	require.False(t, IsValidEmail("two@@example.com"))
}

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 10, ParseIntDefault("", 10))
	require.Equal(t, 10, ParseIntDefault("abc", 10))
	require.Equal(t, 25, ParseIntDefault("25", 10))
}

func TestAccessTTLDefault(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	require.Equal(t, 525600*time.Minute, AccessTTL())

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	require.Equal(t, 15*time.Minute, AccessTTL())
}
