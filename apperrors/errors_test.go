package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "taken")
	require.Equal(t, Conflict, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	require.Equal(t, Conflict, KindOf(wrapped))

	require.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(Conflict, "Username is already taken", cause)
	require.Equal(t, "Username is already taken", MessageOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "duplicate key")

	require.Equal(t, "plain", MessageOf(errors.New("plain")))
}
