package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/typeid"
)

func TestRoomTokenRoundTrip(t *testing.T) {
	s := NewService(nil, "test-secret")
	roomID := typeid.NewRoomID()

	token, err := s.issueRoomToken(roomID, "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, roomID, claims.RoomID)
	assert.Equal(t, "Ada", claims.DisplayName)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a")
	verifier := NewService(nil, "secret-b")

	token, err := issuer.issueRoomToken(typeid.NewRoomID(), "Ada")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsNonRoomSubject(t *testing.T) {
	s := NewService(nil, "test-secret")

	// a token whose subject is some other entity kind must not open a room
	token, err := s.issueRoomToken(typeid.NewShapeID(), "Ada")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewService(nil, "test-secret")
	_, err := s.ValidateToken("not.a.token")
	assert.Error(t, err)
}
