package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/openboard/internal/typeid"
)

func roomRouter(s *Service, claims *RoomClaims) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/rooms/{roomId}/export/pdf", s.RequireRoom(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); ok {
			*claims = c
		}
		w.WriteHeader(http.StatusOK)
	}))).Methods("GET")
	return r
}

func TestRequireRoomAcceptsScopedToken(t *testing.T) {
	s := NewService(nil, "test-secret")
	roomID := typeid.NewRoomID()
	token, err := s.issueRoomToken(roomID, "Ada")
	require.NoError(t, err)

	var got RoomClaims
	req := httptest.NewRequest("GET", "/rooms/"+roomID+"/export/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	roomRouter(s, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, roomID, got.RoomID)
	assert.Equal(t, "Ada", got.DisplayName)
}

func TestRequireRoomRejectsOtherRoomsToken(t *testing.T) {
	s := NewService(nil, "test-secret")
	token, err := s.issueRoomToken(typeid.NewRoomID(), "Ada")
	require.NoError(t, err)

	var got RoomClaims
	req := httptest.NewRequest("GET", "/rooms/"+typeid.NewRoomID()+"/export/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	roomRouter(s, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoomRejectsMissingToken(t *testing.T) {
	s := NewService(nil, "test-secret")

	var got RoomClaims
	req := httptest.NewRequest("GET", "/rooms/"+typeid.NewRoomID()+"/export/pdf", nil)
	rec := httptest.NewRecorder()
	roomRouter(s, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoomAllowsPlaygroundWithoutToken(t *testing.T) {
	s := NewService(nil, "test-secret")

	var got RoomClaims
	req := httptest.NewRequest("GET", "/rooms/"+PlaygroundRoomID+"/export/pdf", nil)
	rec := httptest.NewRecorder()
	roomRouter(s, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
