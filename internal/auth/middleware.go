package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const roomClaimsKey contextKey = "roomClaims"

// RequireRoom guards a route carrying a {roomId} path variable: the bearer
// token must validate and be scoped to exactly that room. The playground room
// passes without a token.
func (s *Service) RequireRoom(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roomID := mux.Vars(r)["roomId"]
		if roomID == PlaygroundRoomID {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
			return
		}

		claims, err := s.ValidateToken(parts[1])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		if claims.RoomID != roomID {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "token not valid for this room"})
			return
		}

		ctx := context.WithValue(r.Context(), roomClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the room claims stored by RequireRoom.
func ClaimsFromContext(ctx context.Context) (RoomClaims, bool) {
	claims, ok := ctx.Value(roomClaimsKey).(RoomClaims)
	return claims, ok
}
