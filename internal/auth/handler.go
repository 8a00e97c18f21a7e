package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRoomRequest struct {
	Name        string `json:"name"`
	Passphrase  string `json:"passphrase"`
	DisplayName string `json:"displayName"`
}

type joinRoomRequest struct {
	Passphrase  string `json:"passphrase"`
	DisplayName string `json:"displayName"`
}

// CreateRoom claims a new room. The response carries the room id the client
// shares with collaborators and the creator's own token.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Passphrase == "" || req.DisplayName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, passphrase, and displayName are required"})
		return
	}

	if len(req.Passphrase) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "passphrase must be at least 8 characters"})
		return
	}

	access, err := h.service.CreateRoom(r.Context(), req.Name, req.Passphrase, req.DisplayName)
	if err != nil {
		slog.Error("create room failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, access)
}

// JoinRoom exchanges the room passphrase for a room-scoped token.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Passphrase == "" || req.DisplayName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "passphrase and displayName are required"})
		return
	}

	access, err := h.service.JoinRoom(r.Context(), roomID, req.Passphrase, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		case errors.Is(err, ErrInvalidPassphrase):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid passphrase"})
		default:
			slog.Error("join room failed", "error", err, "room", roomID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, access)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
