package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openboard/openboard/internal/backup"
	"github.com/openboard/openboard/internal/board"
)

// Handler serves board exports. The board comes from the live hub when the
// room is active, else from the freshest stored copy.
type Handler struct {
	liveSnapshot func(roomID string) (*board.State, bool)
	restore      func(ctx context.Context, roomID string) (*board.State, error)
}

func NewHandler(
	liveSnapshot func(roomID string) (*board.State, bool),
	restore func(ctx context.Context, roomID string) (*board.State, error),
) *Handler {
	return &Handler{liveSnapshot: liveSnapshot, restore: restore}
}

// ExportPDF handles GET /rooms/{roomId}/export/pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	st, ok := h.liveSnapshot(roomID)
	if !ok {
		var err error
		st, err = h.restore(r.Context(), roomID)
		if err != nil {
			if errors.Is(err, backup.ErrNotFound) || errors.Is(err, context.Canceled) {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			slog.Error("load room for export", "error", err, "room", roomID)
			http.Error(w, "failed to load room", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", roomID+".pdf"))
	if err := WritePDF(w, st); err != nil {
		slog.Error("render pdf", "error", err, "room", roomID)
	}
}
