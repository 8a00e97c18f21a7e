package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/openboard/openboard/internal/asset"
	"github.com/openboard/openboard/internal/auth"
	"github.com/openboard/openboard/internal/backup"
	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/collab"
	"github.com/openboard/openboard/internal/config"
	"github.com/openboard/openboard/internal/db"
	"github.com/openboard/openboard/internal/export"
	mw "github.com/openboard/openboard/internal/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	backupStore := backup.NewPGStore(queries)
	liveStore := backup.NewLiveStore(queries)

	// The hub autosaves into the working copy; one-shot backups are written
	// only by the scheduler, so autosave traffic never satisfies its
	// backup-exists check.
	loadRoom := backup.NewRoomLoader(liveStore, backupStore)
	loader := func(roomID string) (*board.State, error) {
		st, err := loadRoom(context.Background(), roomID)
		if errors.Is(err, backup.ErrNotFound) {
			return nil, collab.ErrNoSnapshot
		}
		return st, err
	}
	saver := func(roomID string, st *board.State) error {
		return liveStore.SaveRoom(context.Background(), roomID, st)
	}

	hub := collab.NewHub(loader, saver)

	scheduler := backup.NewScheduler(backupStore, cfg.BackupDelay, hub.RoomSnapshot)
	hub.OnNewRoom = scheduler.RoomCreated

	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir, cfg.AssetBaseURL, cfg.MaxImageSide)
	exportHandler := export.NewHandler(hub.RoomSnapshot, loadRoom)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(strings.Split(cfg.AllowedOrigins, ",")))

	// Room lifecycle (public: joining needs the room passphrase, not a token)
	r.HandleFunc("/rooms", authHandler.CreateRoom).Methods("POST")
	r.HandleFunc("/rooms/{roomId}/join", authHandler.JoinRoom).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints (public: asset ids are unguessable)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Board export, scoped to the room named in the token
	r.Handle("/rooms/{roomId}/export/pdf",
		authService.RequireRoom(http.HandlerFunc(exportHandler.ExportPDF))).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/room/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty rooms
		slog.Info("saving all rooms...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, cfg *config.Config) {
	vars := mux.Vars(r)
	roomID := vars["roomId"]

	var displayName string

	// The playground room allows anonymous access; every other room needs a
	// token minted by the passphrase exchange and scoped to that room.
	if roomID == auth.PlaygroundRoomID {
		displayName = "Anonymous"
	} else {
		claims, err := authSvc.ValidateToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if claims.RoomID != roomID {
			http.Error(w, "token not valid for this room", http.StatusForbidden)
			return
		}
		displayName = claims.DisplayName
	}
	userID := "user-" + uuid.New().String()[:8]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(cfg.AllowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, roomID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(o), "https://"), "http://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
