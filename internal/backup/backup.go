// Package backup persists room boards and restores them when a room comes
// back to life. The working copy and the one-shot backups live in separate
// tables: the hub's autosave loop overwrites the working copy, so a backup
// row must never be created by autosave traffic or the "only backup once per
// room, only if absent" contract would trip on the first autosave tick.
// A restore miss is the normal "new room" signal, not an error condition.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openboard/openboard/internal/board"
	"github.com/openboard/openboard/internal/db"
	"github.com/openboard/openboard/internal/typeid"
)

// ErrNotFound signals that a room has no stored board yet.
var ErrNotFound = errors.New("no stored board for room")

// Store reads and writes one-shot room backups.
type Store interface {
	BackupRoom(ctx context.Context, roomID string, st *board.State) error
	RestoreRoom(ctx context.Context, roomID string) (*board.State, error)
	RoomBackupExists(ctx context.Context, roomID string) (bool, error)
}

// WorkingStore holds the hub's working copy: the board autosaved while a
// room is active, overwritten in place.
type WorkingStore interface {
	SaveRoom(ctx context.Context, roomID string, st *board.State) error
	LoadRoom(ctx context.Context, roomID string) (*board.State, error)
}

// PGStore keeps versioned board backups in postgres. The stored document is
// the literal board wire JSON: {images, shapes, lines, createdAt?}.
type PGStore struct {
	queries *db.Queries
}

func NewPGStore(queries *db.Queries) *PGStore {
	return &PGStore{queries: queries}
}

func (s *PGStore) BackupRoom(ctx context.Context, roomID string, st *board.State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	version := int32(1)
	if latest, err := s.queries.GetLatestRoomBackup(ctx, roomID); err == nil {
		version = latest.Version + 1
	}

	_, err = s.queries.CreateRoomBackup(ctx, db.CreateRoomBackupParams{
		ID:       typeid.NewSnapshotID(),
		RoomID:   roomID,
		Version:  version,
		Document: doc,
	})
	if err != nil {
		// a concurrent writer took this version; the backup exists either way
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return fmt.Errorf("create room backup: %w", err)
	}
	return nil
}

func (s *PGStore) RestoreRoom(ctx context.Context, roomID string) (*board.State, error) {
	bk, err := s.queries.GetLatestRoomBackup(ctx, roomID)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room backup: %w", err)
	}
	return unmarshalBoard(bk.Document)
}

func (s *PGStore) RoomBackupExists(ctx context.Context, roomID string) (bool, error) {
	exists, err := s.queries.RoomBackupExists(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("check room backup: %w", err)
	}
	return exists, nil
}

// LiveStore is the pg-backed working copy.
type LiveStore struct {
	queries *db.Queries
}

func NewLiveStore(queries *db.Queries) *LiveStore {
	return &LiveStore{queries: queries}
}

func (s *LiveStore) SaveRoom(ctx context.Context, roomID string, st *board.State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := s.queries.UpsertRoomSnapshot(ctx, roomID, doc); err != nil {
		return fmt.Errorf("save room snapshot: %w", err)
	}
	return nil
}

func (s *LiveStore) LoadRoom(ctx context.Context, roomID string) (*board.State, error) {
	snap, err := s.queries.GetRoomSnapshot(ctx, roomID)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room snapshot: %w", err)
	}
	return unmarshalBoard(snap.Document)
}

// NewRoomLoader chains the working copy with the backup store: the last
// autosaved board wins, a backup restore covers rooms that were never
// autosaved, and a miss on both is ErrNotFound.
func NewRoomLoader(live WorkingStore, backups Store) func(ctx context.Context, roomID string) (*board.State, error) {
	return func(ctx context.Context, roomID string) (*board.State, error) {
		st, err := live.LoadRoom(ctx, roomID)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return backups.RestoreRoom(ctx, roomID)
	}
}

func unmarshalBoard(doc []byte) (*board.State, error) {
	var st board.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	return &st, nil
}
