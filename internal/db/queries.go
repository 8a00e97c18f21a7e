package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

var ErrNoRows = pgx.ErrNoRows

type Room struct {
	ID         string
	Name       string
	Passphrase string
	CreatedAt  time.Time
}

type CreateRoomParams struct {
	ID         string
	Name       string
	Passphrase string
}

func (q *Queries) CreateRoom(ctx context.Context, arg CreateRoomParams) (Room, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, name, passphrase)
		VALUES ($1, $2, $3)
		RETURNING id, name, passphrase, created_at`,
		arg.ID, arg.Name, arg.Passphrase)
	var r Room
	err := row.Scan(&r.ID, &r.Name, &r.Passphrase, &r.CreatedAt)
	return r, err
}

func (q *Queries) GetRoom(ctx context.Context, id string) (Room, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, name, passphrase, created_at
		FROM rooms WHERE id = $1`, id)
	var r Room
	err := row.Scan(&r.ID, &r.Name, &r.Passphrase, &r.CreatedAt)
	return r, err
}

type RoomSnapshot struct {
	RoomID    string
	Document  []byte
	UpdatedAt time.Time
}

// UpsertRoomSnapshot replaces a room's working copy. One row per room: the
// autosave loop overwrites it in place.
func (q *Queries) UpsertRoomSnapshot(ctx context.Context, roomID string, document []byte) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO room_snapshots (room_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (room_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		roomID, document)
	return err
}

func (q *Queries) GetRoomSnapshot(ctx context.Context, roomID string) (RoomSnapshot, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT room_id, document, updated_at
		FROM room_snapshots WHERE room_id = $1`, roomID)
	var s RoomSnapshot
	err := row.Scan(&s.RoomID, &s.Document, &s.UpdatedAt)
	return s, err
}

type RoomBackup struct {
	ID        string
	RoomID    string
	Version   int32
	Document  []byte
	CreatedAt time.Time
}

type CreateRoomBackupParams struct {
	ID       string
	RoomID   string
	Version  int32
	Document []byte
}

func (q *Queries) CreateRoomBackup(ctx context.Context, arg CreateRoomBackupParams) (RoomBackup, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO room_backups (id, room_id, version, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room_id, version, document, created_at`,
		arg.ID, arg.RoomID, arg.Version, arg.Document)
	var b RoomBackup
	err := row.Scan(&b.ID, &b.RoomID, &b.Version, &b.Document, &b.CreatedAt)
	return b, err
}

func (q *Queries) GetLatestRoomBackup(ctx context.Context, roomID string) (RoomBackup, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, room_id, version, document, created_at
		FROM room_backups
		WHERE room_id = $1
		ORDER BY version DESC
		LIMIT 1`, roomID)
	var b RoomBackup
	err := row.Scan(&b.ID, &b.RoomID, &b.Version, &b.Document, &b.CreatedAt)
	return b, err
}

func (q *Queries) RoomBackupExists(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	err := q.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM room_backups WHERE room_id = $1)`, roomID).Scan(&exists)
	return exists, err
}
