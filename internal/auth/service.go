// Package auth controls room access. A room is claimed with a passphrase at
// creation; anyone joining presents that passphrase and receives a JWT scoped
// to exactly that room. There are no user accounts: identity is the display
// name carried in the token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/openboard/openboard/internal/db"
	"github.com/openboard/openboard/internal/typeid"
)

var (
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrRoomNotFound      = errors.New("room not found")
)

// PlaygroundRoomID is the shared demo room. It is never passphrase-protected
// and never requires a token.
const PlaygroundRoomID = "room_playground"

type Service struct {
	queries   *db.Queries
	jwtSecret []byte
}

func NewService(queries *db.Queries, jwtSecret string) *Service {
	return &Service{
		queries:   queries,
		jwtSecret: []byte(jwtSecret),
	}
}

// RoomAccess is the result of claiming or joining a room: the room's public
// identity plus a token scoped to it.
type RoomAccess struct {
	Token string `json:"token"`
	Room  Room   `json:"room"`
}

type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomClaims is the validated content of a room token.
type RoomClaims struct {
	RoomID      string
	DisplayName string
}

// CreateRoom claims a fresh room: the passphrase hash is stored with the room
// and the creator gets the first token.
func (s *Service) CreateRoom(ctx context.Context, name, passphrase, displayName string) (*RoomAccess, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), 12)
	if err != nil {
		return nil, fmt.Errorf("hash passphrase: %w", err)
	}

	dbRoom, err := s.queries.CreateRoom(ctx, db.CreateRoomParams{
		ID:         typeid.NewRoomID(),
		Name:       name,
		Passphrase: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	token, err := s.issueRoomToken(dbRoom.ID, displayName)
	if err != nil {
		return nil, err
	}

	return &RoomAccess{
		Token: token,
		Room:  Room{ID: dbRoom.ID, Name: dbRoom.Name},
	}, nil
}

// JoinRoom checks the passphrase against the room's hash and issues a token
// scoped to that room.
func (s *Service) JoinRoom(ctx context.Context, roomID, passphrase, displayName string) (*RoomAccess, error) {
	dbRoom, err := s.queries.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbRoom.Passphrase), []byte(passphrase)); err != nil {
		return nil, ErrInvalidPassphrase
	}

	token, err := s.issueRoomToken(dbRoom.ID, displayName)
	if err != nil {
		return nil, err
	}

	return &RoomAccess{
		Token: token,
		Room:  Room{ID: dbRoom.ID, Name: dbRoom.Name},
	}, nil
}

// ValidateToken parses a room token and returns its claims. The subject must
// be a well-formed room id, so a token minted for anything else is rejected
// outright.
func (s *Service) ValidateToken(tokenString string) (RoomClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return RoomClaims{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return RoomClaims{}, errors.New("invalid token")
	}

	roomID, ok := claims["sub"].(string)
	if !ok {
		return RoomClaims{}, errors.New("invalid token subject")
	}
	if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
		return RoomClaims{}, fmt.Errorf("token not scoped to a room: %w", err)
	}

	displayName, _ := claims["name"].(string)

	return RoomClaims{RoomID: roomID, DisplayName: displayName}, nil
}

func (s *Service) issueRoomToken(roomID, displayName string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  roomID,
		"name": displayName,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
