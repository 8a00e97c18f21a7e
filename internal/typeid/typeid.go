package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixRoom     = "room"
	PrefixImage    = "img"
	PrefixShape    = "shape"
	PrefixLine     = "line"
	PrefixAsset    = "asset"
	PrefixSnapshot = "snap"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewRoomID() string { return New(PrefixRoom) }
func NewImageID() string { return New(PrefixImage) }
func NewShapeID() string { return New(PrefixShape) }
func NewLineID() string { return New(PrefixLine) }
func NewAssetID() string { return New(PrefixAsset) }
func NewSnapshotID() string { return New(PrefixSnapshot) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
