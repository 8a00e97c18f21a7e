package board

import (
	"fmt"
	"time"

	"github.com/openboard/openboard/internal/typeid"
)

// Default layout constants for a brand-new room with no backup to restore.
const (
	ImageGap     = 1000
	ImageWidth   = 200
	ImageHeight  = 200
	GridColumns  = 3
	gridSpacing  = ImageWidth + ImageGap
	seedImageFmt = "https://picsum.photos/seed/openboard-%d/600/400"
)

// DefaultLayout is the deterministic starter board: three placeholder images
// anchored at (gap, gap), one to the right and one below.
func DefaultLayout(now time.Time) *State {
	st := NewState(now)
	offsets := [][2]float64{
		{0, 0},
		{gridSpacing, 0},
		{0, gridSpacing},
	}
	for i, off := range offsets {
		st.Images = append(st.Images, PlacedImage{
			ID:  typeid.NewImageID(),
			URL: fmt.Sprintf(seedImageFmt, i+1),
			X:   ImageGap + off[0],
			Y:   ImageGap + off[1],
		})
	}
	return st
}
