// Package deck is the draft/feed workflow shared by every front-end: a bounded deck of
// approved photos, its submission, and the feed of identified dishes.
//
// All values are immutable; State changes only through Reduce.
package deck

import (
	"errors"

	"food-lens/api/internal/foodcheck"
)

const (
	MinImages = 2
	MaxImages = 5
)

var (
	ErrDeckFull     = errors.New("deck is full")
	ErrNameRequired = errors.New("item name is required")
	ErrNotReady     = errors.New("draft is not ready to submit")
	ErrSubmitting   = errors.New("a submission is already in progress")
)

// Deck is an ordered set of approved images, never longer than MaxImages.
type Deck struct {
	images []foodcheck.Image
}

// NewDeck keeps at most MaxImages of imgs.
func NewDeck(imgs ...foodcheck.Image) Deck {
	return Deck{}.Append(imgs...)
}

func (d Deck) Len() int       { return len(d.images) }
func (d Deck) Remaining() int { return MaxImages - len(d.images) }
func (d Deck) Full() bool     { return len(d.images) >= MaxImages }

// Images returns a copy in deck order.
func (d Deck) Images() []foodcheck.Image {
	return append([]foodcheck.Image(nil), d.images...)
}

// Append returns a new deck with imgs added until capacity is reached; the rest is dropped.
func (d Deck) Append(imgs ...foodcheck.Image) Deck {
	n := min(len(imgs), d.Remaining())
	if n <= 0 {
		return d
	}
	out := make([]foodcheck.Image, 0, len(d.images)+n)
	out = append(out, d.images...)
	out = append(out, imgs[:n]...)
	return Deck{images: out}
}

// Remove drops the image at i. Out of range is a no-op.
func (d Deck) Remove(i int) Deck {
	if i < 0 || i >= len(d.images) {
		return d
	}
	out := make([]foodcheck.Image, 0, len(d.images)-1)
	out = append(out, d.images[:i]...)
	out = append(out, d.images[i+1:]...)
	return Deck{images: out}
}
