package deck

import (
	"fmt"
	"strings"

	"food-lens/api/internal/foodcheck"
)

// FormState is the submit-form state derived from a Draft.
type FormState int

const (
	Empty FormState = iota
	PartiallyFilled
	ReadyToSubmit
)

func (s FormState) String() string {
	switch s {
	case Empty:
		return "empty"
	case PartiallyFilled:
		return "partially-filled"
	case ReadyToSubmit:
		return "ready"
	default:
		return fmt.Sprintf("FormState(%d)", int(s))
	}
}

// Draft is the dish being composed.
type Draft struct {
	Name        string
	Description string
	Deck        Deck
}

func (d Draft) hasName() bool { return strings.TrimSpace(d.Name) != "" }
func (d Draft) hasDesc() bool { return strings.TrimSpace(d.Description) != "" }

func (d Draft) State() FormState {
	switch {
	case d.hasName() && d.hasDesc() && d.Deck.Len() >= MinImages:
		return ReadyToSubmit
	case !d.hasName() && !d.hasDesc() && d.Deck.Len() == 0:
		return Empty
	default:
		return PartiallyFilled
	}
}

func (d Draft) CanSubmit() bool { return d.State() == ReadyToSubmit }

// Status is the form hint shown under the inputs.
func (d Draft) Status() string {
	switch {
	case !d.hasName():
		return "Item Name is required."
	case !d.hasDesc():
		return "Description is required."
	case d.Deck.Len() < MinImages:
		return fmt.Sprintf("Need %d more valid image(s).", MinImages-d.Deck.Len())
	default:
		return "Ready to Submit!"
	}
}

// PlanUpload picks the files that may be sent for validation: a name must be set,
// the deck must have room, and only as many files as fit are kept.
func (d Draft) PlanUpload(files []foodcheck.Image) ([]foodcheck.Image, error) {
	if !d.hasName() {
		return nil, ErrNameRequired
	}
	if d.Deck.Full() {
		return nil, ErrDeckFull
	}
	n := min(len(files), d.Deck.Remaining())
	return append([]foodcheck.Image(nil), files[:n]...), nil
}
