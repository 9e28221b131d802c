package deck

import (
	"fmt"

	"food-lens/api/internal/foodcheck"
)

// State is everything a front-end renders.
type State struct {
	Draft      Draft
	Feed       Feed
	Submitting bool
}

// SubmitLabel is the submit button caption.
func (s State) SubmitLabel() string {
	if s.Submitting {
		return "Processing..."
	}
	return "Submit Item"
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient message for the user.
type Notice struct {
	Level Level
	Text  string
}

func success(format string, args ...any) Notice {
	return Notice{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Notice {
	return Notice{Level: LevelError, Text: fmt.Sprintf(format, args...)}
}

// Action is an event fed to Reduce.
type Action interface{ action() }

type (
	SetName        struct{ Name string }
	SetDescription struct{ Description string }

	// ValidationDone carries the batch that was sent and the verdicts it got back.
	ValidationDone struct {
		Batch    []foodcheck.Image
		Verdicts []foodcheck.Verdict
	}
	ValidationFailed struct{ Err error }

	RemoveImage struct{ Index int }

	SubmitStarted struct{}
	// SubmitSucceeded carries the draft that was identified; the card is built from it.
	SubmitSucceeded struct {
		CardID   string
		Draft    Draft
		Analysis foodcheck.Analysis
	}
	SubmitFailed struct{ Err error }

	EditCard   struct{ ID string }
	DeleteCard struct{ ID string }
)

func (SetName) action()          {}
func (SetDescription) action()   {}
func (ValidationDone) action()   {}
func (ValidationFailed) action() {}
func (RemoveImage) action()      {}
func (SubmitStarted) action()    {}
func (SubmitSucceeded) action()  {}
func (SubmitFailed) action()     {}
func (EditCard) action()         {}
func (DeleteCard) action()       {}

// Reduce returns the state after a and the notices it produced. s is never modified.
// While a submission is in flight the draft is frozen.
func Reduce(s State, a Action) (State, []Notice) {
	if s.Submitting && changesDraft(a) {
		return s, []Notice{failure("Submission in progress")}
	}
	switch a := a.(type) {
	case SetName:
		s.Draft.Name = a.Name
	case SetDescription:
		s.Draft.Description = a.Description

	case ValidationDone:
		return applyVerdicts(s, a)
	case ValidationFailed:
		return s, []Notice{failure("Server Validation Failed")}

	case RemoveImage:
		s.Draft.Deck = s.Draft.Deck.Remove(a.Index)

	case SubmitStarted:
		s.Submitting = true
	case SubmitSucceeded:
		s.Feed = s.Feed.Prepend(Card{
			ID:          a.CardID,
			Name:        a.Draft.Name,
			Description: a.Draft.Description,
			Images:      a.Draft.Deck.Images(),
			Analysis:    a.Analysis,
		})
		s.Draft = Draft{}
		s.Submitting = false
		return s, []Notice{success("Item Added Successfully!")}
	case SubmitFailed:
		s.Submitting = false
		return s, []Notice{failure("Submission Failed")}

	case EditCard:
		card, ok := s.Feed.Get(a.ID)
		if !ok {
			return s, nil
		}
		s.Feed, _ = s.Feed.Remove(a.ID)
		s.Draft = Draft{Name: card.Name, Description: card.Description, Deck: NewDeck(card.Images...)}
		return s, []Notice{success("Item moved back to draft for editing")}
	case DeleteCard:
		var removed bool
		if s.Feed, removed = s.Feed.Remove(a.ID); removed {
			return s, []Notice{success("Item deleted")}
		}
	}
	return s, nil
}

func changesDraft(a Action) bool {
	switch a.(type) {
	case SetName, SetDescription, ValidationDone, RemoveImage, EditCard:
		return true
	}
	return false
}

func applyVerdicts(s State, a ValidationDone) (State, []Notice) {
	notices := make([]Notice, 0, len(a.Batch))
	for i, img := range a.Batch {
		v := verdictFor(a.Verdicts, i)
		switch {
		case !v.IsValid:
			notices = append(notices, failure("Rejected: %s", v.Reason))
		case s.Draft.Deck.Full():
			notices = append(notices, failure("Deck is full."))
		default:
			s.Draft.Deck = s.Draft.Deck.Append(img)
			notices = append(notices, success("Image Approved"))
		}
	}
	return s, notices
}

// verdictFor prefers the verdict at position i, then one carrying index i.
func verdictFor(vs []foodcheck.Verdict, i int) foodcheck.Verdict {
	if i < len(vs) && vs[i].Index == i {
		return vs[i]
	}
	for _, v := range vs {
		if v.Index == i {
			return v
		}
	}
	return foodcheck.Verdict{Index: i, Reason: foodcheck.ReasonNoVerdict}
}
