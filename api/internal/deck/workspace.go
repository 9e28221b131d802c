package deck

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"food-lens/api/internal/foodcheck"
)

// Backend runs the two model-backed checks. Implemented by foodcheck.Service
// in-process and by client.Client over HTTP.
type Backend interface {
	Validate(ctx context.Context, name, description string, images []foodcheck.Image) ([]foodcheck.Verdict, error)
	Identify(ctx context.Context, name, description string, images []foodcheck.Image) (foodcheck.Analysis, error)
}

// Workspace drives a Session against a Backend.
type Workspace struct {
	Backend Backend
	Session *Session
	NewID   func() string
}

func NewWorkspace(b Backend) *Workspace {
	return &Workspace{Backend: b, Session: NewSession(), NewID: uuid.NewString}
}

func (w *Workspace) SetName(name string) []Notice {
	return w.Session.Dispatch(SetName{Name: name})
}

func (w *Workspace) SetDescription(desc string) []Notice {
	return w.Session.Dispatch(SetDescription{Description: desc})
}

// Upload validates as many files as the deck can still take and keeps the approved ones.
// A missing name or a full deck is refused before any backend call.
func (w *Workspace) Upload(ctx context.Context, files []foodcheck.Image) ([]Notice, error) {
	if len(files) == 0 {
		return nil, nil
	}
	st := w.Session.State()
	if st.Submitting {
		return []Notice{failure("Submission in progress")}, ErrSubmitting
	}
	draft := st.Draft
	batch, err := draft.PlanUpload(files)
	switch {
	case errors.Is(err, ErrNameRequired):
		return []Notice{failure("Enter Item Name first!")}, err
	case errors.Is(err, ErrDeckFull):
		return []Notice{failure("Deck is full.")}, err
	case err != nil:
		return nil, err
	}

	notices := []Notice{success("Validating %d images...", len(batch))}
	verdicts, err := w.Backend.Validate(ctx, draft.Name, draft.Description, batch)
	if err != nil {
		return append(notices, w.Session.Dispatch(ValidationFailed{Err: err})...), err
	}
	return append(notices, w.Session.Dispatch(ValidationDone{Batch: batch, Verdicts: verdicts})...), nil
}

// Submit sends the whole deck for identification. On success the draft becomes a feed card.
func (w *Workspace) Submit(ctx context.Context) (Card, []Notice, error) {
	draft, err := w.Session.beginSubmit()
	switch {
	case errors.Is(err, ErrNotReady):
		return Card{}, []Notice{failure("%s", draft.Status())}, err
	case err != nil:
		return Card{}, nil, err
	}

	analysis, err := w.Backend.Identify(ctx, draft.Name, draft.Description, draft.Deck.Images())
	if err != nil {
		return Card{}, w.Session.Dispatch(SubmitFailed{Err: err}), err
	}

	id := w.NewID()
	notices := w.Session.Dispatch(SubmitSucceeded{CardID: id, Draft: draft, Analysis: analysis})
	card, _ := w.Session.State().Feed.Get(id)
	return card, notices, nil
}

func (w *Workspace) Remove(index int) []Notice { return w.Session.Dispatch(RemoveImage{Index: index}) }

func (w *Workspace) Edit(id string) []Notice { return w.Session.Dispatch(EditCard{ID: id}) }

func (w *Workspace) Delete(id string) []Notice { return w.Session.Dispatch(DeleteCard{ID: id}) }
