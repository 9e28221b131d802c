package deck

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-lens/api/internal/foodcheck"
)

type fakeBackend struct {
	verdicts    func(n int) []foodcheck.Verdict
	validateErr error
	analysis    foodcheck.Analysis
	identifyErr error

	validateCalls int
	lastBatch     []foodcheck.Image
	identified    []foodcheck.Image
}

func (f *fakeBackend) Validate(_ context.Context, _, _ string, images []foodcheck.Image) ([]foodcheck.Verdict, error) {
	f.validateCalls++
	f.lastBatch = images
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.verdicts(len(images)), nil
}

func (f *fakeBackend) Identify(_ context.Context, _, _ string, images []foodcheck.Image) (foodcheck.Analysis, error) {
	f.identified = images
	return f.analysis, f.identifyErr
}

func allValid(n int) []foodcheck.Verdict {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	return verdicts(valid...)
}

func newTestWorkspace(b Backend) *Workspace {
	w := NewWorkspace(b)
	w.NewID = func() string { return "card-1" }
	return w
}

func TestUploadChickenBiryani(t *testing.T) {
	b := &fakeBackend{verdicts: func(int) []foodcheck.Verdict { return verdicts(true, false, true) }}
	w := newTestWorkspace(b)
	w.SetName("Chicken Biryani")

	notices, err := w.Upload(context.Background(), imgs(3))
	require.NoError(t, err)

	assert.Equal(t, []string{"img0.jpg", "img2.jpg"}, names(w.Session.State().Draft.Deck.Images()))
	assert.Equal(t, 1, count(notices, LevelError))
}

func TestUploadRefusedBeforeNetwork(t *testing.T) {
	b := &fakeBackend{verdicts: allValid}
	w := newTestWorkspace(b)

	_, err := w.Upload(context.Background(), imgs(1))
	assert.ErrorIs(t, err, ErrNameRequired)

	w.SetName("Pizza")
	_, err = w.Upload(context.Background(), imgs(7))
	require.NoError(t, err)
	assert.Len(t, b.lastBatch, MaxImages, "clamped to remaining capacity")
	assert.Equal(t, MaxImages, w.Session.State().Draft.Deck.Len())

	notices, err := w.Upload(context.Background(), imgs(1))
	assert.ErrorIs(t, err, ErrDeckFull)
	assert.Equal(t, 1, count(notices, LevelError))
	assert.Equal(t, 1, b.validateCalls)
}

func TestUploadNoFiles(t *testing.T) {
	b := &fakeBackend{verdicts: allValid}
	w := newTestWorkspace(b)
	w.SetName("Pizza")

	notices, err := w.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Zero(t, b.validateCalls)
	assert.Zero(t, w.Session.State().Draft.Deck.Len())
}

func TestUploadBackendFailure(t *testing.T) {
	b := &fakeBackend{validateErr: errors.New("500 Validation Failed")}
	w := newTestWorkspace(b)
	w.SetName("Pizza")

	notices, err := w.Upload(context.Background(), imgs(2))
	assert.Error(t, err)
	assert.Equal(t, 1, count(notices, LevelError))
	assert.Zero(t, w.Session.State().Draft.Deck.Len())
}

func TestSubmitFlow(t *testing.T) {
	b := &fakeBackend{verdicts: allValid, analysis: foodcheck.Analysis{Status: "success", Data: foodcheck.AnalysisData{IsMatch: true}}}
	w := newTestWorkspace(b)

	_, _, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	w.SetName("Pizza")
	w.SetDescription("Cheesy")
	_, err = w.Upload(context.Background(), imgs(2))
	require.NoError(t, err)

	card, _, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "card-1", card.ID)
	assert.Len(t, b.identified, 2)

	st := w.Session.State()
	assert.Equal(t, Draft{}, st.Draft)
	assert.Equal(t, 1, st.Feed.Len())

	w.Edit("card-1")
	assert.Equal(t, names(card.Images), names(w.Session.State().Draft.Deck.Images()))
	assert.Zero(t, w.Session.State().Feed.Len())
}

func TestSubmitMalformedAnswerKeepsDraft(t *testing.T) {
	b := &fakeBackend{verdicts: allValid, identifyErr: foodcheck.ErrResponseParse}
	w := newTestWorkspace(b)
	w.SetName("Pizza")
	w.SetDescription("Cheesy")
	_, err := w.Upload(context.Background(), imgs(2))
	require.NoError(t, err)

	_, notices, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, foodcheck.ErrResponseParse)
	assert.Equal(t, 1, count(notices, LevelError))

	st := w.Session.State()
	assert.Equal(t, 2, st.Draft.Deck.Len())
	assert.False(t, st.Submitting)
	assert.Zero(t, st.Feed.Len())
}

func TestSessionConcurrentDispatch(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ValidationDone{Batch: imgs(1), Verdicts: verdicts(true)})
		}()
	}
	wg.Wait()
	assert.Equal(t, MaxImages, s.State().Draft.Deck.Len())
}

func TestSubmitWhileSubmitting(t *testing.T) {
	b := &fakeBackend{verdicts: allValid}
	w := newTestWorkspace(b)
	w.SetName("Pizza")
	w.SetDescription("Cheesy")
	_, err := w.Upload(context.Background(), imgs(2))
	require.NoError(t, err)

	w.Session.Dispatch(SubmitStarted{})
	_, _, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.Nil(t, b.identified)
}

type gatedBackend struct {
	fakeBackend
	started chan struct{}
	release chan struct{}
}

func (g *gatedBackend) Identify(_ context.Context, name, _ string, _ []foodcheck.Image) (foodcheck.Analysis, error) {
	close(g.started)
	<-g.release
	return foodcheck.Analysis{Status: "success", Data: foodcheck.AnalysisData{Analysis: "analysed " + name}}, nil
}

func TestSubmitKeepsSubmittedDraftWhenEditedMeanwhile(t *testing.T) {
	b := &gatedBackend{
		fakeBackend: fakeBackend{verdicts: allValid},
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	w := NewWorkspace(b)
	ids := []string{"biryani", "soup"}
	w.NewID = func() string { id := ids[0]; ids = ids[1:]; return id }

	w.Session.Dispatch(SubmitSucceeded{
		CardID: w.NewID(),
		Draft:  Draft{Name: "Biryani", Description: "Spicy", Deck: NewDeck(imgs(2)...)},
	})

	w.SetName("Soup")
	w.SetDescription("Hot")
	_, err := w.Upload(context.Background(), imgs(2))
	require.NoError(t, err)

	type result struct {
		card Card
		err  error
	}
	done := make(chan result, 1)
	go func() {
		card, _, err := w.Submit(context.Background())
		done <- result{card, err}
	}()
	<-b.started

	notices := w.Edit("biryani")
	assert.Equal(t, []Notice{{Level: LevelError, Text: "Submission in progress"}}, notices)
	assert.Equal(t, []Notice{{Level: LevelError, Text: "Submission in progress"}}, w.SetName("Other"))
	notices, err = w.Upload(context.Background(), imgs(1))
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.Len(t, notices, 1)

	close(b.release)
	res := <-done
	require.NoError(t, res.err)

	assert.Equal(t, "Soup", res.card.Name)
	assert.Equal(t, "Hot", res.card.Description)
	assert.Equal(t, "analysed Soup", res.card.Analysis.Data.Analysis)
	assert.Len(t, res.card.Images, 2)

	st := w.Session.State()
	assert.Equal(t, 2, st.Feed.Len())
	biryani, ok := st.Feed.Get("biryani")
	require.True(t, ok)
	assert.Equal(t, "Biryani", biryani.Name)
	assert.Empty(t, biryani.Analysis.Data.Analysis)
	assert.Equal(t, Draft{}, st.Draft)
}
