package foodcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"food-lens/api/internal/imageprep"
	"food-lens/api/internal/llm"
)

type fakeEngine struct {
	reply  string
	err    error
	calls  int
	system string
	parts  []llm.Part
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake-1" }
func (f *fakeEngine) Invoke(_ context.Context, system string, parts []llm.Part) (string, error) {
	f.calls++
	f.system = system
	f.parts = parts
	return f.reply, f.err
}

func photos(t *testing.T, n int) []Image {
	t.Helper()
	out := make([]Image, n)
	for i := range out {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4+i, 4))))
		out[i] = Image{Name: fmt.Sprintf("p%d.png", i), MIME: "image/png", Data: buf.Bytes()}
	}
	return out
}

func verdictsJSON(valid ...bool) string {
	items := make([]string, len(valid))
	for i, v := range valid {
		items[i] = fmt.Sprintf(`{"index":%d,"isValid":%t,"reason":"r%d"}`, i, v, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func newValidator(eng llm.Engine, policy ErrorPolicy) *Validator {
	return NewValidator(eng, imageprep.New(800, 80), policy, zap.NewNop())
}

func TestValidateResultAlignsWithInput(t *testing.T) {
	for n := 0; n <= 5; n++ {
		t.Run(fmt.Sprintf("%d images", n), func(t *testing.T) {
			valid := make([]bool, n)
			for i := range valid {
				valid[i] = i%2 == 0
			}
			eng := &fakeEngine{reply: verdictsJSON(valid...)}

			res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, n), "Chicken Biryani", "rice")
			require.NoError(t, err)
			require.Len(t, res.Results, n)
			for i, v := range res.Results {
				assert.Equal(t, i, v.Index)
				assert.Equal(t, valid[i], v.IsValid)
			}
			if n == 0 {
				assert.Zero(t, eng.calls, "no model call for an empty batch")
				assert.NotNil(t, res.Results)
			} else {
				assert.Equal(t, 1, eng.calls, "one batched call")
				assert.Len(t, eng.parts, n+1)
			}
		})
	}
}

func TestValidateFailSafeOnModelError(t *testing.T) {
	eng := &fakeEngine{err: &llm.TransportError{Backend: "fake", Err: errors.New("connection reset")}}

	res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 3), "Pizza", "cheese")
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	for i, v := range res.Results {
		assert.Equal(t, Verdict{Index: i, IsValid: false, Reason: ReasonSystemError}, v)
	}
}

func TestValidateFailSafeOnGarbage(t *testing.T) {
	for _, reply := range []string{"Sure! Both look tasty.", `{"verdict":"ok"}`, "```json\n[{\"index\":0,\n```"} {
		eng := &fakeEngine{reply: reply}
		res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 2), "Pizza", "cheese")
		require.NoError(t, err)
		require.Len(t, res.Results, 2)
		for _, v := range res.Results {
			assert.False(t, v.IsValid)
			assert.Equal(t, ReasonSystemError, v.Reason)
		}
	}
}

func TestValidateFailSafeOnUndecodableImage(t *testing.T) {
	eng := &fakeEngine{reply: verdictsJSON(true)}
	res, err := newValidator(eng, FailSafe).Validate(context.Background(), []Image{{Data: []byte("nope")}}, "Pizza", "")
	require.NoError(t, err)
	assert.Equal(t, []Verdict{{Index: 0, IsValid: false, Reason: ReasonSystemError}}, res.Results)
	assert.Zero(t, eng.calls)
}

func TestValidateFailLoudReturnsError(t *testing.T) {
	eng := &fakeEngine{reply: "not json"}
	_, err := newValidator(eng, FailLoud).Validate(context.Background(), photos(t, 1), "Pizza", "")
	assert.ErrorIs(t, err, ErrResponseParse)
}

func TestValidateConfigurationErrorPropagates(t *testing.T) {
	_, err := newValidator(llm.Unconfigured{}, FailSafe).Validate(context.Background(), photos(t, 2), "Pizza", "")
	assert.ErrorIs(t, err, llm.ErrNoBackend)
}

func TestValidateParsesFencedAndWrappedOutput(t *testing.T) {
	fenced := &fakeEngine{reply: "```json\n" + verdictsJSON(true, false) + "\n```"}
	res, err := newValidator(fenced, FailSafe).Validate(context.Background(), photos(t, 2), "Pizza", "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, validity(res.Results))

	wrapped := &fakeEngine{reply: `{"results":` + verdictsJSON(false, true) + `}`}
	res, err = newValidator(wrapped, FailSafe).Validate(context.Background(), photos(t, 2), "Pizza", "")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, validity(res.Results))
}

func TestValidateShortOutputPlacedByIndex(t *testing.T) {
	eng := &fakeEngine{reply: `[{"index":2,"isValid":true,"reason":"looks right"},{"index":7,"isValid":true}]`}
	res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 3), "Pizza", "")
	require.NoError(t, err)

	assert.Equal(t, []Verdict{
		{Index: 0, IsValid: false, Reason: ReasonNoVerdict},
		{Index: 1, IsValid: false, Reason: ReasonNoVerdict},
		{Index: 2, IsValid: true, Reason: "looks right"},
	}, res.Results)
}

func TestValidateReorderedOutputPlacedByIndex(t *testing.T) {
	eng := &fakeEngine{reply: `[{"index":1,"isValid":false,"reason":"cat"},{"index":0,"isValid":true,"reason":"biryani"}]`}
	res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 2), "Chicken Biryani", "")
	require.NoError(t, err)

	assert.Equal(t, []Verdict{
		{Index: 0, IsValid: true, Reason: "biryani"},
		{Index: 1, IsValid: false, Reason: "cat"},
	}, res.Results)
}

func TestValidateFullOutputWithBadIndicesTakenPositionally(t *testing.T) {
	for _, reply := range []string{
		`[{"isValid":false,"reason":"cat"},{"isValid":true,"reason":"biryani"}]`,
		`[{"index":1,"isValid":false,"reason":"cat"},{"index":1,"isValid":true,"reason":"biryani"}]`,
		`[{"index":1,"isValid":false,"reason":"cat"},{"index":2,"isValid":true,"reason":"biryani"}]`,
	} {
		eng := &fakeEngine{reply: reply}
		res, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 2), "Chicken Biryani", "")
		require.NoError(t, err)
		assert.Equal(t, []Verdict{
			{Index: 0, IsValid: false, Reason: "cat"},
			{Index: 1, IsValid: true, Reason: "biryani"},
		}, res.Results, reply)
	}
}

func TestValidatePromptCarriesClaims(t *testing.T) {
	eng := &fakeEngine{reply: verdictsJSON(true)}
	_, err := newValidator(eng, FailSafe).Validate(context.Background(), photos(t, 1), "Chicken Biryani", "spiced rice")
	require.NoError(t, err)

	require.NotEmpty(t, eng.parts)
	assert.Contains(t, eng.parts[0].Text, "Chicken Biryani")
	assert.Contains(t, eng.parts[0].Text, "spiced rice")
	assert.True(t, eng.parts[1].IsImage())
	assert.True(t, strings.HasPrefix(eng.parts[1].ImageDataURI, "data:image/jpeg;base64,"))
	assert.Contains(t, eng.system, "JSON array")
}

func validity(vs []Verdict) []bool {
	out := make([]bool, len(vs))
	for i, v := range vs {
		out[i] = v.IsValid
	}
	return out
}

func newIdentifier(eng llm.Engine, policy ErrorPolicy) *Identifier {
	return NewIdentifier(eng, imageprep.New(800, 80), policy, zap.NewNop())
}

func TestIdentifySuccess(t *testing.T) {
	eng := &fakeEngine{reply: "```json\n{\"status\":\"success\",\"data\":{\"isMatch\":true,\"confidence\":1.4,\"analysis\":\"Biryani with saffron rice\"}}\n```"}

	a, err := newIdentifier(eng, FailLoud).Identify(context.Background(), photos(t, 2), "Chicken Biryani", "spiced rice")
	require.NoError(t, err)
	assert.Equal(t, "success", a.Status)
	assert.True(t, a.Data.IsMatch)
	assert.Equal(t, 1.0, a.Data.Confidence)
	assert.Equal(t, "Biryani with saffron rice", a.Data.Analysis)

	assert.Contains(t, eng.parts[0].Text, "spiced rice", "description is part of the prompt")
	assert.Len(t, eng.parts, 3)
}

func TestIdentifyMalformedJSONPropagates(t *testing.T) {
	eng := &fakeEngine{reply: "{status: success"}
	_, err := newIdentifier(eng, FailLoud).Identify(context.Background(), photos(t, 2), "Pizza", "cheese")
	assert.ErrorIs(t, err, ErrResponseParse)

	eng = &fakeEngine{reply: `{"status":"success"}`}
	_, err = newIdentifier(eng, FailLoud).Identify(context.Background(), photos(t, 2), "Pizza", "cheese")
	assert.ErrorIs(t, err, ErrResponseParse)
}

func TestIdentifyFailSafe(t *testing.T) {
	eng := &fakeEngine{err: errors.New("boom")}
	a, err := newIdentifier(eng, FailSafe).Identify(context.Background(), photos(t, 2), "Pizza", "cheese")
	require.NoError(t, err)
	assert.Equal(t, Analysis{Status: "error", Data: AnalysisData{Analysis: ReasonSystemError}}, a)

	_, err = newIdentifier(llm.Unconfigured{}, FailSafe).Identify(context.Background(), photos(t, 2), "Pizza", "cheese")
	assert.ErrorIs(t, err, llm.ErrNoBackend)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" Fail-Safe ")
	require.NoError(t, err)
	assert.Equal(t, FailSafe, p)

	p, err = ParsePolicy("fail-loud")
	require.NoError(t, err)
	assert.Equal(t, FailLoud, p)

	_, err = ParsePolicy("retry")
	assert.Error(t, err)
}

func TestServiceDelegates(t *testing.T) {
	eng := &fakeEngine{reply: verdictsJSON(true, false)}
	svc := &Service{Validator: newValidator(eng, FailSafe), Identifier: newIdentifier(eng, FailLoud)}

	vs, err := svc.Validate(context.Background(), "Pizza", "cheese", photos(t, 2))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, validity(vs))
}
