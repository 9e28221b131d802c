// Package client calls the food-lens HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/util"
)

const defaultTimeout = 3 * time.Minute

// Client implements deck.Backend over /api/validate and /api/identify.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-200 answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("food-lens api: status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Validate(ctx context.Context, name, description string, images []foodcheck.Image) ([]foodcheck.Verdict, error) {
	var out foodcheck.ValidationResult
	if err := c.post(ctx, "/api/validate", name, description, images, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) Identify(ctx context.Context, name, description string, images []foodcheck.Image) (foodcheck.Analysis, error) {
	var out struct {
		Success  bool               `json:"success"`
		Analysis foodcheck.Analysis `json:"analysis"`
	}
	if err := c.post(ctx, "/api/identify", name, description, images, &out); err != nil {
		return foodcheck.Analysis{}, err
	}
	if !out.Success {
		return foodcheck.Analysis{}, fmt.Errorf("food-lens api: identify returned success=false")
	}
	return out.Analysis, nil
}

func (c *Client) post(ctx context.Context, path, name, description string, images []foodcheck.Image, out any) error {
	body, contentType, err := encodeForm(name, description, images)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if dl, ok := ctx.Deadline(); ok {
		if secs := int(time.Until(dl).Seconds()); secs > 0 {
			req.Header.Set("X-Request-Timeout", fmt.Sprint(secs))
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("food-lens api %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("food-lens api %s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: util.Truncate(msg, 300)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("food-lens api %s: decode: %w", path, err)
	}
	return nil
}

func encodeForm(name, description string, images []foodcheck.Image) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := w.WriteField("itemName", name); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("itemDescription", description); err != nil {
		return nil, "", err
	}
	for i, img := range images {
		filename := img.Name
		if filename == "" {
			filename = fmt.Sprintf("image-%d", i)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="foodImages"; filename=%q`, filename))
		h.Set("Content-Type", util.PickMIME(img.MIME, "", img.Data))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
