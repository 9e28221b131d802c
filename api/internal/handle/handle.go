package handle

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/store"
	"food-lens/api/internal/upload"
)

type Validator interface {
	Validate(ctx context.Context, images []foodcheck.Image, name, description string) (foodcheck.ValidationResult, error)
}

type Identifier interface {
	Identify(ctx context.Context, images []foodcheck.Image, name, description string) (foodcheck.Analysis, error)
}

// Journal receives every model outcome. Failures never affect the response.
type Journal interface {
	Record(ctx context.Context, e store.Entry, result any) error
}

type Options struct {
	UploadDir      string
	MaxFiles       int
	MaxUploadBytes int64
	RequestTimeout time.Duration
	// Engine and Model label journal entries.
	Engine string
	Model  string
}

type Handle struct {
	validator  Validator
	identifier Identifier
	journal    Journal
	opts       Options
	log        *zap.Logger
}

// New wires the handlers. journal may be nil.
func New(v Validator, id Identifier, journal Journal, opts Options, log *zap.Logger) *Handle {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 5
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 180 * time.Second
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	return &Handle{validator: v, identifier: id, journal: journal, opts: opts, log: log}
}

func (h *Handle) RegisterRoutes(r gin.IRouter) {
	r.POST("/validate", h.Validate)
	r.POST("/identify", h.Identify)
}

// deadline bounds the model call; X-Request-Timeout (seconds) or ?timeoutSec override the default.
func (h *Handle) deadline(c *gin.Context) (context.Context, context.CancelFunc) {
	d := h.opts.RequestTimeout
	if ts := c.GetHeader("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			d = time.Duration(v) * time.Second
		}
	} else if ts := c.Query("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			d = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(c.Request.Context(), d)
}

type form struct {
	Name        string
	Description string
	Batch       *upload.Batch
}

// receive spools the foodImages parts of the request. On false the response is already written.
func (h *Handle) receive(c *gin.Context) (form, bool) {
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	mf, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return form{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad multipart form: " + err.Error()})
		return form{}, false
	}

	f := form{
		Name:        strings.TrimSpace(c.PostForm("itemName")),
		Description: strings.TrimSpace(c.PostForm("itemDescription")),
	}
	var files []*multipart.FileHeader
	if mf != nil {
		files = mf.File["foodImages"]
	}
	if len(files) > h.opts.MaxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many images: at most " + strconv.Itoa(h.opts.MaxFiles) + " per request"})
		return form{}, false
	}

	f.Batch, err = upload.Receive(h.opts.UploadDir, files, h.log)
	if err != nil {
		h.log.Error("upload spool failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return form{}, false
	}
	return f, true
}
