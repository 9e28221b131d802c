package handle

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/llm"
	"food-lens/api/internal/store"
)

// Identify answers POST /api/identify with the final match verdict.
func (h *Handle) Identify(c *gin.Context) {
	ctx, cancel := h.deadline(c)
	defer cancel()

	f, ok := h.receive(c)
	if !ok {
		return
	}
	defer f.Batch.Release()

	if len(f.Batch.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images uploaded."})
		return
	}

	images, err := f.Batch.Images()
	if err != nil {
		h.log.Error("read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	analysis, err := h.identifier.Identify(ctx, images, f.Name, f.Description)
	h.record(ctx, store.KindIdentification, f, images, analysis, err)
	if err != nil {
		h.log.Error("identification failed",
			zap.String("item", f.Name),
			zap.Int("images", len(images)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": identifyMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

// identifyMessage is the client-facing text for err. Raw model output stays in the log.
func identifyMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrNoBackend):
		return "No model backend is configured."
	case errors.Is(err, foodcheck.ErrResponseParse):
		return "Model response could not be parsed."
	case errors.Is(err, context.DeadlineExceeded):
		return "Identification timed out."
	}
	return "Identification Failed"
}
