package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/store"
)

// Validate answers POST /api/validate with one verdict per uploaded image.
func (h *Handle) Validate(c *gin.Context) {
	ctx, cancel := h.deadline(c)
	defer cancel()

	f, ok := h.receive(c)
	if !ok {
		return
	}
	defer f.Batch.Release()

	if len(f.Batch.Files) == 0 {
		c.JSON(http.StatusOK, foodcheck.ValidationResult{Results: []foodcheck.Verdict{}})
		return
	}

	images, err := f.Batch.Images()
	if err != nil {
		h.log.Error("read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation Failed"})
		return
	}

	res, err := h.validator.Validate(ctx, images, f.Name, f.Description)
	h.record(ctx, store.KindValidation, f, images, res, err)
	if err != nil {
		h.log.Error("validation failed",
			zap.String("item", f.Name),
			zap.Int("images", len(images)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation Failed"})
		return
	}

	c.JSON(http.StatusOK, res)
}
