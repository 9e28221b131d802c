package handle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/store"
	"food-lens/api/internal/util"
)

const journalTimeout = 5 * time.Second

// record appends the outcome to the journal when one is configured. Errors are only logged.
func (h *Handle) record(ctx context.Context, kind store.Kind, f form, images []foodcheck.Image, result any, callErr error) {
	if h.journal == nil {
		return
	}

	blobs := make([][]byte, len(images))
	for i, img := range images {
		blobs[i] = img.Data
	}
	e := store.Entry{
		Kind:        kind,
		ItemName:    f.Name,
		Description: f.Description,
		ImageHash:   util.SHA256Hex(blobs...),
		ImageCount:  len(images),
		Engine:      h.opts.Engine,
		Model:       h.opts.Model,
	}
	if callErr != nil {
		e.Error = util.Truncate(callErr.Error(), 500)
		result = nil
	}

	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	if err := h.journal.Record(jctx, e, result); err != nil {
		h.log.Warn("journal write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
