// Package imageprep shrinks uploaded photos before they are sent to the model.
//
// Every image is decoded, auto-oriented from its EXIF tag, downscaled to a
// bounded width (never upscaled) and re-encoded as JPEG. Re-encoding drops all
// metadata of the source file.
package imageprep

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"food-lens/api/internal/util"
)

const (
	DefaultMaxWidth = 800
	DefaultQuality  = 80
)

// ErrDecode is returned when the source bytes are not a decodable image.
var ErrDecode = errors.New("image cannot be decoded")

type Processor struct {
	MaxWidth int
	Quality  int
}

func New(maxWidth, quality int) *Processor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{MaxWidth: maxWidth, Quality: quality}
}

// Prepare returns the processed image as a data:image/jpeg;base64 URI.
func (p *Processor) Prepare(src []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return util.EncodeDataURL("image/jpeg", buf.Bytes()), nil
}

// PrepareAll processes all images concurrently. The result is in input order;
// the first failure cancels the rest and is returned.
func (p *Processor) PrepareAll(ctx context.Context, srcs [][]byte) ([]string, error) {
	out := make([]string, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			uri, err := p.Prepare(src)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
