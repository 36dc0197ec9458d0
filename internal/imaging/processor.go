package imaging

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// DefaultMaxPixels bounds decoded uploads (about 50 megapixels).
const DefaultMaxPixels = 50_000_000

// Processor is the in-process image processing service. It decodes every
// upload once, renders adjustments and filters with the functions in this
// package and returns PNG encoded results.
//
// Processor is safe for concurrent use.
type Processor struct {
	cache     *ImageCache
	logger    *slog.Logger
	maxPixels int
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithCache shares a decoded image cache between processors.
func WithCache(c *ImageCache) ProcessorOption {
	return func(p *Processor) { p.cache = c }
}

// WithLogger sets the processor logger.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

// WithMaxPixels rejects uploads larger than n pixels. Zero disables the check.
func WithMaxPixels(n int) ProcessorOption {
	return func(p *Processor) { p.maxPixels = n }
}

// NewProcessor returns a Processor with a private cache of DefaultCacheSize.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:    slog.Default(),
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewImageCache(DefaultCacheSize)
	}
	return p
}

// Cache returns the decoded image cache.
func (p *Processor) Cache() *ImageCache { return p.cache }

// Upload decodes raw and re-encodes it as PNG.
func (p *Processor) Upload(ctx context.Context, raw []byte) (edit.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return edit.ImageRef{}, err
	}
	img, err := DecodeUpload(raw)
	if err != nil {
		return edit.ImageRef{}, err
	}
	b := img.Bounds()
	if p.maxPixels > 0 && b.Dx()*b.Dy() > p.maxPixels {
		return edit.ImageRef{}, fmt.Errorf("image %dx%d exceeds the %d pixel limit", b.Dx(), b.Dy(), p.maxPixels)
	}
	return p.encode(ctx, "upload", time.Now(), img)
}

// Adjust renders base with params and filters.
func (p *Processor) Adjust(ctx context.Context, base edit.ImageRef, params edit.AdjustmentParams, filters edit.FilterSet) (edit.ImageRef, error) {
	if err := params.Validate(); err != nil {
		return edit.ImageRef{}, err
	}
	start := time.Now()
	img, err := p.load(ctx, base)
	if err != nil {
		return edit.ImageRef{}, err
	}
	if params.IsDefault() && filters.IsEmpty() {
		return base, nil
	}
	return p.encode(ctx, "adjust", start, Render(img, params, filters))
}

// Transform applies op to img.
func (p *Processor) Transform(ctx context.Context, ref edit.ImageRef, op edit.TransformOp) (edit.ImageRef, error) {
	start := time.Now()
	img, err := p.load(ctx, ref)
	if err != nil {
		return edit.ImageRef{}, err
	}
	out, err := ApplyTransform(img, op)
	if err != nil {
		return edit.ImageRef{}, err
	}
	return p.encode(ctx, "transform "+op.String(), start, out)
}

func (p *Processor) load(ctx context.Context, ref edit.ImageRef) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.cache.Load(ref)
}

// encode turns the result into an ImageRef and seeds the cache with the
// already decoded pixels. A context cancelled while rendering discards the
// result.
func (p *Processor) encode(ctx context.Context, what string, start time.Time, img image.Image) (edit.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return edit.ImageRef{}, err
	}
	ref, err := EncodePNG(img)
	if err != nil {
		return edit.ImageRef{}, err
	}
	p.cache.Store(ref, img)
	p.logger.Debug("imaging: processed", "op", what, "image", ref.String(), "elapsed", time.Since(start))
	return ref, nil
}
