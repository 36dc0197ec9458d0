package session

import (
	"context"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// Processor is the image processing service. Implementations must not
// retain or modify their inputs; every call returns a new ImageRef.
type Processor interface {
	// Upload decodes a raw file and returns it as a displayable image.
	Upload(ctx context.Context, raw []byte) (edit.ImageRef, error)

	// Adjust renders base with params and filters applied.
	Adjust(ctx context.Context, base edit.ImageRef, params edit.AdjustmentParams, filters edit.FilterSet) (edit.ImageRef, error)

	// Transform applies one destructive operation to img.
	Transform(ctx context.Context, img edit.ImageRef, op edit.TransformOp) (edit.ImageRef, error)
}

// Surface shows an image to the user, replacing whatever was shown before.
type Surface interface {
	Display(img edit.ImageRef)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(img edit.ImageRef)

// Display calls f(img).
func (f SurfaceFunc) Display(img edit.ImageRef) { f(img) }

type nopSurface struct{}

func (nopSurface) Display(edit.ImageRef) {}
