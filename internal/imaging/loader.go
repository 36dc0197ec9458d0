package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/photo-editor/internal/edit"
)

// DefaultCacheSize is the number of decoded images an ImageCache keeps when
// no size is given. It comfortably covers a full undo history plus the
// current base and displayed images.
const DefaultCacheSize = 32

// ImageCache provides thread-safe caching of decoded images to avoid decoding
// the same PNG payload on every recompute.
//
// The cache stores decoded image.Image objects keyed by ImageRef ID. Because
// an ImageRef is immutable and its ID is derived from its content, a cached
// entry never goes stale; it can only be evicted.
//
// ImageCache is safe for concurrent use by multiple goroutines. All methods use
// appropriate locking to prevent data races.
//
// # Memory Management
//
// The cache holds at most its configured number of images. When full, the
// entry that was added first is dropped. Evict and Clear release entries
// explicitly.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(0)
//	img, err := cache.Load(ref)
//	if err != nil {
//	    return err
//	}
//	// Use img...
//	cache.Evict(ref) // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	size   int
	images map[string]image.Image
	order  []string
}

// NewImageCache creates and initializes a new empty image cache holding at
// most size images. A size <= 0 selects DefaultCacheSize.
//
// The returned cache is ready for immediate use and is safe for concurrent access.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &ImageCache{
		size:   size,
		images: make(map[string]image.Image),
	}
}

// Load retrieves a decoded image from the cache or decodes the payload of
// ref if it is not cached.
//
// Returns:
//   - image.Image: The decoded image. Callers must treat it as read-only; it
//     is shared with every other caller that loads the same ref.
//   - error: Non-nil if ref is empty or its payload cannot be decoded.
func (c *ImageCache) Load(ref edit.ImageRef) (image.Image, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("failed to decode image: empty image reference")
	}

	c.mu.RLock()
	if img, ok := c.images[ref.ID()]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Decode(ref.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.Store(ref, img)
	return img, nil
}

// Store records img as the decoded form of ref. Processors call it for
// images they just encoded, so the next recompute skips the decode.
func (c *ImageCache) Store(ref edit.ImageRef, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.images[ref.ID()]; ok {
		return
	}
	for len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.images, oldest)
	}
	c.images[ref.ID()] = img
	c.order = append(c.order, ref.ID())
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.order = nil
	c.mu.Unlock()
}

// Evict removes a specific image from the cache.
//
// If ref is not in the cache, this method does nothing.
func (c *ImageCache) Evict(ref edit.ImageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.images[ref.ID()]; !ok {
		return
	}
	delete(c.images, ref.ID())
	for i, id := range c.order {
		if id == ref.ID() {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// DecodeUpload decodes a raw uploaded file of any registered format (PNG,
// JPEG, GIF, WebP, BMP, TIFF).
//
// EXIF orientation is applied, so a portrait photo taken with a rotated
// camera shows up the right way round and all later pixel coordinates
// refer to what the user sees.
func DecodeUpload(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("failed to decode upload: empty file")
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode upload: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG and wraps it in an ImageRef.
func EncodePNG(img image.Image) (edit.ImageRef, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return edit.ImageRef{}, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return edit.NewImageRef(buf.Bytes(), b.Dx(), b.Dy()), nil
}
