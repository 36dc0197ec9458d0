package edit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
)

// ImageRef is an immutable handle to encoded image data.
//
// The payload is copied on creation and never exposed for writing, so an
// ImageRef can be shared freely between the session, its history and the
// render surface. Two ImageRefs with the same content have the same ID.
//
// The zero value represents "no image".
type ImageRef struct {
	id     string
	data   []byte
	width  int
	height int
}

// NewImageRef wraps an encoded payload whose dimensions are already known.
// The payload is copied.
func NewImageRef(data []byte, width, height int) ImageRef {
	owned := bytes.Clone(data)
	sum := sha256.Sum256(owned)
	return ImageRef{
		id:     hex.EncodeToString(sum[:8]),
		data:   owned,
		width:  width,
		height: height,
	}
}

// DecodeImageRef wraps an encoded payload, reading its dimensions from the
// image header. Supported formats are those registered with the image
// package (PNG, JPEG and GIF at minimum).
func DecodeImageRef(data []byte) (ImageRef, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return NewImageRef(data, cfg.Width, cfg.Height), nil
}

// ID returns the content-derived identity of the image.
func (r ImageRef) ID() string { return r.id }

// Width returns the natural width in pixels.
func (r ImageRef) Width() int { return r.width }

// Height returns the natural height in pixels.
func (r ImageRef) Height() int { return r.height }

// Len returns the size of the encoded payload in bytes.
func (r ImageRef) Len() int { return len(r.data) }

// IsZero reports whether r refers to no image at all.
func (r ImageRef) IsZero() bool { return r.data == nil }

// Bytes returns a copy of the encoded payload.
func (r ImageRef) Bytes() []byte { return bytes.Clone(r.data) }

// Reader returns a read-only view of the encoded payload.
func (r ImageRef) Reader() io.Reader { return bytes.NewReader(r.data) }

// WriteTo writes the encoded payload to w.
func (r ImageRef) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// Equal reports whether both refs hold the same content.
func (r ImageRef) Equal(other ImageRef) bool {
	if r.IsZero() || other.IsZero() {
		return r.IsZero() == other.IsZero()
	}
	return r.id == other.id
}

func (r ImageRef) String() string {
	if r.IsZero() {
		return "image(none)"
	}
	return fmt.Sprintf("image(%s %dx%d %dB)", r.id, r.width, r.height, len(r.data))
}

// ImageInfo is the JSON-friendly description of an ImageRef.
type ImageInfo struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

// Info describes r for presentation layers.
func (r ImageRef) Info() ImageInfo {
	return ImageInfo{ID: r.id, Width: r.width, Height: r.height, Bytes: len(r.data)}
}
