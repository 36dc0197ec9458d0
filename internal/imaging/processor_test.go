package imaging

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ironsheep/photo-editor/internal/edit"
)

func pngBytes(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessor_Upload(t *testing.T) {
	p := NewProcessor()
	ctx := context.Background()

	t.Run("png", func(t *testing.T) {
		ref, err := p.Upload(ctx, pngBytes(t, 12, 9, color.White))
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if ref.Width() != 12 || ref.Height() != 9 {
			t.Errorf("dimensions: got %dx%d, want 12x9", ref.Width(), ref.Height())
		}
	})

	t.Run("jpeg is re-encoded as png", func(t *testing.T) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, createInMemoryImage(16, 16, color.White), nil); err != nil {
			t.Fatalf("failed to encode jpeg: %v", err)
		}
		ref, err := p.Upload(ctx, buf.Bytes())
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if !bytes.HasPrefix(ref.Bytes(), []byte("\x89PNG")) {
			t.Error("upload should be re-encoded as PNG")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := p.Upload(ctx, []byte("hello")); err == nil {
			t.Error("Upload of garbage should fail")
		}
	})

	t.Run("too large", func(t *testing.T) {
		small := NewProcessor(WithMaxPixels(10))
		if _, err := small.Upload(ctx, pngBytes(t, 4, 4, color.White)); err == nil {
			t.Error("Upload above the pixel limit should fail")
		}
	})
}

func TestProcessor_Adjust(t *testing.T) {
	p := NewProcessor()
	ctx := context.Background()
	base, err := p.Upload(ctx, pngBytes(t, 6, 6, color.NRGBA{10, 20, 30, 255}))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	same, err := p.Adjust(ctx, base, edit.DefaultAdjustments(), 0)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if !same.Equal(base) {
		t.Error("neutral adjust should return base")
	}

	neg, err := p.Adjust(ctx, base, edit.DefaultAdjustments(), edit.NewFilterSet(edit.Negative))
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	img, err := png.Decode(neg.Reader())
	if err != nil {
		t.Fatalf("result is not a PNG: %v", err)
	}
	if c := nrgbaAt(img, 3, 3); c != (color.NRGBA{245, 235, 225, 255}) {
		t.Errorf("negative pixel: got %v", c)
	}

	again, err := p.Adjust(ctx, base, edit.DefaultAdjustments(), edit.NewFilterSet(edit.Negative))
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if !again.Equal(neg) {
		t.Error("identical requests should give identical results")
	}

	bad := edit.DefaultAdjustments()
	bad.Brightness = 500
	if _, err := p.Adjust(ctx, base, bad, 0); !errors.Is(err, edit.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestProcessor_Transform(t *testing.T) {
	p := NewProcessor()
	ctx := context.Background()
	ref, err := p.Upload(ctx, pngBytes(t, 30, 10, color.White))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	rotated, err := p.Transform(ctx, ref, edit.RotateOp(90))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if rotated.Width() != 10 || rotated.Height() != 30 {
		t.Errorf("rotated: got %dx%d, want 10x30", rotated.Width(), rotated.Height())
	}

	cropped, err := p.Transform(ctx, rotated, edit.CropOp(edit.Rect{X: 5, Y: 25, W: 50, H: 50}))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if cropped.Width() != 5 || cropped.Height() != 5 {
		t.Errorf("clamped crop: got %dx%d, want 5x5", cropped.Width(), cropped.Height())
	}

	if _, err := p.Transform(ctx, ref, edit.RotateOp(45)); !errors.Is(err, edit.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestProcessor_CachesResults(t *testing.T) {
	cache := NewImageCache(8)
	p := NewProcessor(WithCache(cache))
	ctx := context.Background()

	// One red pixel in the top row so a vertical flip changes the content.
	img := createInMemoryImage(4, 4, color.White)
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	ref, err := p.Upload(ctx, buf.Bytes())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("upload should be cached, Len=%d", cache.Len())
	}
	flipped, err := p.Transform(ctx, ref, edit.FlipOp(edit.FlipVertical))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if flipped.Equal(ref) {
		t.Fatal("flipped image should have a different ID")
	}
	if p.Cache().Len() != 2 {
		t.Errorf("transform result should be cached, Len=%d", p.Cache().Len())
	}
}

func TestProcessor_IdenticalResultSharesCacheEntry(t *testing.T) {
	cache := NewImageCache(8)
	p := NewProcessor(WithCache(cache))
	ctx := context.Background()

	ref, err := p.Upload(ctx, pngBytes(t, 4, 4, color.White))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	flipped, err := p.Transform(ctx, ref, edit.FlipOp(edit.FlipVertical))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if !flipped.Equal(ref) {
		t.Errorf("flip of a uniform image: got ID %s, want %s", flipped.ID(), ref.ID())
	}
	if cache.Len() != 1 {
		t.Errorf("identical content should share one entry, Len=%d", cache.Len())
	}
}

func TestProcessor_CancelledContext(t *testing.T) {
	p := NewProcessor()
	ref, err := p.Upload(context.Background(), pngBytes(t, 4, 4, color.White))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Upload(ctx, pngBytes(t, 4, 4, color.White)); !errors.Is(err, context.Canceled) {
		t.Errorf("Upload: got %v, want context.Canceled", err)
	}
	if _, err := p.Adjust(ctx, ref, edit.DefaultAdjustments(), edit.NewFilterSet(edit.Blur)); !errors.Is(err, context.Canceled) {
		t.Errorf("Adjust: got %v, want context.Canceled", err)
	}
	if _, err := p.Transform(ctx, ref, edit.RotateOp(180)); !errors.Is(err, context.Canceled) {
		t.Errorf("Transform: got %v, want context.Canceled", err)
	}
}
