package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/photo-editor/internal/edit"
	"github.com/ironsheep/photo-editor/internal/imaging"
)

func pngBytes(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, opts ...ServiceOption) (*httptest.Server, *Client) {
	t.Helper()
	svc := NewService(imaging.NewProcessor(), opts...)
	ts := httptest.NewServer(svc.Routes())
	t.Cleanup(ts.Close)
	return ts, NewClient(ts.URL, WithTimeout(5*time.Second))
}

func TestClient_RoundTrip(t *testing.T) {
	_, client := newTestService(t)
	ctx := context.Background()

	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health failed: %v", err)
	}

	up, err := client.Upload(ctx, pngBytes(t, 20, 10, color.NRGBA{100, 100, 100, 255}))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if up.Width() != 20 || up.Height() != 10 {
		t.Errorf("upload size: got %dx%d, want 20x10", up.Width(), up.Height())
	}

	params := edit.DefaultAdjustments()
	params.Brightness = 150
	adj, err := client.Adjust(ctx, up, params, edit.NewFilterSet(edit.Negative))
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	img, err := png.Decode(adj.Reader())
	if err != nil {
		t.Fatalf("adjust result is not a PNG: %v", err)
	}
	// 100 + 50 = 150, inverted = 105
	if r, _, _, _ := img.At(5, 5).RGBA(); r>>8 != 105 {
		t.Errorf("pixel: got %d, want 105", r>>8)
	}

	rot, err := client.Transform(ctx, up, edit.RotateOp(90))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if rot.Width() != 10 || rot.Height() != 20 {
		t.Errorf("rotated size: got %dx%d, want 10x20", rot.Width(), rot.Height())
	}
}

func TestClient_Errors(t *testing.T) {
	_, client := newTestService(t)
	ctx := context.Background()

	_, err := client.Upload(ctx, []byte("not an image"))
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest || se.Message == "" {
		t.Errorf("status error: got %+v", se)
	}

	up, err := client.Upload(ctx, pngBytes(t, 4, 4, color.White))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if _, err := client.Transform(ctx, up, edit.RotateOp(45)); !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Errorf("invalid rotate: got %v, want HTTP 400", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewClient(url, WithTimeout(time.Second))
	if _, err := client.Upload(context.Background(), []byte("x")); err == nil {
		t.Error("Upload to a closed server should fail")
	}
}

func TestService_Process(t *testing.T) {
	ts, _ := newTestService(t)
	raw := pngBytes(t, 3, 3, color.White)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"data url",
			`{"image":"` + EncodeDataURL(edit.NewImageRef(raw, 3, 3)) + `","negative":true}`,
			http.StatusOK,
		},
		{"bad json", `{"image":`, http.StatusBadRequest},
		{"bad image", `{"image":"aGVsbG8="}`, http.StatusBadRequest},
		{"out of range", `{"image":"` + EncodeDataURL(edit.NewImageRef(raw, 3, 3)) + `","contrast":300}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/process", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("status: got %d, want %d (%s)", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantStatus == http.StatusOK {
				if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
					t.Errorf("Content-Type: got %q", ct)
				}
				return
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
				t.Errorf("error body should be {\"error\": ...}, got %v / %+v", err, body)
			}
		})
	}
}

func TestService_UploadTooLarge(t *testing.T) {
	_, client := newTestService(t, WithMaxUploadSize(64))

	_, err := client.Upload(context.Background(), pngBytes(t, 50, 50, color.White))
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *StatusError", err)
	}
	if se.Code != http.StatusRequestEntityTooLarge && se.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 413 or 400", se.Code)
	}
}

func TestService_ListenAndServe(t *testing.T) {
	svc := NewService(imaging.NewProcessor())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: got %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not stop after cancel")
	}
}
