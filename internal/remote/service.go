// Package remote exposes the image processing service over HTTP and
// provides the matching client.
//
// The wire format is the one the browser editor speaks: multipart uploads,
// JSON bodies carrying base64 data URLs, PNG bytes in every successful
// response and {"error": "..."} otherwise.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// DefaultMaxUploadSize bounds request bodies.
const DefaultMaxUploadSize = 32 << 20

// Processor is the image processing backend served over HTTP.
type Processor interface {
	Upload(ctx context.Context, raw []byte) (edit.ImageRef, error)
	Adjust(ctx context.Context, base edit.ImageRef, params edit.AdjustmentParams, filters edit.FilterSet) (edit.ImageRef, error)
	Transform(ctx context.Context, img edit.ImageRef, op edit.TransformOp) (edit.ImageRef, error)
}

// Service serves a Processor over HTTP.
type Service struct {
	proc          Processor
	logger        *slog.Logger
	maxUploadSize int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithMaxUploadSize bounds the size of any request body.
func WithMaxUploadSize(n int64) ServiceOption {
	return func(s *Service) { s.maxUploadSize = n }
}

// NewService wraps proc.
func NewService(proc Processor, opts ...ServiceOption) *Service {
	s := &Service{
		proc:          proc,
		logger:        slog.Default(),
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/upload", s.handleUpload)
	r.Post("/process", s.handleProcess)
	r.Post("/transform", s.handleTransform)
	return r
}

// ListenAndServe serves Routes on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("remote: listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote: shutdown: %w", err)
	}
	s.logger.Info("remote: stopped")
	return nil
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, statusForBody(err), fmt.Errorf("missing file: %w", err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, statusForBody(err), err)
		return
	}
	img, err := s.proc.Upload(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeImage(w, img)
}

func (s *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !s.decode(w, r, &req) {
		return
	}
	base, ok := s.image(w, req.Image)
	if !ok {
		return
	}
	params, filters, err := req.Params()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	img, err := s.proc.Adjust(r.Context(), base, params, filters)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeImage(w, img)
}

func (s *Service) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, ok := s.image(w, req.Image)
	if !ok {
		return
	}
	op, err := req.Op()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	img, err := s.proc.Transform(r.Context(), src, op)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeImage(w, img)
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, statusForBody(err), fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Service) image(w http.ResponseWriter, payload string) (edit.ImageRef, bool) {
	data, err := DecodeImagePayload(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return edit.ImageRef{}, false
	}
	img, err := edit.DecodeImageRef(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return edit.ImageRef{}, false
	}
	return img, true
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("remote: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, edit.ErrInvalidParameter), errors.Is(err, edit.ErrUnknownFilter):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func statusForBody(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeImage(w http.ResponseWriter, img edit.ImageRef) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(img.Len()))
	w.WriteHeader(http.StatusOK)
	img.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorBody{Error: err.Error()})
}
