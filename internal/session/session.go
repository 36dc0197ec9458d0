package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ironsheep/photo-editor/internal/coalesce"
	"github.com/ironsheep/photo-editor/internal/crop"
	"github.com/ironsheep/photo-editor/internal/edit"
	"github.com/ironsheep/photo-editor/internal/history"
)

// renderRequest asks for a recompute of the state at generation gen.
type renderRequest struct {
	gen uint64
}

// Session is one editable image.
type Session struct {
	proc      Processor
	surface   Surface
	logger    *slog.Logger
	onError   func(error)
	coalescer *coalesce.Coalescer[renderRequest]

	// work is held across every Processor call.
	work sync.Mutex

	mu          sync.Mutex
	original    edit.ImageRef
	base        edit.ImageRef
	displayed   edit.ImageRef
	adjustments edit.AdjustmentParams
	filters     edit.FilterSet
	history     *history.Stack[edit.Snapshot]
	gen         uint64
	gesture     crop.Gesture
	lastErr     error
	renderErr   error
}

// New creates an empty session backed by proc.
func New(proc Processor, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		proc:        proc,
		surface:     cfg.surface,
		logger:      cfg.logger,
		onError:     cfg.onError,
		adjustments: edit.DefaultAdjustments(),
		history:     history.New[edit.Snapshot](cfg.historyCap),
	}
	s.coalescer = coalesce.New(cfg.debounce, s.fireRender,
		coalesce.WithClock(cfg.clock),
		coalesce.WithLogger(cfg.logger),
	)
	return s
}

// Upload replaces the session image with a freshly uploaded file. On
// success, original, base and displayed all point at the upload, the
// parameters are reset and history restarts from this single state.
func (s *Session) Upload(ctx context.Context, raw []byte) error {
	s.work.Lock()
	defer s.work.Unlock()

	ref, err := s.proc.Upload(ctx, raw)
	if err != nil {
		err = fmt.Errorf("%w: %w", edit.ErrUploadFailed, err)
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.original, s.base, s.displayed = ref, ref, ref
	s.adjustments = edit.DefaultAdjustments()
	s.filters = 0
	s.gen++
	s.history.Reset(s.snapshotLocked())
	s.gesture.Exit()
	s.lastErr = nil
	s.mu.Unlock()

	s.coalescer.Cancel()
	s.logger.Info("session: image uploaded", "image", ref.String())
	s.surface.Display(ref)
	return nil
}

// SetAdjustment changes one slider value and schedules a debounced
// recompute. No history entry is recorded until Commit.
func (s *Session) SetAdjustment(field edit.Field, value int) error {
	s.mu.Lock()
	if s.base.IsZero() {
		s.mu.Unlock()
		return edit.ErrNoActiveImage
	}
	next, err := s.adjustments.With(field, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == s.adjustments {
		s.mu.Unlock()
		return nil
	}
	s.adjustments = next
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.coalescer.Submit(renderRequest{gen: gen})
	return nil
}

// ToggleFilter flips one filter and schedules a debounced recompute.
func (s *Session) ToggleFilter(f edit.Filter) error {
	parsed, err := edit.ParseFilter(string(f))
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.base.IsZero() {
		s.mu.Unlock()
		return edit.ErrNoActiveImage
	}
	s.filters = s.filters.Toggle(parsed)
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.coalescer.Submit(renderRequest{gen: gen})
	return nil
}

// Commit records the current state in history. Each call adds exactly one
// entry, however many recomputes ran since the previous one.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base.IsZero() {
		return edit.ErrNoActiveImage
	}
	s.history.Push(s.snapshotLocked())
	return nil
}

// Transform applies a destructive operation to the displayed image. A
// debounced recompute that is pending or already running is finished first,
// so the transform starts from the latest parameters. On success the result becomes both base and displayed,
// the parameters return to their defaults and a history entry is recorded.
func (s *Session) Transform(ctx context.Context, op edit.TransformOp) error {
	if err := op.Validate(); err != nil {
		return err
	}
	if !s.HasImage() {
		return edit.ErrNoActiveImage
	}

	s.coalescer.Flush(ctx)

	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	src := s.displayed
	s.mu.Unlock()

	result, err := s.proc.Transform(ctx, src, op)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", edit.ErrTransformFailed, op, err)
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.base, s.displayed = result, result
	s.adjustments = edit.DefaultAdjustments()
	s.filters = 0
	s.gen++
	s.history.Push(s.snapshotLocked())
	s.gesture.Exit()
	s.lastErr = nil
	s.mu.Unlock()

	s.coalescer.Cancel()
	s.logger.Info("session: transform applied", "op", op.String(), "image", result.String())
	s.surface.Display(result)
	return nil
}

// Undo restores the previous history entry. It reports edit.ErrHistoryEmpty
// when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) error {
	return s.navigate(ctx, false)
}

// Redo restores the next history entry. It reports edit.ErrHistoryEmpty
// when there is nothing to redo.
func (s *Session) Redo(ctx context.Context) error {
	return s.navigate(ctx, true)
}

func (s *Session) navigate(ctx context.Context, forward bool) error {
	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	if s.base.IsZero() {
		s.mu.Unlock()
		return edit.ErrNoActiveImage
	}
	var (
		target edit.Snapshot
		ok     bool
	)
	if forward {
		target, ok = s.history.PeekRedo()
	} else {
		target, ok = s.history.PeekUndo()
	}
	s.mu.Unlock()
	if !ok {
		if forward {
			return fmt.Errorf("%w: %w", edit.ErrHistoryEmpty, history.ErrNothingToRedo)
		}
		return fmt.Errorf("%w: %w", edit.ErrHistoryEmpty, history.ErrNothingToUndo)
	}

	rendered, err := s.proc.Adjust(ctx, target.Base, target.Adjustments, target.Filters)
	if err != nil {
		err = fmt.Errorf("%w: %w", edit.ErrProcessingFailed, err)
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	var snap edit.Snapshot
	if forward {
		snap, err = s.history.Redo()
	} else {
		snap, err = s.history.Undo()
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", edit.ErrHistoryEmpty, err)
	}
	s.restoreLocked(snap)
	stale := !snap.Equal(target)
	if !stale {
		s.displayed = rendered
	}
	gen := s.gen
	s.lastErr = nil
	s.mu.Unlock()

	s.coalescer.Cancel()
	if stale {
		// History moved between the look-ahead and the apply; render the
		// entry that actually became current.
		s.coalescer.Submit(renderRequest{gen: gen})
		return nil
	}
	s.logger.Debug("session: history restored", "forward", forward, "base", snap.Base.String())
	s.surface.Display(rendered)
	return nil
}

// ResetToOriginal discards every transform and adjustment and shows the
// uploaded image again. The reset is recorded in history so it can be
// undone; nothing is recorded when the state already matches the original.
func (s *Session) ResetToOriginal() error {
	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	if s.original.IsZero() {
		s.mu.Unlock()
		return edit.ErrNoActiveImage
	}
	s.base, s.displayed = s.original, s.original
	s.adjustments = edit.DefaultAdjustments()
	s.filters = 0
	s.gen++
	snap := s.snapshotLocked()
	if cur, ok := s.history.Current(); !ok || !cur.Equal(snap) {
		s.history.Push(snap)
	}
	s.gesture.Exit()
	original := s.original
	s.mu.Unlock()

	s.coalescer.Cancel()
	s.logger.Info("session: reset to original", "image", original.String())
	s.surface.Display(original)
	return nil
}

// Flush renders a pending debounced change immediately, or waits for one
// already running, and returns the outcome of that render. It returns nil
// when nothing was pending.
func (s *Session) Flush(ctx context.Context) error {
	if !s.coalescer.Flush(ctx) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderErr
}

// fireRender is the coalescer callback.
func (s *Session) fireRender(ctx context.Context, seq uint64, req renderRequest) {
	err := s.render(ctx, req.gen)
	s.mu.Lock()
	s.renderErr = err
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("session: recompute failed", "seq", seq, "error", err)
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// render recomputes displayed from base for generation gen. Work for a
// superseded generation is skipped, and a response that arrives after the
// state moved on is dropped.
func (s *Session) render(ctx context.Context, gen uint64) error {
	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	base, params, filters := s.base, s.adjustments, s.filters
	s.mu.Unlock()

	result, err := s.proc.Adjust(ctx, base, params, filters)
	if err != nil {
		err = fmt.Errorf("%w: %w", edit.ErrProcessingFailed, err)
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("session: discarded stale recompute", "gen", gen)
		return nil
	}
	s.displayed = result
	s.lastErr = nil
	s.mu.Unlock()

	s.surface.Display(result)
	return nil
}

func (s *Session) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Session) snapshotLocked() edit.Snapshot {
	return edit.Snapshot{Base: s.base, Adjustments: s.adjustments, Filters: s.filters}
}

func (s *Session) restoreLocked(snap edit.Snapshot) {
	s.base = snap.Base
	s.adjustments = snap.Adjustments
	s.filters = snap.Filters
	s.gen++
	s.gesture.Exit()
}

// Snapshot returns the current base, adjustments and filters.
func (s *Session) Snapshot() edit.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HasImage reports whether an image has been uploaded.
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.base.IsZero()
}

// Original returns the uploaded image.
func (s *Session) Original() edit.ImageRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Base returns the input of non-destructive recomputes.
func (s *Session) Base() edit.ImageRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// Displayed returns the last rendered image.
func (s *Session) Displayed() edit.ImageRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// Adjustments returns the live slider values.
func (s *Session) Adjustments() edit.AdjustmentParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustments
}

// Filters returns the live filter set.
func (s *Session) Filters() edit.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Export renders any pending change and returns the displayed image.
func (s *Session) Export(ctx context.Context) (edit.ImageRef, error) {
	if !s.HasImage() {
		return edit.ImageRef{}, edit.ErrNoActiveImage
	}
	if err := s.Flush(ctx); err != nil {
		return edit.ImageRef{}, err
	}
	return s.Displayed(), nil
}
