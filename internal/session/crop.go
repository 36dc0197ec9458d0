package session

import (
	"context"

	"github.com/ironsheep/photo-editor/internal/crop"
	"github.com/ironsheep/photo-editor/internal/edit"
)

// BeginCrop enters crop mode over the displayed image.
func (s *Session) BeginCrop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.displayed.IsZero() {
		return edit.ErrNoActiveImage
	}
	s.gesture.Enter(s.displayed.Width(), s.displayed.Height())
	return nil
}

// PressCrop fixes the start corner of the crop selection.
func (s *Session) PressCrop(p crop.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture.Press(p)
}

// DragCrop moves the free corner and returns the preview selection. The
// session state is not touched.
func (s *Session) DragCrop(p crop.Point) (crop.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture.Drag(p)
}

// ReleaseCrop finalizes the selection and returns the rectangle that
// ConfirmCrop would submit.
func (s *Session) ReleaseCrop(p crop.Point) (edit.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture.Release(p)
}

// CancelCrop leaves crop mode without changing the image.
func (s *Session) CancelCrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.Cancel()
}

// ConfirmCrop submits the released selection as a crop transform and leaves
// crop mode. If the transform fails the selection is kept so it can be
// confirmed again or cancelled.
func (s *Session) ConfirmCrop(ctx context.Context) (edit.Rect, error) {
	s.mu.Lock()
	r, err := s.gesture.Rect()
	s.mu.Unlock()
	if err != nil {
		return edit.Rect{}, err
	}
	if err := s.Transform(ctx, edit.CropOp(r)); err != nil {
		return edit.Rect{}, err
	}
	return r, nil
}

// CropState returns the phase of the crop gesture and its selection, if any.
func (s *Session) CropState() (crop.State, *crop.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cropStateLocked()
}

func (s *Session) cropStateLocked() (crop.State, *crop.Selection) {
	sel, ok := s.gesture.Selection()
	if !ok {
		return s.gesture.State(), nil
	}
	return s.gesture.State(), &sel
}
