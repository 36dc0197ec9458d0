package session

import (
	"context"
	"fmt"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// Event is a discrete user intent delivered by the UI.
type Event interface {
	eventName() string
}

// Uploaded carries a newly chosen file.
type Uploaded struct{ Data []byte }

// AdjustmentChanged reports a slider moving.
type AdjustmentChanged struct {
	Field edit.Field
	Value int
}

// AdjustmentCommitted reports that the user released a slider.
type AdjustmentCommitted struct{}

// FilterToggled reports a filter button press. Toggles are final, so the
// resulting state is committed immediately.
type FilterToggled struct{ Filter edit.Filter }

// TransformRequested asks for a rotate or flip.
type TransformRequested struct{ Op edit.TransformOp }

// CropConfirmed submits a finished crop rectangle.
type CropConfirmed struct{ Rect edit.Rect }

// UndoRequested asks to step back in history.
type UndoRequested struct{}

// RedoRequested asks to step forward in history.
type RedoRequested struct{}

// ResetRequested asks to return to the uploaded image.
type ResetRequested struct{}

func (Uploaded) eventName() string            { return "uploaded" }
func (AdjustmentChanged) eventName() string   { return "adjustment_changed" }
func (AdjustmentCommitted) eventName() string { return "adjustment_committed" }
func (FilterToggled) eventName() string       { return "filter_toggled" }
func (TransformRequested) eventName() string  { return "transform_requested" }
func (CropConfirmed) eventName() string       { return "crop_confirmed" }
func (UndoRequested) eventName() string       { return "undo" }
func (RedoRequested) eventName() string       { return "redo" }
func (ResetRequested) eventName() string      { return "reset" }

// EventName returns the wire name of ev.
func EventName(ev Event) string { return ev.eventName() }

// Dispatch applies one UI intent to the session.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	s.logger.Debug("session: event", "event", ev.eventName())

	switch e := ev.(type) {
	case Uploaded:
		return s.Upload(ctx, e.Data)
	case AdjustmentChanged:
		return s.SetAdjustment(e.Field, e.Value)
	case AdjustmentCommitted:
		return s.Commit()
	case FilterToggled:
		if err := s.ToggleFilter(e.Filter); err != nil {
			return err
		}
		return s.Commit()
	case TransformRequested:
		return s.Transform(ctx, e.Op)
	case CropConfirmed:
		return s.Transform(ctx, edit.CropOp(e.Rect))
	case UndoRequested:
		return s.Undo(ctx)
	case RedoRequested:
		return s.Redo(ctx)
	case ResetRequested:
		return s.ResetToOriginal()
	}
	return fmt.Errorf("session: unhandled event %T", ev)
}
