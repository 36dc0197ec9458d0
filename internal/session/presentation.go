package session

import (
	"github.com/ironsheep/photo-editor/internal/crop"
	"github.com/ironsheep/photo-editor/internal/edit"
)

// Presentation is everything a UI needs to draw the editor controls. It is
// a copy; changing it does not affect the session.
type Presentation struct {
	HasImage      bool                  `json:"has_image"`
	Original      *edit.ImageInfo       `json:"original,omitempty"`
	Base          *edit.ImageInfo       `json:"base,omitempty"`
	Displayed     *edit.ImageInfo       `json:"displayed,omitempty"`
	Adjustments   edit.AdjustmentParams `json:"adjustments"`
	Filters       edit.FilterSet        `json:"filters"`
	CanUndo       bool                  `json:"can_undo"`
	CanRedo       bool                  `json:"can_redo"`
	HistoryLen    int                   `json:"history_len"`
	HistoryIndex  int                   `json:"history_index"`
	RenderPending bool                  `json:"render_pending"`
	Crop          CropView              `json:"crop"`
	LastError     string                `json:"last_error,omitempty"`
}

// CropView describes the crop overlay.
type CropView struct {
	State     string          `json:"state"`
	Selection *crop.Selection `json:"selection,omitempty"`
}

// Presentation projects the session state for the UI.
func (s *Session) Presentation() Presentation {
	pending := s.coalescer.Pending()

	s.mu.Lock()
	defer s.mu.Unlock()

	state, sel := s.cropStateLocked()
	p := Presentation{
		HasImage:      !s.base.IsZero(),
		Adjustments:   s.adjustments,
		Filters:       s.filters,
		CanUndo:       s.history.CanUndo(),
		CanRedo:       s.history.CanRedo(),
		HistoryLen:    s.history.Len(),
		HistoryIndex:  s.history.Pointer(),
		RenderPending: pending,
		Crop:          CropView{State: state.String(), Selection: sel},
	}
	if p.HasImage {
		p.Original = infoOf(s.original)
		p.Base = infoOf(s.base)
		p.Displayed = infoOf(s.displayed)
	}
	if s.lastErr != nil {
		p.LastError = s.lastErr.Error()
	}
	return p
}

func infoOf(r edit.ImageRef) *edit.ImageInfo {
	info := r.Info()
	return &info
}
