package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ironsheep/photo-editor/internal/crop"
	"github.com/ironsheep/photo-editor/internal/edit"
	"github.com/ironsheep/photo-editor/internal/remote"
	"github.com/ironsheep/photo-editor/internal/render"
	"github.com/ironsheep/photo-editor/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "session_upload", "session_rotate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// StateResult is returned by every tool that changes the session.
type StateResult struct {
	SessionID string `json:"session_id"`

	// Noop is set when the request was valid but had nothing to act on,
	// such as undo at the start of history.
	Noop string `json:"noop,omitempty"`

	// Frames counts the images shown so far.
	Frames int                  `json:"frames"`
	State  session.Presentation `json:"state"`
}

// CropResult adds the current crop rectangle to a StateResult.
type CropResult struct {
	StateResult
	Rect *edit.Rect `json:"rect,omitempty"`
}

// ExportResult describes an exported image.
type ExportResult struct {
	SessionID string `json:"session_id"`
	Noop      string `json:"noop,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Bytes     int    `json:"bytes,omitempty"`
	Path      string `json:"path,omitempty"`
	Image     string `json:"image,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Requests that are valid but have nothing to act on (no image loaded,
// undo with no history) succeed with the noop field set.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("server: tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Loading
	case "session_upload":
		return s.handleUpload(ctx, args)

	// Adjustments and filters
	case "session_set_adjustment":
		return s.handleSetAdjustment(ctx, args)
	case "session_commit":
		return s.dispatch(ctx, session.AdjustmentCommitted{})
	case "session_toggle_filter":
		return s.handleToggleFilter(ctx, args)

	// Transforms
	case "session_rotate":
		return s.handleRotate(ctx, args)
	case "session_flip":
		return s.handleFlip(ctx, args)

	// Crop gesture
	case "session_crop_begin":
		return s.handleCropBegin(args)
	case "session_crop_press":
		return s.handleCropPress(args)
	case "session_crop_drag":
		return s.handleCropDrag(args)
	case "session_crop_release":
		return s.handleCropRelease(args)
	case "session_crop_confirm":
		return s.handleCropConfirm(ctx)
	case "session_crop_cancel":
		s.sess.CancelCrop()
		return s.stateResult(nil)

	// History
	case "session_undo":
		return s.dispatch(ctx, session.UndoRequested{})
	case "session_redo":
		return s.dispatch(ctx, session.RedoRequested{})
	case "session_reset":
		return s.dispatch(ctx, session.ResetRequested{})

	// Inspection
	case "session_state":
		return s.handleState(ctx, args)
	case "session_export":
		return s.handleExport(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %w", edit.ErrInvalidParameter, err)
	}
	return nil
}

// stateResult turns the outcome of a session call into a tool result.
// No-op conditions are reported in the result rather than as failures.
func (s *Server) stateResult(err error) (StateResult, error) {
	var noop string
	if err != nil {
		if !edit.IsNoop(err) {
			return StateResult{}, err
		}
		noop = err.Error()
	}
	return StateResult{
		SessionID: s.id,
		Noop:      noop,
		Frames:    s.latest.Frames(),
		State:     s.sess.Presentation(),
	}, nil
}

func (s *Server) dispatch(ctx context.Context, ev session.Event) (interface{}, error) {
	return s.stateResult(s.sess.Dispatch(ctx, ev))
}

// === Loading ===

type uploadArgs struct {
	Path string `json:"path"`
	Data string `json:"data"`
}

func (s *Server) handleUpload(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a uploadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var raw []byte
	switch {
	case a.Path != "" && a.Data != "":
		return nil, fmt.Errorf("%w: give either path or data, not both", edit.ErrInvalidParameter)
	case a.Path != "":
		b, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		raw = b
	case a.Data != "":
		b, err := remote.DecodeImagePayload(a.Data)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, fmt.Errorf("%w: path or data is required", edit.ErrInvalidParameter)
	}

	s.setGeometry(nil)
	return s.dispatch(ctx, session.Uploaded{Data: raw})
}

// === Adjustments and filters ===

type setAdjustmentArgs struct {
	Field string `json:"field"`
	Value *int   `json:"value"`
}

func (s *Server) handleSetAdjustment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a setAdjustmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	field, err := edit.ParseField(a.Field)
	if err != nil {
		return nil, err
	}
	if a.Value == nil {
		return nil, fmt.Errorf("%w: value is required", edit.ErrInvalidParameter)
	}
	return s.dispatch(ctx, session.AdjustmentChanged{Field: field, Value: *a.Value})
}

type toggleFilterArgs struct {
	Filter string `json:"filter"`
}

func (s *Server) handleToggleFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a toggleFilterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	f, err := edit.ParseFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, session.FilterToggled{Filter: f})
}

// === Transforms ===

type rotateArgs struct {
	Degrees int `json:"degrees"`
}

func (s *Server) handleRotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a rotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(ctx, edit.RotateOp(a.Degrees))
}

type flipArgs struct {
	Axis string `json:"axis"`
}

func (s *Server) handleFlip(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a flipArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.transform(ctx, edit.FlipOp(edit.FlipAxis(a.Axis)))
}

// transform validates op before dispatching so a malformed request fails
// even when no image is loaded.
func (s *Server) transform(ctx context.Context, op edit.TransformOp) (interface{}, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, session.TransformRequested{Op: op})
}

// === Crop gesture ===

type cropBeginArgs struct {
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
	OffsetX       float64 `json:"offset_x"`
	OffsetY       float64 `json:"offset_y"`
}

func (a cropBeginArgs) isZero() bool {
	return a == cropBeginArgs{}
}

func (s *Server) handleCropBegin(args json.RawMessage) (interface{}, error) {
	var a cropBeginArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.DisplayWidth < 0 || a.DisplayHeight < 0 {
		return nil, fmt.Errorf("%w: display size must not be negative", edit.ErrInvalidParameter)
	}
	if err := s.sess.BeginCrop(); err != nil {
		return s.stateResult(err)
	}

	if a.isZero() {
		s.setGeometry(nil)
	} else {
		shown := s.sess.Displayed()
		s.setGeometry(&crop.Geometry{
			PixelWidth:    shown.Width(),
			PixelHeight:   shown.Height(),
			DisplayWidth:  a.DisplayWidth,
			DisplayHeight: a.DisplayHeight,
			OffsetX:       a.OffsetX,
			OffsetY:       a.OffsetY,
		})
	}
	return s.stateResult(nil)
}

type pointInput struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (s *Server) point(args json.RawMessage) (crop.Point, error) {
	var a pointInput
	if err := decodeArgs(args, &a); err != nil {
		return crop.Point{}, err
	}
	if a.X == nil || a.Y == nil {
		return crop.Point{}, fmt.Errorf("%w: x and y are required", edit.ErrInvalidParameter)
	}

	s.geoMu.Lock()
	defer s.geoMu.Unlock()
	if s.geometry == nil {
		return crop.Point{X: *a.X, Y: *a.Y}, nil
	}
	return s.geometry.ToImage(*a.X, *a.Y), nil
}

func (s *Server) setGeometry(g *crop.Geometry) {
	s.geoMu.Lock()
	s.geometry = g
	s.geoMu.Unlock()
}

func (s *Server) handleCropPress(args json.RawMessage) (interface{}, error) {
	p, err := s.point(args)
	if err != nil {
		return nil, err
	}
	if err := s.sess.PressCrop(p); err != nil {
		return nil, err
	}
	return s.cropResult(nil)
}

func (s *Server) handleCropDrag(args json.RawMessage) (interface{}, error) {
	p, err := s.point(args)
	if err != nil {
		return nil, err
	}
	if _, err := s.sess.DragCrop(p); err != nil {
		return nil, err
	}
	return s.cropResult(nil)
}

func (s *Server) handleCropRelease(args json.RawMessage) (interface{}, error) {
	p, err := s.point(args)
	if err != nil {
		return nil, err
	}
	r, err := s.sess.ReleaseCrop(p)
	if err != nil {
		return nil, err
	}
	return s.cropResult(&r)
}

func (s *Server) handleCropConfirm(ctx context.Context) (interface{}, error) {
	r, err := s.sess.ConfirmCrop(ctx)
	if err != nil {
		return nil, err
	}
	s.setGeometry(nil)
	return s.cropResult(&r)
}

func (s *Server) cropResult(r *edit.Rect) (interface{}, error) {
	st, err := s.stateResult(nil)
	if err != nil {
		return nil, err
	}
	return CropResult{StateResult: st, Rect: r}, nil
}

// === Inspection ===

type stateArgs struct {
	Flush bool `json:"flush"`
}

func (s *Server) handleState(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a stateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Flush {
		if err := s.sess.Flush(ctx); err != nil {
			return nil, err
		}
	}
	return s.stateResult(nil)
}

type exportArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	img, err := s.sess.Export(ctx)
	if err != nil {
		if edit.IsNoop(err) {
			return ExportResult{SessionID: s.id, Noop: err.Error()}, nil
		}
		return nil, err
	}

	res := ExportResult{
		SessionID: s.id,
		Width:     img.Width(),
		Height:    img.Height(),
		Bytes:     img.Len(),
	}
	if a.Path == "" {
		res.Image = remote.EncodeDataURL(img)
		return res, nil
	}

	out := render.NewFileSurface(a.Path, s.logger)
	out.Display(img)
	if err := out.Err(); err != nil {
		return nil, err
	}
	res.Path = out.Path()
	return res, nil
}
