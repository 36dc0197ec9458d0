// Package server exposes one photo editing session over MCP (Model Context Protocol).
//
// The server speaks JSON-RPC 2.0 over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Each tool maps onto one user action in the editor:
//
// Loading:
//   - session_upload: Load an image from a path or inline data
//
// Adjustments and Filters:
//   - session_set_adjustment: Move a slider (debounced preview)
//   - session_commit: Release the slider and record history
//   - session_toggle_filter: Toggle grayscale, sepia, negative, blur or sobel
//
// Transforms:
//   - session_rotate: Rotate clockwise by 90, 180 or 270 degrees
//   - session_flip: Mirror horizontally or vertically
//
// Crop:
//   - session_crop_begin, session_crop_press, session_crop_drag,
//     session_crop_release: Draw a selection
//   - session_crop_confirm: Apply it
//   - session_crop_cancel: Leave crop mode
//
// History:
//   - session_undo, session_redo: Walk the history
//   - session_reset: Return to the uploaded image
//
// Inspection:
//   - session_state: Describe the editor
//   - session_export: Return or save the displayed image
//
// # Results
//
// State-changing tools answer with the session ID and the editor
// presentation. Adjustment previews are rendered after the debounce window,
// so a result right after session_set_adjustment usually reports
// render_pending; pass flush to session_state to wait for it.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Undo or redo with nowhere to go and actions before any upload are not
// errors: the result carries a noop reason instead. A debounced recompute
// that fails in the background is reported with a notifications/message
// notification.
//
// # Usage
//
//	srv := server.New(imaging.NewProcessor(), server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
