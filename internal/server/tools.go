package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func pointArgs(what string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "number",
				"description": "X of the " + what + " point. Image pixels, or screen units when session_crop_begin was given a display box.",
			},
			"y": map[string]interface{}{
				"type":        "number",
				"description": "Y of the " + what + " point",
			},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tool definitions
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "session_upload",
			Description: "Load a new image into the editor. Resets adjustments, filters and history. Provide either a file path or inline image data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a PNG, JPEG, GIF, BMP, TIFF or WebP file",
					},
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Image bytes as a data URL or bare base64",
					},
				},
			},
		},
		{
			Name:        "session_set_adjustment",
			Description: "Move an adjustment slider. The preview is recomputed after the debounce window; call session_commit to record the change in history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"field": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"brightness", "contrast", "saturation", "sharpness"},
						"description": "Adjustment to change",
					},
					"value": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness, contrast and saturation take 0-200 (100 is neutral). Sharpness takes 0-100 (0 is neutral).",
					},
				},
				"required": []string{"field", "value"},
			},
		},
		{
			Name:        "session_commit",
			Description: "Record the current adjustments and filters as one history entry (slider released)",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_toggle_filter",
			Description: "Turn a filter on or off. Takes effect after the debounce window and is recorded in history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"grayscale", "sepia", "negative", "blur", "sobel"},
						"description": "Filter to toggle",
					},
				},
				"required": []string{"filter"},
			},
		},
		{
			Name:        "session_rotate",
			Description: "Rotate the image clockwise. Adjustments and filters are baked into the result and reset.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"degrees": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{90, 180, 270},
						"description": "Clockwise rotation",
					},
				},
				"required": []string{"degrees"},
			},
		},
		{
			Name:        "session_flip",
			Description: "Mirror the image. Adjustments and filters are baked into the result and reset.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"axis": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"h", "v"},
						"description": "h mirrors left-right, v mirrors top-bottom",
					},
				},
				"required": []string{"axis"},
			},
		},
		{
			Name:        "session_crop_begin",
			Description: "Enter crop mode. Optionally describe the on-screen box the image is shown in so gesture points can be given in screen units.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"display_width": map[string]interface{}{
						"type":        "number",
						"description": "On-screen width of the image",
					},
					"display_height": map[string]interface{}{
						"type":        "number",
						"description": "On-screen height of the image",
					},
					"offset_x": map[string]interface{}{
						"type":        "number",
						"description": "Screen X of the image's top-left corner",
					},
					"offset_y": map[string]interface{}{
						"type":        "number",
						"description": "Screen Y of the image's top-left corner",
					},
				},
			},
		},
		{
			Name:        "session_crop_press",
			Description: "Start a crop selection at a point",
			InputSchema: pointArgs("press"),
		},
		{
			Name:        "session_crop_drag",
			Description: "Extend the crop selection to a point",
			InputSchema: pointArgs("drag"),
		},
		{
			Name:        "session_crop_release",
			Description: "Finish the crop selection at a point",
			InputSchema: pointArgs("release"),
		},
		{
			Name:        "session_crop_confirm",
			Description: "Apply the released crop selection",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_crop_cancel",
			Description: "Leave crop mode without changing the image",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_undo",
			Description: "Step back one history entry",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_redo",
			Description: "Step forward one history entry",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_reset",
			Description: "Return to the originally uploaded image with neutral adjustments. Recorded in history, so it can be undone.",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_state",
			Description: "Describe the editor: images, adjustments, filters, history position and crop mode",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"flush": map[string]interface{}{
						"type":        "boolean",
						"description": "Render any pending change before answering",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "session_export",
			Description: "Render pending changes and return the displayed image as PNG, either inline or written to a file",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Write the PNG here instead of returning it inline",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
