package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func noArguments() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sensor Fusion
		{
			Name:        "sensors_process",
			Description: "Register named sensor readings and return the equal-weight average of every reading registered so far. Readings persist across calls; a name sent again replaces its previous reading. All readings must share one shape: after a shape mismatch the offending reading stays registered, so re-send it with the right shape or call sensors_reset.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"readings": map[string]interface{}{
						"type":        "object",
						"description": "Map of sensor name to reading",
						"additionalProperties": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"data": map[string]interface{}{
									"type":        "array",
									"items":       map[string]interface{}{"type": "number"},
									"description": "Values in row-major order",
								},
								"shape": map[string]interface{}{
									"type":        "array",
									"items":       map[string]interface{}{"type": "integer"},
									"description": "Optional dimensions; defaults to a vector of len(data)",
								},
							},
							"required": []string{"data"},
						},
					},
				},
				"required": []string{"readings"},
			},
		},
		{
			Name:        "sensors_list",
			Description: "List the registered sensor names in sorted order.",
			InputSchema: noArguments(),
		},
		{
			Name:        "sensors_reset",
			Description: "Drop every registered sensor reading.",
			InputSchema: noArguments(),
		},

		// Environment Analysis
		{
			Name:        "environment_analyze",
			Description: "Count the objects in an image as external Canny edge contours and record the result as the current environment state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region of interest; only this part of the image is analyzed",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "environment_state",
			Description: "Return the most recent environment state (analysis id, object count and timestamp).",
			InputSchema: noArguments(),
		},
		{
			Name:        "environment_objects",
			Description: "Return the contours found by the most recent environment analysis.",
			InputSchema: noArguments(),
		},

		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and channel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Return the Canny edge map of an image as a base64-encoded PNG, with the number of edge pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low threshold for Canny edge detection, 0-255 (default 50)",
						"default":     50,
						"minimum":     0,
						"maximum":     255,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High threshold for Canny edge detection, 0-255 (default 150)",
						"default":     150,
						"minimum":     0,
						"maximum":     255,
					},
				},
				"required": []string{"path"},
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
