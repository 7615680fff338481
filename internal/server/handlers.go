package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/praetech/praesense/internal/detection"
	"github.com/praetech/praesense/internal/fusion"
	"github.com/praetech/praesense/internal/imaging"
)

// errInvalidArguments marks tool argument errors so they are reported as
// JSON-RPC invalid params rather than tool failures.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sensors_process", "image_load").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Unknown tools and malformed arguments return -32602; any other tool error
// returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailure, "Tool execution failed", err.Error())
	}

	text, err := marshalResult(result)
	if err != nil {
		log.Printf("Tool %s: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailure, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sensor Fusion
	case "sensors_process":
		return s.handleSensorsProcess(args)
	case "sensors_list":
		return s.handleSensorsList()
	case "sensors_reset":
		return s.handleSensorsReset()

	// Environment Analysis
	case "environment_analyze":
		return s.handleEnvironmentAnalyze(args)
	case "environment_state":
		return s.handleEnvironmentState()
	case "environment_objects":
		return s.handleEnvironmentObjects()

	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// an empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// === Sensor Fusion Handlers ===

type sensorReadingArgs struct {
	Data  []float64 `json:"data"`
	Shape []int     `json:"shape,omitempty"`
}

type sensorsProcessArgs struct {
	Readings map[string]sensorReadingArgs `json:"readings"`
}

// SensorsResult reports the fused reading and the sensors that produced it.
// Fused is null when no sensor has been registered.
type SensorsResult struct {
	Fused   *fusion.Reading `json:"fused"`
	Sensors []string        `json:"sensors"`
}

func (s *Server) handleSensorsProcess(args json.RawMessage) (interface{}, error) {
	var a sensorsProcessArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	readings := make(map[string]fusion.Reading, len(a.Readings))
	for name, r := range a.Readings {
		if name == "" {
			return nil, fmt.Errorf("%w: sensor name must not be empty", errInvalidArguments)
		}
		reading, err := fusion.NewReading(r.Data, r.Shape...)
		if err != nil {
			return nil, fmt.Errorf("%w: sensor %q: %v", errInvalidArguments, name, err)
		}
		readings[name] = reading
	}

	fused, err := s.awareness.ProcessSensors(readings)
	if err != nil {
		return nil, err
	}
	return &SensorsResult{Fused: fused, Sensors: s.awareness.Sensors()}, nil
}

func (s *Server) handleSensorsList() (interface{}, error) {
	return map[string]interface{}{
		"sensors": s.awareness.Sensors(),
	}, nil
}

func (s *Server) handleSensorsReset() (interface{}, error) {
	return map[string]interface{}{
		"cleared": s.awareness.ResetSensors(),
	}, nil
}

// === Environment Analysis Handlers ===

type environmentAnalyzeArgs struct {
	Path   string          `json:"path"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleEnvironmentAnalyze(args json.RawMessage) (interface{}, error) {
	var a environmentAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		if img, err = imaging.Crop(img, *a.Region); err != nil {
			return nil, err
		}
	}

	state := s.awareness.AnalyzeEnvironment(img)
	return &state, nil
}

func (s *Server) handleEnvironmentState() (interface{}, error) {
	state := s.awareness.State()
	if state.IsZero() {
		return map[string]interface{}{"state": nil}, nil
	}
	return &state, nil
}

// ObjectSummary describes one detected contour.
type ObjectSummary struct {
	Points [][2]int       `json:"points"`
	Bounds imaging.Region `json:"bounds"`
	Area   float64        `json:"area"`
}

// ObjectsResult lists the contours of the latest analysis.
type ObjectsResult struct {
	Count   int             `json:"count"`
	Objects []ObjectSummary `json:"objects"`
}

func (s *Server) handleEnvironmentObjects() (interface{}, error) {
	contours := s.awareness.Objects()
	result := &ObjectsResult{
		Count:   len(contours),
		Objects: make([]ObjectSummary, len(contours)),
	}
	for i, c := range contours {
		result.Objects[i] = summarizeContour(c)
	}
	return result, nil
}

func summarizeContour(c detection.Contour) ObjectSummary {
	points := make([][2]int, len(c))
	for i, p := range c {
		points[i] = [2]int{p.X, p.Y}
	}
	return ObjectSummary{
		Points: points,
		Bounds: regionOf(c.Bounds()),
		Area:   c.Area(),
	}
}

func regionOf(r image.Rectangle) imaging.Region {
	return imaging.Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  *int   `json:"threshold_low"`
	ThresholdHigh *int   `json:"threshold_high"`
}

// threshold returns v, or def when the argument was omitted. Explicit
// values must lie in 0-255.
func threshold(name string, v *int, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	if *v < 0 || *v > 255 {
		return 0, fmt.Errorf("%w: %s %d outside 0-255", errInvalidArguments, name, *v)
	}
	return *v, nil
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	low, err := threshold("threshold_low", a.ThresholdLow, detection.CannyLow)
	if err != nil {
		return nil, err
	}
	high, err := threshold("threshold_high", a.ThresholdHigh, detection.CannyHigh)
	if err != nil {
		return nil, err
	}
	if low > high {
		return nil, fmt.Errorf("%w: threshold_low %d exceeds threshold_high %d",
			errInvalidArguments, low, high)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, low, high)
}
