// Package server implements the MCP (Model Context Protocol) tool server for
// Praesense.
//
// The server exposes sensor fusion and environment analysis over JSON-RPC 2.0
// on stdio:
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
// Sensor Fusion:
//   - sensors_process: Register readings and return the fused average
//   - sensors_list: List registered sensor names
//   - sensors_reset: Drop all registered readings
//
// Environment Analysis:
//   - environment_analyze: Count objects in an image (optionally a region)
//   - environment_state: Latest analysis id, object count and timestamp
//   - environment_objects: Contours of the latest analysis
//
// Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_edge_detect: Canny edge map as base64 PNG
//
// One server owns one awareness facade, so sensor readings accumulate across
// tool calls for the lifetime of the process. Images are cached by path.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32601: unknown method
//   - -32602: malformed params, unknown tool or invalid tool arguments
//   - -32000: tool execution failure (unreadable image, shape mismatch, ...)
//
// The error's data field carries the Go error string.
package server
