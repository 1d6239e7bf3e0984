package mcptools

import "github.com/dusk-indust/diffdetector/internal/diff"

// SetSideInput is the input for the set_left and set_right MCP tools.
type SetSideInput struct {
	ID   string `json:"id" jsonschema:"identifier shared by the left and right blobs"`
	Data string `json:"data" jsonschema:"the blob, base64-encoded (standard alphabet, padded)"`
}

// SetSideOutput is the result of the set_left and set_right MCP tools.
type SetSideOutput struct {
	ID   string `json:"id"`
	Side string `json:"side"`
	Size int    `json:"size"`
}

// CompareInput is the input for the compare MCP tool.
type CompareInput struct {
	ID string `json:"id" jsonschema:"identifier whose left and right blobs are compared"`
}

// CompareOutput is the result of the compare MCP tool. When Found is false
// at least one side has not been supplied and the other fields are zero.
type CompareOutput struct {
	Found      bool       `json:"found"`
	SameLength bool       `json:"sameLength"`
	Diffs      []diff.Run `json:"diffs"`
}

// DeleteInput is the input for the delete MCP tool.
type DeleteInput struct {
	ID string `json:"id" jsonschema:"identifier whose left and right blobs are removed"`
}

// DeleteOutput is the result of the delete MCP tool.
type DeleteOutput struct {
	ID string `json:"id"`
}

// CompareBytesInput is the input for the compare_bytes MCP tool.
type CompareBytesInput struct {
	Left  string `json:"left" jsonschema:"left blob, base64-encoded"`
	Right string `json:"right" jsonschema:"right blob, base64-encoded"`
}

// CompareBytesOutput is the result of the compare_bytes MCP tool.
type CompareBytesOutput struct {
	SameLength bool       `json:"sameLength"`
	Diffs      []diff.Run `json:"diffs"`
}
