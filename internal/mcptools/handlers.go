package mcptools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dusk-indust/diffdetector/internal/diff"
	"github.com/dusk-indust/diffdetector/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Detector is the service behaviour the MCP tools call into.
type Detector interface {
	Set(ctx context.Context, side service.Side, id string, data []byte) error
	Compare(ctx context.Context, id string) (service.Comparison, error)
	Delete(ctx context.Context, id string) error
}

// DetectorTools holds the detector used by MCP tool handlers.
type DetectorTools struct {
	detector Detector
}

// NewDetectorTools creates DetectorTools over the given detector.
func NewDetectorTools(detector Detector) *DetectorTools {
	return &DetectorTools{detector: detector}
}

// SetLeft stores the left blob for an identifier.
func (d *DetectorTools) SetLeft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetSideInput,
) (*mcp.CallToolResult, SetSideOutput, error) {
	return d.set(ctx, service.SideLeft, input)
}

// SetRight stores the right blob for an identifier.
func (d *DetectorTools) SetRight(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetSideInput,
) (*mcp.CallToolResult, SetSideOutput, error) {
	return d.set(ctx, service.SideRight, input)
}

func (d *DetectorTools) set(ctx context.Context, side service.Side, input SetSideInput) (*mcp.CallToolResult, SetSideOutput, error) {
	if input.ID == "" {
		return nil, SetSideOutput{}, fmt.Errorf("id is required")
	}
	data, err := decodeBlob("data", input.Data)
	if err != nil {
		return nil, SetSideOutput{}, err
	}
	if err := d.detector.Set(ctx, side, input.ID, data); err != nil {
		return nil, SetSideOutput{}, err
	}
	return nil, SetSideOutput{ID: input.ID, Side: string(side), Size: len(data)}, nil
}

// Compare reports the differences between the stored left and right blobs.
// A missing side is reported as found=false, not as a tool error.
func (d *DetectorTools) Compare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	if input.ID == "" {
		return nil, CompareOutput{}, fmt.Errorf("id is required")
	}
	cmp, err := d.detector.Compare(ctx, input.ID)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	outcome, ok := cmp.Outcome()
	if !ok {
		return nil, CompareOutput{Diffs: []diff.Run{}}, nil
	}
	return nil, CompareOutput{
		Found:      true,
		SameLength: outcome.SameLength,
		Diffs:      outcome.Runs,
	}, nil
}

// Delete removes both blobs for an identifier.
func (d *DetectorTools) Delete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := d.detector.Delete(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{ID: input.ID}, nil
}

// CompareBytes compares two inline blobs without storing them.
func (d *DetectorTools) CompareBytes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CompareBytesInput,
) (*mcp.CallToolResult, CompareBytesOutput, error) {
	left, err := decodeBlob("left", input.Left)
	if err != nil {
		return nil, CompareBytesOutput{}, err
	}
	right, err := decodeBlob("right", input.Right)
	if err != nil {
		return nil, CompareBytesOutput{}, err
	}

	outcome := diff.Compare(left, right)
	return nil, CompareBytesOutput{SameLength: outcome.SameLength, Diffs: outcome.Runs}, nil
}

func decodeBlob(field, s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", field, err)
	}
	return data, nil
}
