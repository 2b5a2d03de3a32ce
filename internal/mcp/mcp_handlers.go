package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/steptrack/core"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// sessionHost owns the single editor behind the server. Tool calls may arrive
// concurrently; the mutex keeps the editor single-threaded.
type sessionHost struct {
	mu      sync.Mutex
	baseCfg *contract.Config
	editor  *core.Editor
}

// editorState is what a host needs to redraw the chart.
type editorState struct {
	Session            schema.SessionRef `json:"session"`
	Document           schema.Document   `json:"document"`
	Dirty              bool              `json:"dirty"`
	Undoable           bool              `json:"undoable"`
	Redoable           bool              `json:"redoable"`
	SelectedSeries     int               `json:"selectedSeries"`
	SelectedAnnotation int               `json:"selectedAnnotation"`
	ZoomWidth          int               `json:"zoomWidth"`
	Zoomed             bool              `json:"zoomed"`
}

func (h *sessionHost) state() editorState {
	e := h.editor
	return editorState{
		Session:            e.Ref(),
		Document:           e.Document(),
		Dirty:              e.Dirty(),
		Undoable:           e.Undoable(),
		Redoable:           e.Redoable(),
		SelectedSeries:     e.SelectedSeries(),
		SelectedAnnotation: e.SelectedAnnotation(),
		ZoomWidth:          e.ZoomWidth(),
		Zoomed:             e.Zoomed(),
	}
}

// success wraps data in the response envelope.
func success(code schema.MessageCode, data any) *mcp.CallToolResult {
	payload, _ := json.MarshalIndent(schema.Response[any]{Success: true, Message: code, Data: data}, "", "  ")
	return mcp.NewToolResultText(string(payload))
}

// failure reports err in the response envelope. The error text goes in data.
func failure(err error) *mcp.CallToolResult {
	code := contract.MessageCodeOf(err, schema.MsgEditRejected)
	if errors.Is(err, contract.ErrNoSession) {
		code = schema.MsgNoSessionOpen
	}
	payload, _ := json.MarshalIndent(schema.Response[string]{Success: false, Message: code, Data: err.Error()}, "", "  ")
	return mcp.NewToolResultError(string(payload))
}

// mutate adapts an editor operation into a tool handler that answers with the new state.
func (h *sessionHost) mutate(op func(*core.Editor, mcp.CallToolRequest) error) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if err := op(h.editor, request); err != nil {
			return failure(err), nil
		}
		return success(schema.MsgEditApplied, h.state()), nil
	}
}

// stepHistory runs undo or redo and reports an empty history as an error.
func stepHistory(e *core.Editor, step func() bool, name string) error {
	if !e.IsOpen() {
		return contract.ErrNoSession
	}
	if !step() {
		return fmt.Errorf("nothing to %s", name)
	}
	return nil
}

// requireInts reads two required integer arguments.
func requireInts(request mcp.CallToolRequest, first, second string) (int, int, error) {
	a, err := request.RequireInt(first)
	if err != nil {
		return 0, 0, err
	}
	b, err := request.RequireInt(second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (h *sessionHost) handleOpenSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := schema.SessionRef{
		VaultPath: request.GetString("vault_path", h.baseCfg.VaultPath),
		PatientID: request.GetString("patient_id", ""),
		SessionID: request.GetString("session_id", ""),
	}
	if ref.PatientID == "" || ref.SessionID == "" {
		return failure(contract.Preconditionf("patient_id and session_id are required")), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.editor.Open(ctx, ref); err != nil {
		return failure(err), nil
	}
	return success(schema.MsgSessionOpened, h.state()), nil
}

func (h *sessionHost) handleCloseSession(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.editor.Close()
	return success(schema.MsgSessionClosed, h.state()), nil
}

func (h *sessionHost) handleSaveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.editor.Save(ctx); err != nil {
		return failure(err), nil
	}
	return success(schema.MsgSessionDataSaved, h.state()), nil
}

func (h *sessionHost) handleRestoreDraft(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	restored, err := h.editor.RestoreDraft()
	if err != nil {
		return failure(err), nil
	}
	if !restored {
		return success(schema.MsgDraftUnavailable, h.state()), nil
	}
	return success(schema.MsgDraftRestored, h.state()), nil
}

func (h *sessionHost) handleGetState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return success(schema.MsgStateRetrieved, h.state()), nil
}

func (h *sessionHost) handleGetStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.editor.IsOpen() {
		return failure(contract.ErrNoSession), nil
	}
	return success(schema.MsgStatsRetrieved, h.editor.Stats()), nil
}

func (h *sessionHost) handleZoom(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch direction := request.GetString("direction", ""); direction {
	case "in":
		h.editor.ZoomIn()
	case "out":
		h.editor.ZoomOut()
	case "set":
		width, err := request.RequireInt("width")
		if err != nil {
			return failure(err), nil
		}
		h.editor.SetZoomWidth(width)
	default:
		return failure(contract.Preconditionf("unknown zoom direction %q", direction)), nil
	}
	return success(schema.MsgStateRetrieved, h.state()), nil
}
