// Package mcp exposes the session editor to a hosting UI over the Model Context Protocol.
package mcp

import (
	"context"

	"github.com/huangsam/steptrack/core"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the steptrack MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.SessionStore, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Steptrack Session Editor",
		"1.0.0",
		server.WithLogging(),
	)

	h := &sessionHost{
		baseCfg: baseCfg,
		editor:  core.NewEditor(store, core.EditorOptions(baseCfg, mgr)...),
	}

	// --- Session lifecycle ---
	s.AddTool(mcp.NewTool("open_session",
		mcp.WithDescription("Load a session from the vault. It becomes the only undo entry and the clean baseline."),
		mcp.WithString("patient_id", mcp.Description("ID of the patient owning the session."), mcp.Required()),
		mcp.WithString("session_id", mcp.Description("ID of the session to open."), mcp.Required()),
		mcp.WithString("vault_path", mcp.Description("Vault directory (defaults to the configured vault).")),
	), h.handleOpenSession)

	s.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Discard the open session and its history without saving."),
	), h.handleCloseSession)

	s.AddTool(mcp.NewTool("save_session",
		mcp.WithDescription("Write the visible document back to the vault and mark it clean."),
	), h.handleSaveSession)

	s.AddTool(mcp.NewTool("restore_draft",
		mcp.WithDescription("Replace the visible document with the autosaved draft of the open session."),
	), h.handleRestoreDraft)

	// --- Read-only views ---
	s.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Return the visible document, the dirty flag, undo/redo availability, selection and zoom."),
	), h.handleGetState)

	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Return, per scale, the share of the session spent at each level."),
	), h.handleGetStats)

	// --- Series edits ---
	s.AddTool(mcp.NewTool("update_level",
		mcp.WithDescription("Move the segment holding a point to a new level (floored and clamped to 0-6)."),
		mcp.WithNumber("series", mcp.Description("Index of the series."), mcp.Required()),
		mcp.WithNumber("point", mcp.Description("Index of a point of the segment."), mcp.Required()),
		mcp.WithNumber("level", mcp.Description("New level."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		series, point, err := requireInts(req, "series", "point")
		if err != nil {
			return err
		}
		level, err := req.RequireFloat("level")
		if err != nil {
			return err
		}
		return e.UpdateLevel(series, point, level)
	}))

	s.AddTool(mcp.NewTool("insert_breakpoint",
		mcp.WithDescription("Change the level of the selected series from a time (percent of the session) on."),
		mcp.WithNumber("time", mcp.Description("Time as percent of the session, 0-100."), mcp.Required()),
		mcp.WithNumber("level", mcp.Description("New level."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		at, err := req.RequireFloat("time")
		if err != nil {
			return err
		}
		level, err := req.RequireFloat("level")
		if err != nil {
			return err
		}
		return e.InsertBreakpoint(at, level)
	}))

	s.AddTool(mcp.NewTool("toggle_series",
		mcp.WithDescription("Show or hide a series."),
		mcp.WithNumber("index", mcp.Description("Index of the series."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		index, err := req.RequireInt("index")
		if err != nil {
			return err
		}
		return e.ToggleSeries(index)
	}))

	s.AddTool(mcp.NewTool("reset_series",
		mcp.WithDescription("Show every series."),
	), h.mutate(func(e *core.Editor, _ mcp.CallToolRequest) error {
		return e.ResetSeriesVisibility()
	}))

	// --- Annotation edits ---
	s.AddTool(mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment at a time (percent of the session). A comment already at that time is left unchanged."),
		mcp.WithNumber("time", mcp.Description("Time as percent of the session, 0-100."), mcp.Required()),
		mcp.WithString("text", mcp.Description("Comment text. Defaults to empty.")),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		at, err := req.RequireFloat("time")
		if err != nil {
			return err
		}
		return e.AddComment(at, req.GetString("text", ""))
	}))

	s.AddTool(mcp.NewTool("set_comment_text",
		mcp.WithDescription("Replace the text of a comment. Break texts cannot be edited."),
		mcp.WithNumber("index", mcp.Description("Index of the annotation."), mcp.Required()),
		mcp.WithString("text", mcp.Description("New comment text."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		index, err := req.RequireInt("index")
		if err != nil {
			return err
		}
		text, err := req.RequireString("text")
		if err != nil {
			return err
		}
		return e.SetCommentText(index, text)
	}))

	s.AddTool(mcp.NewTool("add_break",
		mcp.WithDescription("Add a break starting at a second of the session."),
		mcp.WithNumber("start", mcp.Description("Start of the break in seconds."), mcp.Required()),
		mcp.WithNumber("length", mcp.Description("Length of the break in seconds."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		start, err := req.RequireFloat("start")
		if err != nil {
			return err
		}
		length, err := req.RequireFloat("length")
		if err != nil {
			return err
		}
		return e.AddBreak(start, length)
	}))

	s.AddTool(mcp.NewTool("delete_annotation",
		mcp.WithDescription("Remove a comment or break."),
		mcp.WithNumber("index", mcp.Description("Index of the annotation."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		index, err := req.RequireInt("index")
		if err != nil {
			return err
		}
		return e.DeleteAnnotation(index)
	}))

	s.AddTool(mcp.NewTool("update_notes",
		mcp.WithDescription("Replace the session notes."),
		mcp.WithString("text", mcp.Description("New notes; surrounding whitespace is trimmed.")),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		return e.UpdateNotes(req.GetString("text", ""))
	}))

	// --- View state ---
	s.AddTool(mcp.NewTool("select_series",
		mcp.WithDescription("Select the series that breakpoint insertion applies to."),
		mcp.WithNumber("index", mcp.Description("Index of the series."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		index, err := req.RequireInt("index")
		if err != nil {
			return err
		}
		return e.SelectSeries(index)
	}))

	s.AddTool(mcp.NewTool("select_annotation",
		mcp.WithDescription("Select an annotation, or clear the selection with -1."),
		mcp.WithNumber("index", mcp.Description("Index of the annotation, or -1."), mcp.Required()),
	), h.mutate(func(e *core.Editor, req mcp.CallToolRequest) error {
		index, err := req.RequireInt("index")
		if err != nil {
			return err
		}
		return e.SelectAnnotation(index)
	}))

	s.AddTool(mcp.NewTool("zoom",
		mcp.WithDescription("Change the chart width in pixels."),
		mcp.WithString("direction", mcp.Description("Zoom in, out, or set an explicit width."), mcp.Enum("in", "out", "set"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Chart width when direction is 'set'.")),
	), h.handleZoom)

	// --- History ---
	s.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step back one edit."),
	), h.mutate(func(e *core.Editor, _ mcp.CallToolRequest) error {
		return stepHistory(e, e.Undo, "undo")
	}))

	s.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Step forward one undone edit."),
	), h.mutate(func(e *core.Editor, _ mcp.CallToolRequest) error {
		return stepHistory(e, e.Redo, "redo")
	}))

	return s
}

// StartMCPServer starts the steptrack MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.SessionStore, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, store, mgr)
	return server.ServeStdio(s)
}
