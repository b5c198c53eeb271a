package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func requireID(tool, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: id is required", tool)
	}
	return id, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.ctrl.Snapshot()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to read desktop state: %w", err)
	}

	out := ListWindowsOutput{
		Mode:           snap.Mode,
		ViewportWidth:  snap.Viewport.Width,
		ViewportHeight: snap.Viewport.Height,
		Windows:        make([]WindowInfo, 0, len(snap.Windows)),
		Focused:        snap.Focused,
	}
	for _, w := range snap.Windows {
		out.Windows = append(out.Windows, windowInfo(w, snap.Focused))
	}
	return nil, out, nil
}

func (s *Server) handleListCatalog(_ context.Context, _ *mcpsdk.CallToolRequest, args ListCatalogInput) (*mcpsdk.CallToolResult, ListCatalogOutput, error) {
	data, err := s.ctrl.ListCatalog()
	if err != nil {
		return nil, ListCatalogOutput{}, fmt.Errorf("failed to list catalog: %w", err)
	}

	out := ListCatalogOutput{Items: make([]CatalogItem, 0, len(data.Items))}
	for _, d := range data.Items {
		out.Items = append(out.Items, CatalogItem{ID: d.ID, Title: d.Title, Kind: string(d.Kind)})
	}
	if args.Topics {
		out.Topics = data.Topics
	}
	return nil, out, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id, err := requireID("open_window", args.ID)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	w, err := s.ctrl.Open(id)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to open %q: %w", id, err)
	}
	return nil, WindowOutput{Window: windowInfo(*w, w.ID)}, nil
}

func (s *Server) handleOpenArticle(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenArticleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	topicID := strings.TrimSpace(args.TopicID)
	articleID := strings.TrimSpace(args.ArticleID)
	if topicID == "" || articleID == "" {
		return nil, WindowOutput{}, fmt.Errorf("open_article: topic_id and article_id are required")
	}
	w, err := s.ctrl.OpenArticle(topicID, articleID)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to open article %s/%s: %w", topicID, articleID, err)
	}
	return nil, WindowOutput{Window: windowInfo(*w, w.ID)}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id, err := requireID("close_window", args.ID)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.ctrl.Close(id)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("failed to close %q: %w", id, err)
	}
	if !changed {
		return textResult("Window %q is not open", id), ChangedOutput{}, nil
	}
	return nil, ChangedOutput{Changed: true}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id, err := requireID("focus_window", args.ID)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.ctrl.Focus(id)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("failed to focus %q: %w", id, err)
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id, err := requireID("move_window", args.ID)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.ctrl.Move(id, args.X, args.Y)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("failed to move %q: %w", id, err)
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id, err := requireID("resize_window", args.ID)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ChangedOutput{}, fmt.Errorf("resize_window: width and height must be positive")
	}
	changed, err := s.ctrl.Resize(id, args.Width, args.Height)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("failed to resize %q: %w", id, err)
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MaximizeWindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id, err := requireID("maximize_window", args.ID)
	if err != nil {
		return nil, ChangedOutput{}, err
	}
	changed, err := s.ctrl.Maximize(id, args.Maximized)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("failed to maximize %q: %w", id, err)
	}
	return nil, ChangedOutput{Changed: changed}, nil
}

func (s *Server) handleSetViewport(_ context.Context, _ *mcpsdk.CallToolRequest, args SetViewportInput) (*mcpsdk.CallToolResult, SetViewportOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, SetViewportOutput{}, fmt.Errorf("set_viewport: width and height must be positive")
	}
	data, err := s.ctrl.SetViewport(args.Width, args.Height)
	if err != nil {
		return nil, SetViewportOutput{}, fmt.Errorf("failed to set viewport: %w", err)
	}
	return nil, SetViewportOutput{Mode: data.Mode, ModeChanged: data.ModeChanged}, nil
}
