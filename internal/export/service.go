package export

import (
	"context"
	"fmt"

	"reeldoc/api/internal/store"
)

// DataStore defines the data access needed to export a guide
type DataStore interface {
	GetDocumentation(ctx context.Context, docID string) (store.Documentation, error)
	GetVideo(ctx context.Context, videoID string) (store.Video, error)
	GetWorkspace(ctx context.Context, workspaceID string) (store.Workspace, error)
}

// Service provides guide export functionality
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

// Export renders a guide in the requested format.
func (s *Service) Export(ctx context.Context, docID string, format Format) (*Result, error) {
	doc, err := s.store.GetDocumentation(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get documentation: %w", err)
	}
	video, err := s.store.GetVideo(ctx, doc.VideoID)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	switch format {
	case FormatMarkdown:
		return &Result{
			Data:     RenderMarkdown(doc, video),
			Filename: sanitizeFilename(doc.Title) + ".md",
			MimeType: "text/markdown; charset=utf-8",
		}, nil
	case FormatPDF:
		workspace, err := s.store.GetWorkspace(ctx, doc.WorkspaceID)
		if err != nil {
			return nil, fmt.Errorf("get workspace: %w", err)
		}
		html, err := RenderGuideHTML(doc, video, workspace.Name)
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return exportPDF(html, doc.Title)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
