package app

import (
	"context"
	"time"

	"reeldoc/api/internal/export"
	"reeldoc/api/internal/search"
	"reeldoc/api/internal/store"
)

func (s *Service) ListDocumentation(ctx context.Context, userID, workspaceID, query string) (map[string]any, error) {
	if _, err := s.store.GetMembership(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocumentation(ctx, workspaceID, query)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, documentationSummary(doc))
	}
	return map[string]any{"documentation": items}, nil
}

func (s *Service) GetDocumentation(ctx context.Context, userID, docID string) (map[string]any, error) {
	doc, err := s.memberDocumentation(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	payload := documentationSummary(doc)
	payload["content"] = nonNilSteps(doc.Content)
	return payload, nil
}

// ExportDocumentation renders a guide for download in the given format.
func (s *Service) ExportDocumentation(ctx context.Context, userID, docID string, format export.Format) (*export.Result, error) {
	if _, err := s.memberDocumentation(ctx, userID, docID); err != nil {
		return nil, err
	}
	return s.exporter.Export(ctx, docID, format)
}

// Search runs a workspace-scoped search across videos and documentation.
func (s *Service) Search(ctx context.Context, userID, workspaceID, text, filterType string, limit, offset int) (search.Response, error) {
	if _, err := s.store.GetMembership(ctx, userID, workspaceID); err != nil {
		return search.Response{}, err
	}
	return s.search.Search(search.Query{
		Text:        text,
		FilterType:  search.ResultType(filterType),
		WorkspaceID: workspaceID,
		Limit:       limit,
		Offset:      offset,
	}), nil
}

// IndexCompleted pushes a finished video and its guide into the search
// index. Wired as the pipeline's completion hook.
func (s *Service) IndexCompleted(video store.Video, doc store.Documentation) {
	s.search.IndexVideo(videoRecord(video))

	body := ""
	for _, step := range doc.Content {
		if body != "" {
			body += " "
		}
		body += step.Body
	}
	s.search.IndexDocumentation(search.DocumentationRecord{
		ID:          doc.ID,
		Title:       doc.Title,
		Body:        body,
		VideoID:     doc.VideoID,
		WorkspaceID: doc.WorkspaceID,
	})
}

func (s *Service) memberDocumentation(ctx context.Context, userID, docID string) (store.Documentation, error) {
	doc, err := s.store.GetDocumentation(ctx, docID)
	if err != nil {
		return store.Documentation{}, err
	}
	if _, err := s.store.GetMembership(ctx, userID, doc.WorkspaceID); err != nil {
		return store.Documentation{}, err
	}
	return doc, nil
}

func documentationSummary(doc store.Documentation) map[string]any {
	return map[string]any{
		"id":          doc.ID,
		"videoId":     doc.VideoID,
		"workspaceId": doc.WorkspaceID,
		"title":       doc.Title,
		"format":      doc.Format,
		"steps":       len(doc.Content),
		"createdAt":   doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func nonNilSteps(steps []store.DocStep) []store.DocStep {
	if steps == nil {
		return []store.DocStep{}
	}
	return steps
}
