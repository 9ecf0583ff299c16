package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts *PgFTS
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, pgfts *PgFTS) *Service {
	return &Service{meili: meili, pgfts: pgfts}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to pgfts: %v", err)
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		log.Printf("search: pgfts error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexVideo indexes a video (fire-and-forget to Meilisearch).
func (s *Service) IndexVideo(v VideoRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexVideo(v); err != nil {
			log.Printf("search: index video %s: %v", v.ID, err)
		}
	}()
}

// IndexDocumentation indexes a guide (fire-and-forget to Meilisearch).
func (s *Service) IndexDocumentation(d DocumentationRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexDocumentation(d); err != nil {
			log.Printf("search: index documentation %s: %v", d.ID, err)
		}
	}()
}

// DeleteVideo removes a video from the search index (fire-and-forget).
func (s *Service) DeleteVideo(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteVideo(id); err != nil {
			log.Printf("search: delete video %s: %v", id, err)
		}
	}()
}

// DeleteDocumentation removes a guide from the search index (fire-and-forget).
func (s *Service) DeleteDocumentation(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteDocumentation(id); err != nil {
			log.Printf("search: delete documentation %s: %v", id, err)
		}
	}()
}

// ReindexAllFromPG reindexes all searchable entities from PostgreSQL into Meilisearch.
func (s *Service) ReindexAllFromPG(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.pgfts == nil {
		return
	}
	videos, docs, err := s.pgfts.LoadAllRecords(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexVideos(videos); err != nil {
		log.Printf("search: reindex videos: %v", err)
	}
	if err := s.meili.IndexDocumentations(docs); err != nil {
		log.Printf("search: reindex documentation: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
