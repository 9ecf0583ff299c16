package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true; if Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search executes a UNION ALL query across videos and documentation using
// plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	if q.FilterType == "" || q.FilterType == ResultVideo {
		videoWhere := "v.fts @@ " + tsQuery
		if q.WorkspaceID != "" {
			videoWhere += fmt.Sprintf(" AND v.workspace_id = $%d", argN)
			args = append(args, q.WorkspaceID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'video'::text AS type, v.id, v.title,
				ts_headline('english', coalesce(v.description, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				v.id AS video_id, v.workspace_id,
				v.status,
				ts_rank(v.fts, %s) AS rank
			FROM videos v
			WHERE %s`, tsQuery, tsQuery, videoWhere))
	}

	if q.FilterType == "" || q.FilterType == ResultDocumentation {
		docWhere := "d.fts @@ " + tsQuery
		if q.WorkspaceID != "" {
			docWhere += fmt.Sprintf(" AND d.workspace_id = $%d", argN)
			args = append(args, q.WorkspaceID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'documentation'::text AS type, d.id, d.title,
				ts_headline('english', coalesce(d.content::text, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				d.video_id, d.workspace_id,
				''::text AS status,
				ts_rank(d.fts, %s) AS rank
			FROM documentation d
			WHERE %s`, tsQuery, tsQuery, docWhere))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, video_id, workspace_id, status
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Title, &r.Snippet, &r.VideoID, &r.WorkspaceID, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]VideoRecord, []DocumentationRecord, error) {
	videoRows, err := p.db.QueryContext(ctx, `
		SELECT id, title, coalesce(description, ''), workspace_id, status
		FROM videos
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load videos: %w", err)
	}
	defer videoRows.Close()

	videos := make([]VideoRecord, 0)
	for videoRows.Next() {
		var v VideoRecord
		if err := videoRows.Scan(&v.ID, &v.Title, &v.Description, &v.WorkspaceID, &v.Status); err != nil {
			return nil, nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := videoRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate videos: %w", err)
	}

	docRows, err := p.db.QueryContext(ctx, `
		SELECT id, title, content::text, video_id, workspace_id
		FROM documentation
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load documentation: %w", err)
	}
	defer docRows.Close()

	docs := make([]DocumentationRecord, 0)
	for docRows.Next() {
		var d DocumentationRecord
		if err := docRows.Scan(&d.ID, &d.Title, &d.Body, &d.VideoID, &d.WorkspaceID); err != nil {
			return nil, nil, fmt.Errorf("scan documentation: %w", err)
		}
		docs = append(docs, d)
	}
	if err := docRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate documentation: %w", err)
	}

	return videos, docs, nil
}
