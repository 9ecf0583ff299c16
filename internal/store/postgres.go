package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---- users ----

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, LOWER($2), $3)
	`, user.ID, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = LOWER($1)
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ---- workspaces ----

func (s *PostgresStore) InsertWorkspace(ctx context.Context, workspace Workspace) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, slug, logo_url, primary_color, api_key)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, workspace.ID, workspace.Name, workspace.Slug, workspace.LogoURL, workspace.PrimaryColor, workspace.APIKey)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace removes a workspace row. Only the workspace-creation
// flow calls this, to compensate a failed owner-membership insert.
func (s *PostgresStore) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetWorkspace(ctx context.Context, workspaceID string) (Workspace, error) {
	var workspace Workspace
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, logo_url, primary_color, api_key, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`, workspaceID).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Slug,
		&workspace.LogoURL,
		&workspace.PrimaryColor,
		&workspace.APIKey,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		return Workspace{}, err
	}
	return workspace, nil
}

// UpdateWorkspaceSettings changes the mutable workspace fields. The slug is
// fixed at creation and deliberately not part of this statement.
func (s *PostgresStore) UpdateWorkspaceSettings(ctx context.Context, workspaceID, name, primaryColor string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workspaces
		SET name = $2, primary_color = $3, updated_at = NOW()
		WHERE id = $1
	`, workspaceID, name, primaryColor)
	if err != nil {
		return fmt.Errorf("update workspace settings: %w", err)
	}
	return nil
}

// ---- memberships ----

func (s *PostgresStore) InsertMembership(ctx context.Context, membership Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace_members (id, workspace_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, membership.ID, membership.WorkspaceID, membership.UserID, membership.Role)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMembership(ctx context.Context, userID, workspaceID string) (Membership, error) {
	var membership Membership
	err := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, user_id, role, created_at
		FROM workspace_members
		WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID).Scan(
		&membership.ID,
		&membership.WorkspaceID,
		&membership.UserID,
		&membership.Role,
		&membership.CreatedAt,
	)
	if err != nil {
		return Membership{}, err
	}
	return membership, nil
}

// ListMemberships returns the caller's workspaces joined with their role,
// in membership-creation order. The directory relies on this order for its
// first-entry fallback.
func (s *PostgresStore) ListMemberships(ctx context.Context, userID string) ([]WorkspaceWithRole, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.slug, w.logo_url, w.primary_color, w.api_key, w.created_at, w.updated_at, wm.role
		FROM workspace_members wm
		JOIN workspaces w ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY wm.created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	items := make([]WorkspaceWithRole, 0)
	for rows.Next() {
		var item WorkspaceWithRole
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Slug,
			&item.LogoURL,
			&item.PrimaryColor,
			&item.APIKey,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Role,
		); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return items, nil
}

// ---- videos ----

const videoColumns = `
	id, workspace_id, user_id, title, description,
	thumbnail_url, original_video_url, processed_video_url,
	duration, status, ai_script, ai_voice, captions, highlights,
	created_at, updated_at
`

func (s *PostgresStore) InsertVideo(ctx context.Context, video Video) error {
	captions, err := json.Marshal(video.Captions)
	if err != nil {
		return fmt.Errorf("marshal captions: %w", err)
	}
	highlights, err := json.Marshal(video.Highlights)
	if err != nil {
		return fmt.Errorf("marshal highlights: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO videos (
			id, workspace_id, user_id, title, description,
			thumbnail_url, original_video_url, processed_video_url,
			duration, status, ai_script, ai_voice, captions, highlights
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		video.ID, video.WorkspaceID, video.UserID, video.Title, video.Description,
		video.ThumbnailURL, video.OriginalVideoURL, video.ProcessedVideoURL,
		video.Duration, video.Status, video.AIScript, video.AIVoice, captions, highlights,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetVideo(ctx context.Context, videoID string) (Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, videoID)
	return scanVideo(row)
}

// ListVideos returns one workspace's videos, newest first, optionally
// narrowed by a case-insensitive title query and a status filter.
func (s *PostgresStore) ListVideos(ctx context.Context, workspaceID string, filter VideoFilter) ([]Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE workspace_id = $1`
	args := []any{workspaceID}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND title ILIKE $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	items := make([]Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListRecentVideos(ctx context.Context, workspaceID string, limit int) ([]Video, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent videos: %w", err)
	}
	defer rows.Close()

	items := make([]Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent videos: %w", err)
	}
	return items, nil
}

// SetVideoStatus transitions a video that is still in flight. Terminal rows
// are left untouched so a completed video can never regress.
func (s *PostgresStore) SetVideoStatus(ctx context.Context, videoID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE videos
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`, videoID, status)
	if err != nil {
		return fmt.Errorf("set video status: %w", err)
	}
	return nil
}

// CompleteVideo is the pipeline's single completion write: status plus all
// AI output fields in one statement.
func (s *PostgresStore) CompleteVideo(ctx context.Context, videoID string, result VideoResult) error {
	captions, err := json.Marshal(result.Captions)
	if err != nil {
		return fmt.Errorf("marshal captions: %w", err)
	}
	highlights, err := json.Marshal(result.Highlights)
	if err != nil {
		return fmt.Errorf("marshal highlights: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE videos
		SET status = 'completed',
			ai_script = $2,
			ai_voice = $3,
			captions = $4,
			highlights = $5,
			duration = $6,
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`, videoID, result.Script, result.Voice, captions, highlights, result.Duration)
	if err != nil {
		return fmt.Errorf("complete video: %w", err)
	}
	return nil
}

func (s *PostgresStore) WorkspaceStats(ctx context.Context, workspaceID string) (WorkspaceStats, error) {
	var stats WorkspaceStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE workspace_id = $1),
			(SELECT COUNT(*) FROM documentation WHERE workspace_id = $1),
			(SELECT COALESCE(SUM(duration), 0) FROM videos WHERE workspace_id = $1)
	`, workspaceID).Scan(&stats.TotalVideos, &stats.TotalDocumentation, &stats.TotalDuration)
	if err != nil {
		return WorkspaceStats{}, fmt.Errorf("workspace stats: %w", err)
	}
	return stats, nil
}

// ---- documentation ----

const documentationColumns = `
	id, video_id, workspace_id, user_id, title, content, format, created_at, updated_at
`

func (s *PostgresStore) InsertDocumentation(ctx context.Context, doc Documentation) error {
	content, err := json.Marshal(doc.Content)
	if err != nil {
		return fmt.Errorf("marshal documentation content: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documentation (id, video_id, workspace_id, user_id, title, content, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, doc.ID, doc.VideoID, doc.WorkspaceID, doc.UserID, doc.Title, content, doc.Format)
	if err != nil {
		return fmt.Errorf("insert documentation: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDocumentation(ctx context.Context, docID string) (Documentation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentationColumns+` FROM documentation WHERE id = $1`, docID)
	return scanDocumentation(row)
}

func (s *PostgresStore) ListDocumentation(ctx context.Context, workspaceID, query string) ([]Documentation, error) {
	stmt := `SELECT ` + documentationColumns + ` FROM documentation WHERE workspace_id = $1`
	args := []any{workspaceID}
	if query != "" {
		args = append(args, "%"+query+"%")
		stmt += ` AND title ILIKE $2`
	}
	stmt += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list documentation: %w", err)
	}
	defer rows.Close()

	items := make([]Documentation, 0)
	for rows.Next() {
		doc, err := scanDocumentation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documentation: %w", err)
	}
	return items, nil
}

// ---- scan helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (Video, error) {
	var video Video
	var captions, highlights []byte
	err := row.Scan(
		&video.ID,
		&video.WorkspaceID,
		&video.UserID,
		&video.Title,
		&video.Description,
		&video.ThumbnailURL,
		&video.OriginalVideoURL,
		&video.ProcessedVideoURL,
		&video.Duration,
		&video.Status,
		&video.AIScript,
		&video.AIVoice,
		&captions,
		&highlights,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return Video{}, err
	}
	if len(captions) > 0 {
		if err := json.Unmarshal(captions, &video.Captions); err != nil {
			return Video{}, fmt.Errorf("unmarshal captions: %w", err)
		}
	}
	if len(highlights) > 0 {
		if err := json.Unmarshal(highlights, &video.Highlights); err != nil {
			return Video{}, fmt.Errorf("unmarshal highlights: %w", err)
		}
	}
	return video, nil
}

func scanDocumentation(row rowScanner) (Documentation, error) {
	var doc Documentation
	var content []byte
	err := row.Scan(
		&doc.ID,
		&doc.VideoID,
		&doc.WorkspaceID,
		&doc.UserID,
		&doc.Title,
		&content,
		&doc.Format,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Documentation{}, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &doc.Content); err != nil {
			return Documentation{}, fmt.Errorf("unmarshal documentation content: %w", err)
		}
	}
	return doc, nil
}
