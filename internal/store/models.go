package store

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Workspace struct {
	ID           string
	Name         string
	Slug         string
	LogoURL      *string
	PrimaryColor string
	APIKey       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Membership links a user to a workspace with a role. The (workspace, user)
// pair is unique; a workspace's creator holds the single owner membership.
type Membership struct {
	ID          string
	WorkspaceID string
	UserID      string
	Role        string
	CreatedAt   time.Time
}

// WorkspaceWithRole is a membership row joined with its workspace, as
// returned to the workspace directory.
type WorkspaceWithRole struct {
	Workspace
	Role string
}

const (
	VideoUploading  = "uploading"
	VideoProcessing = "processing"
	VideoCompleted  = "completed"
	VideoFailed     = "failed"
)

type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type Highlight struct {
	Time        float64 `json:"time"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

type Video struct {
	ID                string
	WorkspaceID       string
	UserID            string
	Title             string
	Description       *string
	ThumbnailURL      *string
	OriginalVideoURL  *string
	ProcessedVideoURL *string
	Duration          *int
	Status            string
	AIScript          *string
	AIVoice           *string
	Captions          []Caption
	Highlights        []Highlight
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// VideoResult is the payload written by the processing pipeline when a
// video reaches its completed state.
type VideoResult struct {
	Script     string
	Voice      string
	Captions   []Caption
	Highlights []Highlight
	Duration   int
}

// VideoFilter narrows a workspace video listing. Query matches the title
// case-insensitively; Status is an exact match. Empty fields are ignored.
type VideoFilter struct {
	Query  string
	Status string
}

// DocStep is one entry of a generated guide. The shape is owned by the
// documentation generator; the API treats it as opaque content.
type DocStep struct {
	Step   int     `json:"step"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	AtTime float64 `json:"atTime"`
}

type Documentation struct {
	ID          string
	VideoID     string
	WorkspaceID string
	UserID      string
	Title       string
	Content     []DocStep
	Format      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkspaceStats backs the dashboard header cards.
type WorkspaceStats struct {
	TotalVideos        int
	TotalDocumentation int
	TotalDuration      int
}
