package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultVideo         ResultType = "video"
	ResultDocumentation ResultType = "documentation"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type        ResultType `json:"type"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet"`
	VideoID     string     `json:"videoId"`
	WorkspaceID string     `json:"workspaceId"`
	Status      string     `json:"status,omitempty"`
}

// Query describes a search request. WorkspaceID is always set by the API
// layer; results never cross workspaces.
type Query struct {
	Text        string
	FilterType  ResultType // empty = all types
	WorkspaceID string
	Limit       int
	Offset      int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push entities into a search index.
type Indexer interface {
	IndexVideo(v VideoRecord) error
	IndexDocumentation(d DocumentationRecord) error
	DeleteVideo(id string) error
	DeleteDocumentation(id string) error
}

// VideoRecord is the data we index for a video.
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	WorkspaceID string `json:"workspaceId"`
	Status      string `json:"status"`
}

// DocumentationRecord is the data we index for a generated guide.
type DocumentationRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	VideoID     string `json:"videoId"`
	WorkspaceID string `json:"workspaceId"`
}
