package app

import (
	"context"
	"time"

	"reeldoc/api/internal/auth"
	"reeldoc/api/internal/authpw"
	"reeldoc/api/internal/config"
	"reeldoc/api/internal/export"
	"reeldoc/api/internal/media"
	"reeldoc/api/internal/pipeline"
	"reeldoc/api/internal/prefs"
	"reeldoc/api/internal/rbac"
	"reeldoc/api/internal/search"
	"reeldoc/api/internal/session"
	"reeldoc/api/internal/store"
	"reeldoc/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	Email        string
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	CreateUser(ctx context.Context, user store.User) error
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, userID string) (store.User, error)
	InsertWorkspace(ctx context.Context, workspace store.Workspace) error
	DeleteWorkspace(ctx context.Context, workspaceID string) error
	GetWorkspace(ctx context.Context, workspaceID string) (store.Workspace, error)
	UpdateWorkspaceSettings(ctx context.Context, workspaceID, name, primaryColor string) error
	InsertMembership(ctx context.Context, membership store.Membership) error
	GetMembership(ctx context.Context, userID, workspaceID string) (store.Membership, error)
	ListMemberships(ctx context.Context, userID string) ([]store.WorkspaceWithRole, error)
	InsertVideo(ctx context.Context, video store.Video) error
	GetVideo(ctx context.Context, videoID string) (store.Video, error)
	ListVideos(ctx context.Context, workspaceID string, filter store.VideoFilter) ([]store.Video, error)
	ListRecentVideos(ctx context.Context, workspaceID string, limit int) ([]store.Video, error)
	WorkspaceStats(ctx context.Context, workspaceID string) (store.WorkspaceStats, error)
	GetDocumentation(ctx context.Context, docID string) (store.Documentation, error)
	ListDocumentation(ctx context.Context, workspaceID, query string) ([]store.Documentation, error)
	Ping(ctx context.Context) error
}

type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID, email string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (session.TokenData, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type prefStore interface {
	ActiveWorkspace(ctx context.Context, userID string) (string, error)
	SetActiveWorkspace(ctx context.Context, userID, workspaceID string) error
}

type mediaService interface {
	UploadURL(ctx context.Context, objectKey string) (string, error)
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type searchService interface {
	Search(q search.Query) search.Response
	IndexVideo(v search.VideoRecord)
	IndexDocumentation(d search.DocumentationRecord)
}

type exportService interface {
	Export(ctx context.Context, docID string, format export.Format) (*export.Result, error)
}

type jobRunner interface {
	Enqueue(video store.Video)
	Poll(videoID string) (pipeline.Job, error)
	Cancel(videoID string) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	prefs    prefStore
	authpw   *authpw.Service
	media    mediaService // nil when object storage is not configured
	search   searchService
	exporter exportService
	jobs     jobRunner
}

// New wires the concrete backends together. media may be nil when object
// storage is not configured; uploads then skip the presigned URL step.
func New(
	cfg config.Config,
	dataStore *store.PostgresStore,
	sessions *session.RedisStore,
	prefs *prefs.RedisStore,
	authSvc *authpw.Service,
	mediaSvc *media.Service,
	searchSvc *search.Service,
	exporter *export.Service,
	jobs *pipeline.Simulator,
) *Service {
	s := &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		prefs:    prefs,
		authpw:   authSvc,
		search:   searchSvc,
		exporter: exporter,
		jobs:     jobs,
	}
	if mediaSvc != nil {
		s.media = mediaSvc
	}
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// SignUp registers a user and opens a session immediately. The account
// starts with no workspaces; the first one is created explicitly.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	user, err := s.authpw.SignUp(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.authpw.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	data, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, data.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, user.Email, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		Email:        user.Email,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}

	revoked, err := s.sessions.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

// SignOut revokes the caller's access jti and the presented refresh token.
// Both revocations are best effort; signing out never fails.
func (s *Service) SignOut(ctx context.Context, sess Session, refreshToken string) error {
	if sess.JTI != "" {
		_ = s.sessions.RevokeAccessToken(ctx, sess.JTI, sess.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// roleCan resolves the caller's role in a workspace and checks the action.
func (s *Service) roleCan(ctx context.Context, userID, workspaceID string, action rbac.Action) (bool, error) {
	membership, err := s.store.GetMembership(ctx, userID, workspaceID)
	if err != nil {
		return false, err
	}
	return rbac.Can(rbac.Normalize(membership.Role), action), nil
}
