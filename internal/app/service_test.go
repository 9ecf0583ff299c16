package app

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"reeldoc/api/internal/authpw"
	"reeldoc/api/internal/config"
	"reeldoc/api/internal/export"
	"reeldoc/api/internal/pipeline"
	"reeldoc/api/internal/search"
	"reeldoc/api/internal/session"
	"reeldoc/api/internal/store"
)

type fakeStore struct {
	createUserFn              func(context.Context, store.User) error
	getUserByEmailFn          func(context.Context, string) (store.User, error)
	getUserByIDFn             func(context.Context, string) (store.User, error)
	insertWorkspaceFn         func(context.Context, store.Workspace) error
	deleteWorkspaceFn         func(context.Context, string) error
	getWorkspaceFn            func(context.Context, string) (store.Workspace, error)
	updateWorkspaceSettingsFn func(context.Context, string, string, string) error
	insertMembershipFn        func(context.Context, store.Membership) error
	getMembershipFn           func(context.Context, string, string) (store.Membership, error)
	listMembershipsFn         func(context.Context, string) ([]store.WorkspaceWithRole, error)
	insertVideoFn             func(context.Context, store.Video) error
	getVideoFn                func(context.Context, string) (store.Video, error)
	listVideosFn              func(context.Context, string, store.VideoFilter) ([]store.Video, error)
	listRecentVideosFn        func(context.Context, string, int) ([]store.Video, error)
	workspaceStatsFn          func(context.Context, string) (store.WorkspaceStats, error)
	getDocumentationFn        func(context.Context, string) (store.Documentation, error)
	listDocumentationFn       func(context.Context, string, string) ([]store.Documentation, error)
	pingFn                    func(context.Context) error
}

func (f *fakeStore) CreateUser(ctx context.Context, user store.User) error {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, user)
	}
	return nil
}
func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(ctx, email)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{ID: userID, Email: "user@example.com"}, nil
}
func (f *fakeStore) InsertWorkspace(ctx context.Context, workspace store.Workspace) error {
	if f.insertWorkspaceFn != nil {
		return f.insertWorkspaceFn(ctx, workspace)
	}
	return nil
}
func (f *fakeStore) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	if f.deleteWorkspaceFn != nil {
		return f.deleteWorkspaceFn(ctx, workspaceID)
	}
	return nil
}
func (f *fakeStore) GetWorkspace(ctx context.Context, workspaceID string) (store.Workspace, error) {
	if f.getWorkspaceFn != nil {
		return f.getWorkspaceFn(ctx, workspaceID)
	}
	return store.Workspace{ID: workspaceID, Name: "Acme", Slug: "acme", PrimaryColor: "#3B82F6"}, nil
}
func (f *fakeStore) UpdateWorkspaceSettings(ctx context.Context, workspaceID, name, primaryColor string) error {
	if f.updateWorkspaceSettingsFn != nil {
		return f.updateWorkspaceSettingsFn(ctx, workspaceID, name, primaryColor)
	}
	return nil
}
func (f *fakeStore) InsertMembership(ctx context.Context, membership store.Membership) error {
	if f.insertMembershipFn != nil {
		return f.insertMembershipFn(ctx, membership)
	}
	return nil
}
func (f *fakeStore) GetMembership(ctx context.Context, userID, workspaceID string) (store.Membership, error) {
	if f.getMembershipFn != nil {
		return f.getMembershipFn(ctx, userID, workspaceID)
	}
	return store.Membership{ID: "mem-1", UserID: userID, WorkspaceID: workspaceID, Role: "owner"}, nil
}
func (f *fakeStore) ListMemberships(ctx context.Context, userID string) ([]store.WorkspaceWithRole, error) {
	if f.listMembershipsFn != nil {
		return f.listMembershipsFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) InsertVideo(ctx context.Context, video store.Video) error {
	if f.insertVideoFn != nil {
		return f.insertVideoFn(ctx, video)
	}
	return nil
}
func (f *fakeStore) GetVideo(ctx context.Context, videoID string) (store.Video, error) {
	if f.getVideoFn != nil {
		return f.getVideoFn(ctx, videoID)
	}
	return store.Video{}, sql.ErrNoRows
}
func (f *fakeStore) ListVideos(ctx context.Context, workspaceID string, filter store.VideoFilter) ([]store.Video, error) {
	if f.listVideosFn != nil {
		return f.listVideosFn(ctx, workspaceID, filter)
	}
	return nil, nil
}
func (f *fakeStore) ListRecentVideos(ctx context.Context, workspaceID string, limit int) ([]store.Video, error) {
	if f.listRecentVideosFn != nil {
		return f.listRecentVideosFn(ctx, workspaceID, limit)
	}
	return nil, nil
}
func (f *fakeStore) WorkspaceStats(ctx context.Context, workspaceID string) (store.WorkspaceStats, error) {
	if f.workspaceStatsFn != nil {
		return f.workspaceStatsFn(ctx, workspaceID)
	}
	return store.WorkspaceStats{}, nil
}
func (f *fakeStore) GetDocumentation(ctx context.Context, docID string) (store.Documentation, error) {
	if f.getDocumentationFn != nil {
		return f.getDocumentationFn(ctx, docID)
	}
	return store.Documentation{}, sql.ErrNoRows
}
func (f *fakeStore) ListDocumentation(ctx context.Context, workspaceID, query string) ([]store.Documentation, error) {
	if f.listDocumentationFn != nil {
		return f.listDocumentationFn(ctx, workspaceID, query)
	}
	return nil, nil
}
func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	data    map[string]session.TokenData
	revoked map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		data:    make(map[string]session.TokenData),
		revoked: make(map[string]bool),
	}
}

func (f *fakeSessions) SaveRefreshSession(_ context.Context, tokenHash, userID, email string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[tokenHash] = session.TokenData{UserID: userID, Email: email}
	return nil
}
func (f *fakeSessions) LookupRefreshSession(_ context.Context, tokenHash string) (session.TokenData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[tokenHash]
	if !ok {
		return session.TokenData{}, session.ErrNotFound
	}
	return data, nil
}
func (f *fakeSessions) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, tokenHash)
	return nil
}
func (f *fakeSessions) RevokeAccessToken(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
	return nil
}
func (f *fakeSessions) IsAccessTokenRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

type fakePrefs struct {
	mu     sync.Mutex
	active map[string]string
	sets   int
	getErr error
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{active: make(map[string]string)}
}

func (f *fakePrefs) ActiveWorkspace(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.active[userID], nil
}
func (f *fakePrefs) SetActiveWorkspace(_ context.Context, userID, workspaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[userID] = workspaceID
	f.sets++
	return nil
}

type fakeSearch struct {
	mu        sync.Mutex
	lastQuery search.Query
	videos    []search.VideoRecord
	docs      []search.DocumentationRecord
	response  search.Response
}

func (f *fakeSearch) Search(q search.Query) search.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return f.response
}
func (f *fakeSearch) IndexVideo(v search.VideoRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, v)
}
func (f *fakeSearch) IndexDocumentation(d search.DocumentationRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, d)
}

type fakeExporter struct {
	exportFn func(context.Context, string, export.Format) (*export.Result, error)
}

func (f *fakeExporter) Export(ctx context.Context, docID string, format export.Format) (*export.Result, error) {
	if f.exportFn != nil {
		return f.exportFn(ctx, docID, format)
	}
	return &export.Result{Data: []byte("# guide"), Filename: "guide.md", MimeType: "text/markdown; charset=utf-8"}, nil
}

type fakeJobs struct {
	mu       sync.Mutex
	enqueued []store.Video
	pollFn   func(string) (pipeline.Job, error)
	cancelFn func(string) error
}

func (f *fakeJobs) Enqueue(video store.Video) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, video)
}
func (f *fakeJobs) Poll(videoID string) (pipeline.Job, error) {
	if f.pollFn != nil {
		return f.pollFn(videoID)
	}
	return pipeline.Job{}, pipeline.ErrJobNotFound
}
func (f *fakeJobs) Cancel(videoID string) error {
	if f.cancelFn != nil {
		return f.cancelFn(videoID)
	}
	return pipeline.ErrJobNotFound
}

func newTestService(fs *fakeStore) *Service {
	return &Service{
		cfg: config.Config{
			TokenSecret: "test-secret",
			AccessTTL:   time.Hour,
			RefreshTTL:  24 * time.Hour,
		},
		store:    fs,
		sessions: newFakeSessions(),
		prefs:    newFakePrefs(),
		authpw:   authpw.NewService(fs),
		search:   &fakeSearch{},
		exporter: &fakeExporter{},
		jobs:     &fakeJobs{},
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme", "acme"},
		{"spaces", "Acme Support Docs", "acme-support-docs"},
		{"punctuation runs", "Acme -- Support!! Docs", "acme-support-docs"},
		{"leading and trailing junk", "  ** Acme **  ", "acme"},
		{"digits kept", "Team 42", "team-42"},
		{"symbols only", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func directoryFixture() []store.WorkspaceWithRole {
	return []store.WorkspaceWithRole{
		{Workspace: store.Workspace{ID: "ws-b", Name: "Beta", Slug: "beta", PrimaryColor: "#3B82F6"}, Role: "owner"},
		{Workspace: store.Workspace{ID: "ws-c", Name: "Gamma", Slug: "gamma", PrimaryColor: "#3B82F6"}, Role: "member"},
	}
}

func TestDirectoryPrefersStoredSelection(t *testing.T) {
	fs := &fakeStore{
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)
	if err := svc.prefs.SetActiveWorkspace(context.Background(), "user-1", "ws-c"); err != nil {
		t.Fatalf("set preference: %v", err)
	}

	payload, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if payload["activeWorkspaceId"] != "ws-c" {
		t.Fatalf("expected active ws-c, got %v", payload["activeWorkspaceId"])
	}
}

func TestDirectoryIgnoresStalePreference(t *testing.T) {
	fs := &fakeStore{
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)
	prefs := svc.prefs.(*fakePrefs)
	if err := prefs.SetActiveWorkspace(context.Background(), "user-1", "ws-gone"); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	setsBefore := prefs.sets

	payload, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if payload["activeWorkspaceId"] != "ws-b" {
		t.Fatalf("expected fallback to first workspace ws-b, got %v", payload["activeWorkspaceId"])
	}
	if prefs.sets != setsBefore {
		t.Fatalf("stale preference should not be rewritten")
	}
	if got, _ := prefs.ActiveWorkspace(context.Background(), "user-1"); got != "ws-gone" {
		t.Fatalf("stored preference changed to %q", got)
	}
}

func TestDirectoryDegradesOnPreferenceReadFailure(t *testing.T) {
	fs := &fakeStore{
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)
	svc.prefs.(*fakePrefs).getErr = errors.New("connection refused")

	payload, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("directory should survive a preference read failure, got %v", err)
	}
	if payload["activeWorkspaceId"] != "ws-b" {
		t.Fatalf("expected fallback to first workspace, got %v", payload["activeWorkspaceId"])
	}
	if items := payload["workspaces"].([]map[string]any); len(items) != 2 {
		t.Fatalf("expected full membership list, got %d", len(items))
	}
}

func TestDirectoryWithNoWorkspaces(t *testing.T) {
	svc := newTestService(&fakeStore{})

	payload, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if payload["activeWorkspaceId"] != nil {
		t.Fatalf("expected nil active workspace, got %v", payload["activeWorkspaceId"])
	}
}

func TestDirectoryIsIdempotentWithoutBackendChange(t *testing.T) {
	fs := &fakeStore{
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)
	if err := svc.prefs.SetActiveWorkspace(context.Background(), "user-1", "ws-c"); err != nil {
		t.Fatalf("set preference: %v", err)
	}

	first, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("first directory: %v", err)
	}
	second, err := svc.Directory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second directory: %v", err)
	}

	if first["activeWorkspaceId"] != second["activeWorkspaceId"] {
		t.Fatalf("active selection changed between calls: %v then %v",
			first["activeWorkspaceId"], second["activeWorkspaceId"])
	}

	firstItems := first["workspaces"].([]map[string]any)
	secondItems := second["workspaces"].([]map[string]any)
	if len(firstItems) != len(secondItems) {
		t.Fatalf("workspace count changed: %d then %d", len(firstItems), len(secondItems))
	}
	for i := range firstItems {
		if firstItems[i]["id"] != secondItems[i]["id"] {
			t.Fatalf("workspace order changed at %d: %v then %v", i, firstItems[i]["id"], secondItems[i]["id"])
		}
	}
}

func TestSwitchWorkspacePersistsSelection(t *testing.T) {
	fs := &fakeStore{
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.SwitchWorkspace(context.Background(), "user-1", "ws-c")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if payload["activeWorkspaceId"] != "ws-c" {
		t.Fatalf("expected active ws-c, got %v", payload["activeWorkspaceId"])
	}
}

func TestSwitchWorkspaceNonMemberIsNoOp(t *testing.T) {
	fs := &fakeStore{
		getMembershipFn: func(_ context.Context, _, workspaceID string) (store.Membership, error) {
			if workspaceID == "ws-other" {
				return store.Membership{}, sql.ErrNoRows
			}
			return store.Membership{Role: "owner"}, nil
		},
		listMembershipsFn: func(context.Context, string) ([]store.WorkspaceWithRole, error) {
			return directoryFixture(), nil
		},
	}
	svc := newTestService(fs)
	prefs := svc.prefs.(*fakePrefs)
	if err := prefs.SetActiveWorkspace(context.Background(), "user-1", "ws-b"); err != nil {
		t.Fatalf("set preference: %v", err)
	}

	payload, err := svc.SwitchWorkspace(context.Background(), "user-1", "ws-other")
	if err != nil {
		t.Fatalf("switch to non-member workspace should not error, got %v", err)
	}
	if payload["activeWorkspaceId"] != "ws-b" {
		t.Fatalf("expected selection to stay ws-b, got %v", payload["activeWorkspaceId"])
	}
	if got, _ := prefs.ActiveWorkspace(context.Background(), "user-1"); got != "ws-b" {
		t.Fatalf("preference changed to %q", got)
	}
}

func TestSwitchWorkspaceMembershipLookupFailurePropagates(t *testing.T) {
	boom := errors.New("connection reset")
	fs := &fakeStore{
		getMembershipFn: func(context.Context, string, string) (store.Membership, error) {
			return store.Membership{}, boom
		},
	}
	svc := newTestService(fs)

	if _, err := svc.SwitchWorkspace(context.Background(), "user-1", "ws-b"); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}

func TestCreateWorkspaceCleansUpOnMembershipFailure(t *testing.T) {
	var inserted store.Workspace
	var deletedID string
	fs := &fakeStore{
		insertWorkspaceFn: func(_ context.Context, workspace store.Workspace) error {
			inserted = workspace
			return nil
		},
		insertMembershipFn: func(context.Context, store.Membership) error {
			return errors.New("membership insert failed")
		},
		deleteWorkspaceFn: func(_ context.Context, workspaceID string) error {
			deletedID = workspaceID
			return nil
		},
	}
	svc := newTestService(fs)

	if _, err := svc.CreateWorkspace(context.Background(), "user-1", "Acme"); err == nil {
		t.Fatalf("expected error")
	}
	if inserted.ID == "" {
		t.Fatalf("expected workspace insert")
	}
	if deletedID != inserted.ID {
		t.Fatalf("expected orphaned workspace %s deleted, got %q", inserted.ID, deletedID)
	}
}

func TestCreateWorkspaceAssignsOwnerAndSlug(t *testing.T) {
	var membership store.Membership
	var workspace store.Workspace
	fs := &fakeStore{
		insertWorkspaceFn: func(_ context.Context, ws store.Workspace) error {
			workspace = ws
			return nil
		},
		insertMembershipFn: func(_ context.Context, m store.Membership) error {
			membership = m
			return nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.CreateWorkspace(context.Background(), "user-1", "  Acme Support Docs  ")
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	if workspace.Slug != "acme-support-docs" {
		t.Fatalf("expected slug acme-support-docs, got %q", workspace.Slug)
	}
	if workspace.APIKey == "" {
		t.Fatalf("expected API key")
	}
	if workspace.PrimaryColor != "#3B82F6" {
		t.Fatalf("expected default brand color #3B82F6, got %q", workspace.PrimaryColor)
	}
	if membership.Role != "owner" {
		t.Fatalf("expected owner membership, got %q", membership.Role)
	}
	if membership.UserID != "user-1" || membership.WorkspaceID != workspace.ID {
		t.Fatalf("membership links wrong rows: %+v", membership)
	}
	if payload["slug"] != "acme-support-docs" {
		t.Fatalf("payload slug = %v", payload["slug"])
	}
	if active, _ := svc.prefs.ActiveWorkspace(context.Background(), "user-1"); active != workspace.ID {
		t.Fatalf("new workspace should become the active selection")
	}
}

func TestCreateWorkspaceRejectsUnsluggableName(t *testing.T) {
	svc := newTestService(&fakeStore{})

	for _, name := range []string{"", "   ", "!!!"} {
		_, err := svc.CreateWorkspace(context.Background(), "user-1", name)
		var domainErr *DomainError
		if !errors.As(err, &domainErr) || domainErr.Status != 422 {
			t.Fatalf("name %q: expected 422 domain error, got %v", name, err)
		}
	}
}

func TestUpdateWorkspaceSettingsRequiresManageRole(t *testing.T) {
	fs := &fakeStore{
		getMembershipFn: func(_ context.Context, userID, workspaceID string) (store.Membership, error) {
			return store.Membership{UserID: userID, WorkspaceID: workspaceID, Role: "member"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateWorkspaceSettings(context.Background(), "user-1", "ws-b", UpdateSettingsInput{Name: "New Name"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN for member role, got %v", err)
	}
}

func TestUpdateWorkspaceSettingsValidatesColor(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.UpdateWorkspaceSettings(context.Background(), "user-1", "ws-b", UpdateSettingsInput{PrimaryColor: "blue"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 422 {
		t.Fatalf("expected 422 for bad color, got %v", err)
	}
}

func TestUpdateWorkspaceSettingsKeepsBlankFields(t *testing.T) {
	var gotName, gotColor string
	fs := &fakeStore{
		getWorkspaceFn: func(_ context.Context, workspaceID string) (store.Workspace, error) {
			return store.Workspace{ID: workspaceID, Name: "Old Name", Slug: "old", PrimaryColor: "#112233"}, nil
		},
		updateWorkspaceSettingsFn: func(_ context.Context, _, name, color string) error {
			gotName, gotColor = name, color
			return nil
		},
	}
	svc := newTestService(fs)

	if _, err := svc.UpdateWorkspaceSettings(context.Background(), "user-1", "ws-b", UpdateSettingsInput{Name: "New Name"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if gotName != "New Name" || gotColor != "#112233" {
		t.Fatalf("expected blank color to keep current, got name=%q color=%q", gotName, gotColor)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, Email: "avery@example.com"}, nil
		},
	}
	svc := newTestService(fs)

	first, err := svc.issueSession(context.Background(), store.User{ID: "user-1", Email: "avery@example.com"})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected presented token to be revoked, got %v", err)
	}
}

func TestInsightsDerivedFromStats(t *testing.T) {
	fs := &fakeStore{
		workspaceStatsFn: func(context.Context, string) (store.WorkspaceStats, error) {
			return store.WorkspaceStats{TotalVideos: 3, TotalDocumentation: 2, TotalDuration: 360}, nil
		},
		listRecentVideosFn: func(context.Context, string, int) ([]store.Video, error) {
			return []store.Video{
				{ID: "vid-1", WorkspaceID: "ws-b", Title: "Getting Started"},
				{ID: "vid-2", WorkspaceID: "ws-b", Title: "Advanced Features"},
			}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.Insights(context.Background(), "user-1", "ws-b")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if payload["totalViews"] != 3*47+2*112 {
		t.Fatalf("totalViews = %v", payload["totalViews"])
	}
	if payload["topPerformingType"] != "step-by-step" {
		t.Fatalf("topPerformingType = %v", payload["topPerformingType"])
	}

	recommendations, ok := payload["recommendations"].([]map[string]any)
	if !ok || len(recommendations) == 0 {
		t.Fatalf("expected recommendation cards, got %v", payload["recommendations"])
	}
	for _, rec := range recommendations {
		if rec["title"] == "" || rec["impact"] == "" {
			t.Fatalf("incomplete recommendation: %v", rec)
		}
	}

	topVideos, ok := payload["topVideos"].([]map[string]any)
	if !ok || len(topVideos) != 2 {
		t.Fatalf("expected two top videos, got %v", payload["topVideos"])
	}
	if topVideos[0]["title"] != "Getting Started" {
		t.Fatalf("topVideos[0] = %v", topVideos[0])
	}
	if topVideos[0]["views"].(int) <= topVideos[1]["views"].(int) {
		t.Fatalf("mocked view counts should rank first over second")
	}
}
