package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"reeldoc/api/internal/rbac"
	"reeldoc/api/internal/store"
	"reeldoc/api/internal/util"
)

const defaultPrimaryColor = "#3B82F6"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Slugify derives a workspace slug from its name: lowercase, runs of
// non-alphanumerics collapse to a single hyphen, no leading or trailing
// hyphens.
func Slugify(name string) string {
	slug := make([]rune, 0, len(name))
	lastDash := false
	for _, raw := range strings.ToLower(strings.TrimSpace(name)) {
		if (raw >= 'a' && raw <= 'z') || (raw >= '0' && raw <= '9') {
			slug = append(slug, raw)
			lastDash = false
			continue
		}
		if !lastDash {
			slug = append(slug, '-')
			lastDash = true
		}
	}
	return strings.Trim(string(slug), "-")
}

// Directory resolves the caller's workspace list and active selection. The
// stored preference wins when it still points at a workspace the caller
// belongs to; otherwise the first workspace (by join order) is used. A stale
// preference is ignored, not rewritten.
func (s *Service) Directory(ctx context.Context, userID string) (map[string]any, error) {
	memberships, err := s.store.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A lost preference is recoverable; fall back to the first membership
	// rather than failing the whole directory.
	preferred, err := s.prefs.ActiveWorkspace(ctx, userID)
	if err != nil {
		log.Printf("workspace directory: read active preference for %s: %v", userID, err)
		preferred = ""
	}

	activeID := ""
	if preferred != "" {
		for _, m := range memberships {
			if m.ID == preferred {
				activeID = preferred
				break
			}
		}
	}
	if activeID == "" && len(memberships) > 0 {
		activeID = memberships[0].ID
	}

	items := make([]map[string]any, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, workspaceSummary(m))
	}

	payload := map[string]any{
		"workspaces":        items,
		"activeWorkspaceId": nilIfEmpty(activeID),
	}
	return payload, nil
}

// SwitchWorkspace persists the caller's selection. Pointing at a workspace
// the caller is not a member of is a silent no-op: the directory is returned
// unchanged and the stored preference keeps its old value.
func (s *Service) SwitchWorkspace(ctx context.Context, userID, workspaceID string) (map[string]any, error) {
	if workspaceID != "" {
		if _, err := s.store.GetMembership(ctx, userID, workspaceID); err == nil {
			if err := s.prefs.SetActiveWorkspace(ctx, userID, workspaceID); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return s.Directory(ctx, userID)
}

// CreateWorkspace inserts the workspace and the creator's owner membership.
// The two writes are not transactional; a failed membership insert deletes
// the orphaned workspace row before returning.
func (s *Service) CreateWorkspace(ctx context.Context, userID, name string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name must contain letters or digits", nil)
	}

	workspace := store.Workspace{
		ID:           util.NewID("ws"),
		Name:         name,
		Slug:         slug,
		PrimaryColor: defaultPrimaryColor,
		APIKey:       util.NewAPIKey(),
	}
	if err := s.store.InsertWorkspace(ctx, workspace); err != nil {
		return nil, err
	}

	membership := store.Membership{
		ID:          util.NewID("mem"),
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        string(rbac.RoleOwner),
	}
	if err := s.store.InsertMembership(ctx, membership); err != nil {
		_ = s.store.DeleteWorkspace(ctx, workspace.ID)
		return nil, err
	}

	if err := s.prefs.SetActiveWorkspace(ctx, userID, workspace.ID); err != nil {
		return nil, err
	}

	return workspaceSummary(store.WorkspaceWithRole{Workspace: workspace, Role: membership.Role}), nil
}

// WorkspaceSettings returns the settings view for members.
func (s *Service) WorkspaceSettings(ctx context.Context, userID, workspaceID string) (map[string]any, error) {
	if _, err := s.store.GetMembership(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	workspace, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":           workspace.ID,
		"name":         workspace.Name,
		"slug":         workspace.Slug,
		"logoUrl":      workspace.LogoURL,
		"primaryColor": workspace.PrimaryColor,
		"apiKey":       workspace.APIKey,
	}, nil
}

type UpdateSettingsInput struct {
	Name         string `json:"name"`
	PrimaryColor string `json:"primaryColor"`
}

// UpdateWorkspaceSettings changes name and brand color. The slug is fixed at
// creation; requests naming a slug are rejected at the HTTP layer.
func (s *Service) UpdateWorkspaceSettings(ctx context.Context, userID, workspaceID string, input UpdateSettingsInput) (map[string]any, error) {
	allowed, err := s.roleCan(ctx, userID, workspaceID, rbac.ActionManageSettings)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}

	workspace, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = workspace.Name
	}
	color := strings.TrimSpace(input.PrimaryColor)
	if color == "" {
		color = workspace.PrimaryColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "primaryColor must be a #rrggbb value", nil)
	}

	if err := s.store.UpdateWorkspaceSettings(ctx, workspaceID, name, color); err != nil {
		return nil, err
	}
	return s.WorkspaceSettings(ctx, userID, workspaceID)
}

func workspaceSummary(m store.WorkspaceWithRole) map[string]any {
	return map[string]any{
		"id":           m.ID,
		"name":         m.Name,
		"slug":         m.Slug,
		"logoUrl":      m.LogoURL,
		"primaryColor": m.PrimaryColor,
		"role":         m.Role,
	}
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
