package rbac

type Role string
type Action string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

const (
	ActionView           Action = "view"
	ActionUpload         Action = "upload"
	ActionExport         Action = "export"
	ActionManageSettings Action = "manage_settings"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleAdmin:
		return action == ActionView || action == ActionUpload || action == ActionExport || action == ActionManageSettings
	case RoleMember:
		return action == ActionView || action == ActionUpload || action == ActionExport
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleMember, RoleAdmin, RoleOwner:
		return Role(role)
	default:
		return RoleMember
	}
}
