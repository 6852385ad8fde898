package domain

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
)

// DefaultRole is assigned to users created without an explicit role.
const DefaultRole = RoleEditor

// Roles lists every role in descending order of privilege.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor}

// AdminRoles may manage other users and read their activity.
var AdminRoles = []Role{RoleSuperAdmin, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// Label is the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Admin"
	case RoleEditor:
		return "Editor"
	}
	return string(r)
}
