package user

type Permission string

const (
	// KPI
	PermissionKPIView        Permission = "kpi.view"
	PermissionKPIRecalculate Permission = "kpi.recalculate"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionKPIView,
		PermissionKPIRecalculate,
	},
	RoleManager: {
		PermissionKPIView,
	},
	RoleEmployee: {},
	RolePending:  {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
