package user

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionKPIView, true},
		{RoleOwner, PermissionKPIRecalculate, true},
		{RoleManager, PermissionKPIView, true},
		{RoleManager, PermissionKPIRecalculate, false},
		{RoleEmployee, PermissionKPIView, false},
		{RolePending, PermissionKPIView, false},
		{Role("admin"), PermissionKPIView, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.permission); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}
