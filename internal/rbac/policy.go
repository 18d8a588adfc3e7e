package rbac

import "strings"

// rolePermissions is the static authorization policy. Roles are not
// user-editable; the application ships with a fixed set of role tags.
var rolePermissions = map[Role][]string{
	RoleAdmin: AllPermissions(),
	RoleSales: {
		PermQuotationsView,
		PermQuotationsEdit,
		PermBookingsView,
		PermBookingsEdit,
		PermRatesView,
		PermSchedulesView,
		PermPortsView,
		PermDashboardView,
	},
	RoleOperations: {
		PermQuotationsView,
		PermBookingsView,
		PermRatesView,
		PermRatesEdit,
		PermSchedulesView,
		PermSchedulesEdit,
		PermPortsView,
		PermDashboardView,
	},
	RoleViewer: {
		PermQuotationsView,
		PermBookingsView,
		PermRatesView,
		PermSchedulesView,
		PermPortsView,
		PermDashboardView,
	},
}

// CanPerform reports whether the role holds the named permission.
// It is the single authorization decision point for the application.
func CanPerform(role Role, perm string) bool {
	perm = strings.ToLower(strings.TrimSpace(perm))
	for _, granted := range rolePermissions[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the permission set granted to a role.
func PermissionsFor(role Role) []string {
	granted := rolePermissions[role]
	out := make([]string, len(granted))
	copy(out, granted)
	return out
}

// ValidRole reports whether the tag names a known role.
func ValidRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}
