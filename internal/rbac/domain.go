package rbac

// Role is a static role tag attached to a user account at seed time.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSales      Role = "sales"
	RoleOperations Role = "operations"
	RoleViewer     Role = "viewer"
)

// Permissions for the freight desk areas.
const (
	PermQuotationsView = "quotations.view"
	PermQuotationsEdit = "quotations.edit"

	PermBookingsView = "bookings.view"
	PermBookingsEdit = "bookings.edit"

	PermRatesView = "rates.view"
	PermRatesEdit = "rates.edit"

	PermSchedulesView = "schedules.view"
	PermSchedulesEdit = "schedules.edit"

	PermPortsView = "ports.view"

	PermDashboardView = "dashboard.view"
)

// AllPermissions lists every known permission.
func AllPermissions() []string {
	return []string{
		PermQuotationsView,
		PermQuotationsEdit,
		PermBookingsView,
		PermBookingsEdit,
		PermRatesView,
		PermRatesEdit,
		PermSchedulesView,
		PermSchedulesEdit,
		PermPortsView,
		PermDashboardView,
	}
}
