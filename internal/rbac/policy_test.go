package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPerformMatrix(t *testing.T) {
	tests := []struct {
		role Role
		perm string
		want bool
	}{
		{RoleAdmin, PermQuotationsEdit, true},
		{RoleAdmin, PermRatesEdit, true},
		{RoleSales, PermQuotationsEdit, true},
		{RoleSales, PermBookingsEdit, true},
		{RoleSales, PermRatesEdit, false},
		{RoleSales, PermSchedulesEdit, false},
		{RoleOperations, PermRatesEdit, true},
		{RoleOperations, PermSchedulesEdit, true},
		{RoleOperations, PermQuotationsEdit, false},
		{RoleOperations, PermBookingsEdit, false},
		{RoleViewer, PermQuotationsView, true},
		{RoleViewer, PermQuotationsEdit, false},
		{RoleViewer, PermBookingsEdit, false},
		{Role("intern"), PermQuotationsView, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.role)+"/"+tc.perm, func(t *testing.T) {
			assert.Equal(t, tc.want, CanPerform(tc.role, tc.perm))
		})
	}
}

func TestCanPerformNormalizesInput(t *testing.T) {
	assert.True(t, CanPerform(RoleSales, "  Quotations.Edit "))
	assert.False(t, CanPerform(RoleSales, ""))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleViewer)
	assert.NotEmpty(t, perms)
	perms[0] = "tampered"
	assert.True(t, CanPerform(RoleViewer, PermissionsFor(RoleViewer)[0]))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleOperations))
	assert.False(t, ValidRole(Role("superuser")))
	assert.False(t, ValidRole(Role("")))
}
