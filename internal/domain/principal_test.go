package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdministrator},
		{"Administrator", RoleAdministrator},
		{" supervisor ", RoleSupervisor},
		{"pg", RoleTrainee},
		{"trainee", RoleTrainee},
		{"", RoleOther},
		{"nurse", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestPrincipalRoles(t *testing.T) {
	admin := NewPrincipal(1, RoleAdministrator)
	assert.True(t, admin.IsAdministrator())
	assert.False(t, admin.IsSupervisor())
	assert.False(t, admin.IsTrainee())

	sup := NewPrincipal(2, RoleSupervisor)
	assert.False(t, sup.IsAdministrator())
	assert.True(t, sup.IsSupervisor())

	pg := NewPrincipal(3, RoleTrainee)
	assert.True(t, pg.IsTrainee())
	assert.False(t, pg.IsSupervisor())

	// superuser flag wins over the stored role
	su := Principal{ID: 4, Role: RoleTrainee, Superuser: true}
	assert.True(t, su.IsAdministrator())
	assert.False(t, su.IsTrainee())

	other := NewPrincipal(5, RoleOther)
	assert.False(t, other.IsAdministrator())
	assert.False(t, other.IsSupervisor())
	assert.False(t, other.IsTrainee())
}

func TestPrincipalString(t *testing.T) {
	assert.Equal(t, "#7(pg)", NewPrincipal(7, RoleTrainee).String())
	assert.Equal(t, "sup#2(supervisor)", Principal{ID: 2, Username: "sup", Role: RoleSupervisor}.String())
}

func TestValidatePrincipal(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid principal",
			principal: Principal{ID: 1, Role: RoleTrainee},
		},
		{
			name:      "missing ID",
			principal: Principal{Role: RoleTrainee},
			wantErr:   true,
			errMsg:    "ID",
		},
		{
			name:      "missing Role",
			principal: Principal{ID: 1},
			wantErr:   true,
			errMsg:    "Role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrincipal(tt.principal)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRoleDisplay(t *testing.T) {
	assert.Equal(t, "Admin", RoleAdministrator.Display())
	assert.Equal(t, "Supervisor", RoleSupervisor.Display())
	assert.Equal(t, "Postgraduate", RoleTrainee.Display())
	assert.Equal(t, "Other", Role("nurse").Display())
}
