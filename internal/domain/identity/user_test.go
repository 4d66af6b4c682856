package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_ApprovalLevel(t *testing.T) {
	tests := []struct {
		role  Role
		level int
	}{
		{RoleKasubbag, 1},
		{RoleKabag, 2},
		{RoleSekretaris, 3},
		{RoleStaff, 0},
		{RoleAdminGudang, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.level, tt.role.ApprovalLevel())
		})
	}
}

func TestRoleForApprovalLevel(t *testing.T) {
	r, ok := RoleForApprovalLevel(1)
	assert.True(t, ok)
	assert.Equal(t, RoleKasubbag, r)

	r, ok = RoleForApprovalLevel(3)
	assert.True(t, ok)
	assert.Equal(t, RoleSekretaris, r)

	_, ok = RoleForApprovalLevel(4)
	assert.False(t, ok)

	_, ok = RoleForApprovalLevel(0)
	assert.False(t, ok)
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleStaff.IsValid())
	assert.True(t, RoleAdminGudang.IsValid())
	assert.False(t, Role("manager").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestUser_HasPhone(t *testing.T) {
	u := &User{Phone: "+628123456789"}
	assert.True(t, u.HasPhone())

	u.Phone = ""
	assert.False(t, u.HasPhone())
}
