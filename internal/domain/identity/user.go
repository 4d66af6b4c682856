package identity

import (
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do in the approval chain
type Role string

const (
	// RoleStaff can create supply requests and confirm receipt
	RoleStaff Role = "staff"
	// RoleKasubbag approves ATK requests at level 1
	RoleKasubbag Role = "kasubbag"
	// RoleKabag approves ATK requests at level 2
	RoleKabag Role = "kabag"
	// RoleSekretaris approves ATK requests at level 3
	RoleSekretaris Role = "sekretaris"
	// RoleAdminGudang manages stock, distributes approved requests and
	// approves office-supply requests
	RoleAdminGudang Role = "admin_gudang"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleKasubbag, RoleKabag, RoleSekretaris, RoleAdminGudang:
		return true
	}
	return false
}

// ApprovalLevel returns the ATK approval level this role may sign off,
// or 0 if the role is not an approver
func (r Role) ApprovalLevel() int {
	switch r {
	case RoleKasubbag:
		return 1
	case RoleKabag:
		return 2
	case RoleSekretaris:
		return 3
	}
	return 0
}

// RoleForApprovalLevel returns the role responsible for an ATK approval level
func RoleForApprovalLevel(level int) (Role, bool) {
	switch level {
	case 1:
		return RoleKasubbag, true
	case 2:
		return RoleKabag, true
	case 3:
		return RoleSekretaris, true
	}
	return "", false
}

// Department is an organizational unit a request is filed under
type Department struct {
	shared.BaseEntity
	Name string `gorm:"size:120;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// User represents an account known to the inventory system.
// Authentication lives outside this service; the user record exists so
// workflows can reference requesters/approvers and the notification
// subsystem can look up phone numbers.
type User struct {
	shared.BaseEntity
	Name         string     `gorm:"size:120;not null"`
	Email        string     `gorm:"size:160;uniqueIndex"`
	Phone        string     `gorm:"size:32"` // WhatsApp number, may be empty
	Role         Role       `gorm:"size:32;not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// HasPhone returns true if the user has a WhatsApp number on file
func (u *User) HasPhone() bool {
	return u.Phone != ""
}
