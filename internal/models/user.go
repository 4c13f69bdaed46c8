package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Actions checked by HasPermission.
const (
	ActionManageListings  = "manage_listings"
	ActionManageBanners   = "manage_banners"
	ActionManageContent   = "manage_content"
	ActionManageReference = "manage_reference"
	ActionViewMessages    = "view_messages"
	ActionManageMessages  = "manage_messages"
)

// User represents a back-office user in the system
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Role       Role               `bson:"role" json:"role"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
	Timestamps `bson:",inline"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return action != ActionManageReference
	case RoleOperator:
		return action == ActionManageListings || action == ActionManageBanners ||
			action == ActionViewMessages || action == ActionManageMessages
	case RoleViewer:
		return action == ActionViewMessages
	default:
		return false
	}
}
