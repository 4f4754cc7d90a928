package domain

import "github.com/google/uuid"

// Permission names checked before sensitive operations
const (
	PermissionEpicManage   = "epic.manage"
	PermissionSprintManage = "sprint.manage"
	PermissionItemEdit     = "item.edit"
	PermissionBoardView    = "board.view"
)

// Role is a board member's role
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

var rolePermissions = map[Role][]string{
	RoleOwner:  {PermissionBoardView, PermissionEpicManage, PermissionSprintManage, PermissionItemEdit},
	RoleAdmin:  {PermissionBoardView, PermissionEpicManage, PermissionSprintManage, PermissionItemEdit},
	RoleMember: {PermissionBoardView, PermissionItemEdit},
	RoleViewer: {PermissionBoardView},
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Can reports whether the role grants permission
func (r Role) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// Board owns the work item, epic and sprint collections
type Board struct {
	BaseModel
	Name    string        `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID uuid.UUID     `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"owner_id"`
	Members []BoardMember `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// BoardMember grants a user a role on a board
type BoardMember struct {
	BaseModel
	BoardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_board_members_board_user" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_board_members_board_user;index:idx_board_members_user_id" json:"user_id"`
	Role    Role      `gorm:"type:varchar(20);not null" json:"role"`
}

// TableName specifies the table name for BoardMember
func (BoardMember) TableName() string {
	return "board_members"
}
