package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateBoardRequest represents the request to create a new board
// @Description Request body for creating a board. The caller becomes its OWNER.
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255" example:"Platform Team"`
}

// AddMemberRequest represents the request to add or re-role a board member
// @Description role is one of OWNER, ADMIN, MEMBER, VIEWER
type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	Role   string    `json:"role" binding:"required,oneof=OWNER ADMIN MEMBER VIEWER" example:"MEMBER"`
}

// BoardMemberResponse represents a board member
type BoardMemberResponse struct {
	UserID uuid.UUID `json:"userId" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	Role   string    `json:"role" example:"MEMBER"`
}

// BoardResponse represents the board response
type BoardResponse struct {
	ID        uuid.UUID             `json:"boardId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Name      string                `json:"name" example:"Platform Team"`
	OwnerID   uuid.UUID             `json:"ownerId" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	Members   []BoardMemberResponse `json:"members"`
	CreatedAt time.Time             `json:"createdAt" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time             `json:"updatedAt" example:"2024-01-15T14:20:00Z"`
}
