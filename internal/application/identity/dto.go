package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/identity"
	"github.com/caterflow/backend/internal/domain/shared"
	"github.com/caterflow/backend/internal/infrastructure/auth"
)

// LoginRequest carries username/password credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// ResetPasswordRequest sets a new password for another user. Admin only.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// CreateUserRequest creates a new account
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=100"`
	Password    string      `json:"password" binding:"required,min=8,max=128"`
	Email       string      `json:"email" binding:"omitempty,email"`
	DisplayName string      `json:"display_name" binding:"max=100"`
	Role        string      `json:"role" binding:"required,oneof=admin manager staff"`
	SiteIDs     []uuid.UUID `json:"site_ids"`
}

// UpdateUserRequest applies a partial update. The username is immutable.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// AssignSitesRequest replaces a user's site restrictions. An empty list
// grants access to all sites.
type AssignSitesRequest struct {
	SiteIDs []uuid.UUID `json:"site_ids"`
}

// UserListFilter holds query parameters for listing users
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Role     string `form:"role"`
	Status   string `form:"status"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	DisplayName string      `json:"display_name"`
	Role        string      `json:"role"`
	Status      string      `json:"status"`
	SiteIDs     []uuid.UUID `json:"site_ids"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// LoginResponse carries the token pair plus the authenticated user
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshResponse carries a fresh token pair
type RefreshResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(user *identity.User) *UserResponse {
	siteIDs := user.SiteIDs
	if siteIDs == nil {
		siteIDs = []uuid.UUID{}
	}
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.GetDisplayNameOrUsername(),
		Role:        user.Role.String(),
		Status:      string(user.Status),
		SiteIDs:     siteIDs,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// ToUserResponses converts a page of users
func ToUserResponses(page *shared.Paginated[*identity.User]) *shared.Paginated[*UserResponse] {
	items := make([]*UserResponse, len(page.Items))
	for i, user := range page.Items {
		items[i] = ToUserResponse(user)
	}
	return &shared.Paginated[*UserResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func toRefreshResponse(pair *auth.TokenPair) *RefreshResponse {
	return &RefreshResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
