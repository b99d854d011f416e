package dto

import (
	"github.com/pawhaven/adoption-service/internal/domain"
)

// SignupRequest payload for new accounts. Sent as multipart form fields so an
// avatar file can accompany it.
type SignupRequest struct {
	Name     string          `json:"name" form:"name"`
	Email    string          `json:"email" form:"email"`
	Password string          `json:"password" form:"password"`
	Phone    string          `json:"phone" form:"phone"`
	Role     domain.UserRole `json:"role" form:"role"`
	Street   string          `json:"street" form:"street"`
	City     string          `json:"city" form:"city"`
	State    string          `json:"state" form:"state"`
	ZipCode  string          `json:"zipCode" form:"zipCode"`
	Country  string          `json:"country" form:"country"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries optional profile fields; absent fields are
// never cleared.
type UpdateProfileRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Bio     string          `json:"bio"`
	Avatar  *string         `json:"avatar"`
	Address *domain.Address `json:"address"`
}

// AuthResponse is returned from signup and login.
type AuthResponse struct {
	UserID string          `json:"userId"`
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Role   domain.UserRole `json:"role"`
	Avatar *string         `json:"avatar,omitempty"`
	Token  string          `json:"token"`
}

// UserResponse is the public account projection. Derived counts are computed
// here at serialization time, never stored.
type UserResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Avatar        *string         `json:"avatar"`
	Bio           string          `json:"bio,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Role          domain.UserRole `json:"role"`
	Address       *domain.Address `json:"address,omitempty"`
	PetCount      int             `json:"petCount"`
	FavoriteCount int             `json:"favoriteCount"`
	Pets          []PetResponse   `json:"pets,omitempty"`
	Favorites     []PetResponse   `json:"favoritePets,omitempty"`
}

// NewUserResponse builds the projection for one user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Avatar:        user.Avatar,
		Bio:           user.Bio,
		Phone:         user.Phone,
		Role:          user.Role,
		PetCount:      len(user.PetIDs),
		FavoriteCount: len(user.FavoriteIDs),
	}
}
