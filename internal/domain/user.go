package domain

import "time"

// UserRole distinguishes regular adopters from shelters and admins.
type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleShelter UserRole = "shelter"
	RoleAdmin   UserRole = "admin"
)

// Address is the optional mailing address embedded in a user profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is the domain model for marketplace accounts.
//
// PetIDs mirrors the set of pets whose OwnerID equals this user's ID. It is
// written only by the pet lifecycle service, inside the same transaction as
// the pet row itself.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Phone        string
	Bio          string
	Avatar       *string
	Address      Address
	IsActive     bool
	PetIDs       []string
	FavoriteIDs  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the projection exposed on read paths. Password material is
// never part of it.
type PublicProfile struct {
	ID     string
	Name   string
	Email  string
	Avatar *string
	Bio    string
	Role   UserRole
}

// Public derives the read-model projection for this user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Bio:    u.Bio,
		Role:   u.Role,
	}
}

// HasFavorite reports whether petID is already in the favorites set.
func (u *User) HasFavorite(petID string) bool {
	for _, id := range u.FavoriteIDs {
		if id == petID {
			return true
		}
	}
	return false
}

// OwnsPet reports whether petID is in the owned-listings set.
func (u *User) OwnsPet(petID string) bool {
	for _, id := range u.PetIDs {
		if id == petID {
			return true
		}
	}
	return false
}
