package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/repository"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// UserService manages profiles and the favorites set.
type UserService struct {
	users repository.UserRepository
	pets  repository.PetRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, pets repository.PetRepository) *UserService {
	return &UserService{users: users, pets: pets}
}

// Profile bundles a user with resolved pet projections for detail reads.
type Profile struct {
	User      *domain.User
	Pets      []domain.Pet
	Favorites []domain.Pet
}

// ListUsers returns all active accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListActive(ctx)
}

// GetUser returns one user with their listings resolved.
func (s *UserService) GetUser(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	pets, err := s.pets.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Pets: pets}, nil
}

// GetProfile returns the caller's own profile with listings and favorites.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.pets.ListByIDs(ctx, profile.User.FavoriteIDs)
	if err != nil {
		return nil, err
	}
	profile.Favorites = favorites
	return profile, nil
}

// ProfileUpdate carries the fields a user may change. Nil or empty fields are
// left untouched; nothing is ever cleared by omission.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Bio     string
	Avatar  *string
	Address *domain.Address
}

// UpdateProfile shallow-merges the provided fields into the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if v := strings.TrimSpace(update.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(update.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(update.Bio); v != "" {
		user.Bio = v
	}
	if update.Avatar != nil {
		user.Avatar = update.Avatar
	}
	if update.Address != nil {
		mergeAddress(&user.Address, update.Address)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddFavorite bookmarks a pet. Duplicates are rejected.
func (s *UserService) AddFavorite(ctx context.Context, userID, petID string) ([]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.HasFavorite(petID) {
		return nil, apperrors.NewConflict("pet already in favorites", nil)
	}
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		return nil, err
	}

	user.FavoriteIDs = append(user.FavoriteIDs, petID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.FavoriteIDs, nil
}

// RemoveFavorite drops a pet from the favorites set. Removing an id that is
// not present is a no-op, not an error.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, petID string) ([]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	kept := user.FavoriteIDs[:0]
	for _, id := range user.FavoriteIDs {
		if id != petID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(user.FavoriteIDs) {
		return user.FavoriteIDs, nil
	}

	user.FavoriteIDs = kept
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.FavoriteIDs, nil
}

// ListFavorites resolves the favorites set into pet projections.
func (s *UserService) ListFavorites(ctx context.Context, userID string) ([]domain.Pet, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return s.pets.ListByIDs(ctx, user.FavoriteIDs)
}

func mergeAddress(dst, src *domain.Address) {
	if src.Street != "" {
		dst.Street = src.Street
	}
	if src.City != "" {
		dst.City = src.City
	}
	if src.State != "" {
		dst.State = src.State
	}
	if src.ZipCode != "" {
		dst.ZipCode = src.ZipCode
	}
	if src.Country != "" {
		dst.Country = src.Country
	}
}
