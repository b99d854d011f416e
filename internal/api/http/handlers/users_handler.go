package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pawhaven/adoption-service/internal/api/dto"
	"github.com/pawhaven/adoption-service/internal/auth"
	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/service"
	"github.com/pawhaven/adoption-service/internal/storage"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// UsersHandler exposes account, profile and favorites endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
	files storage.FileStore
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService, files storage.FileStore) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService, files: files}
}

// Signup handles POST /api/users/signup. Multipart so an avatar file can ride
// along; the avatar is stored before the account is persisted.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var avatar *string
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		ref, err := h.files.Put(storage.AvatarDir, file)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		avatar = &ref
	}

	user, token, _, err := h.auth.Signup(c.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
		Address: domain.Address{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
			Country: req.Country,
		},
		Avatar: avatar,
	})
	if err != nil {
		if avatar != nil {
			_ = h.files.Delete(*avatar)
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Token:  token,
	})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Avatar: user.Avatar,
		Token:  token,
	})
}

// ListUsers handles GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": items})
}

// GetUser handles GET /api/users/:userId.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	profile, err := h.users.GetUser(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	resp := dto.NewUserResponse(profile.User)
	resp.Pets = dto.NewPetResponses(profile.Pets)
	return c.JSON(fiber.Map{"user": resp})
}

// GetMyProfile handles GET /api/users/profile/me.
func (h *UsersHandler) GetMyProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	profile, err := h.users.GetProfile(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	resp := dto.NewUserResponse(profile.User)
	resp.Pets = dto.NewPetResponses(profile.Pets)
	resp.Favorites = dto.NewPetResponses(profile.Favorites)
	resp.Address = &profile.User.Address
	return c.JSON(fiber.Map{"user": resp})
}

// UpdateProfile handles PATCH /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.UpdateProfile(c.Context(), principal.UserID, service.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Bio:     req.Bio,
		Avatar:  req.Avatar,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	resp := dto.NewUserResponse(user)
	resp.Address = &user.Address
	return c.JSON(fiber.Map{"user": resp})
}

// AddFavorite handles POST /api/users/favorites/:petId.
func (h *UsersHandler) AddFavorite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	favorites, err := h.users.AddFavorite(c.Context(), principal.UserID, c.Params("petId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":      "pet added to favorites",
		"favoritePets": favorites,
	})
}

// RemoveFavorite handles DELETE /api/users/favorites/:petId.
func (h *UsersHandler) RemoveFavorite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	favorites, err := h.users.RemoveFavorite(c.Context(), principal.UserID, c.Params("petId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":      "pet removed from favorites",
		"favoritePets": favorites,
	})
}

// ListFavorites handles GET /api/users/favorites/list.
func (h *UsersHandler) ListFavorites(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	favorites, err := h.users.ListFavorites(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"favorites": dto.NewPetResponses(favorites)})
}
