package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pawhaven/adoption-service/internal/api/dto"
	"github.com/pawhaven/adoption-service/internal/auth"
	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/service"
	"github.com/pawhaven/adoption-service/internal/storage"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// PetsHandler exposes the pet listing endpoints.
type PetsHandler struct {
	pets  *service.PetService
	files storage.FileStore
}

// NewPetsHandler constructs handler.
func NewPetsHandler(petService *service.PetService, files storage.FileStore) *PetsHandler {
	return &PetsHandler{pets: petService, files: files}
}

// Create handles POST /api/pets. Photos arrive as multipart files under the
// "photos" field; they are staged to the blob store first, and the service
// cleans them up if the database write fails.
func (h *PetsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var req dto.CreatePetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	photos, err := h.stagePhotos(c)
	if err != nil {
		return err
	}

	pet, err := h.pets.Create(c.Context(), principal.UserID, service.PetCreateInput{
		Name:              req.Name,
		Species:           domain.PetSpecies(strings.ToLower(strings.TrimSpace(req.Species))),
		Breed:             req.Breed,
		Age:               req.Age,
		Gender:            req.Gender,
		Size:              req.Size,
		Color:             req.Color,
		Description:       req.Description,
		PersonalityTraits: splitTraits(c.FormValue("personalityTraits")),
		Photos:            photos,
		Location: domain.Location{
			City:    req.City,
			State:   req.State,
			Country: req.Country,
		},
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"pet": dto.NewPetResponse(pet)})
}

// List handles GET /api/pets.
func (h *PetsHandler) List(c *fiber.Ctx) error {
	pets, err := h.pets.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pets": dto.NewPetResponses(pets)})
}

// Get handles GET /api/pets/:petId.
func (h *PetsHandler) Get(c *fiber.Ctx) error {
	pet, err := h.pets.Get(c.Context(), c.Params("petId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pet": dto.NewPetResponse(pet)})
}

// ListByUser handles GET /api/pets/user/:userId.
func (h *PetsHandler) ListByUser(c *fiber.Ctx) error {
	pets, err := h.pets.ListByOwner(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pets": dto.NewPetResponses(pets)})
}

// Adopt handles PUT /api/pets/:petId/adopt.
func (h *PetsHandler) Adopt(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	pet, err := h.pets.Adopt(c.Context(), principal.UserID, c.Params("petId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "congratulations on your new family member",
		"pet":     dto.NewPetResponse(pet),
	})
}

// Delete handles DELETE /api/pets/:petId.
func (h *PetsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if err := h.pets.Delete(c.Context(), principal.UserID, c.Params("petId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "pet deleted successfully"})
}

// stagePhotos writes the uploaded photo files to the blob store and returns
// their references. On any failure the already-staged files are removed.
func (h *PetsHandler) stagePhotos(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["photos"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > domain.MaxPetPhotos {
		return nil, apperrors.NewValidationError("cannot upload more than 10 photos", nil)
	}

	refs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := h.putPhoto(file)
		if err != nil {
			for _, staged := range refs {
				_ = h.files.Delete(staged)
			}
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *PetsHandler) putPhoto(file *multipart.FileHeader) (string, error) {
	ref, err := h.files.Put(storage.PetPhotoDir, file)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}
	return ref, nil
}

// splitTraits parses the comma-separated personalityTraits form field.
func splitTraits(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	traits := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			traits = append(traits, trimmed)
		}
	}
	return traits
}
