package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pawhaven/adoption-service/internal/api/dto"
	"github.com/pawhaven/adoption-service/internal/auth"
	"github.com/pawhaven/adoption-service/internal/service"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// ApplicationsHandler exposes the adoption-application endpoints.
type ApplicationsHandler struct {
	applications *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applicationService}
}

// Submit handles POST /api/applications.
func (h *ApplicationsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	app, err := h.applications.Submit(c.Context(), principal.UserID, service.ApplicationInput{
		PetID:             req.PetID,
		ApplicantInfo:     req.ApplicantInfo,
		LivingSituation:   req.LivingSituation,
		Experience:        req.Experience,
		Household:         req.Household,
		ReasonForAdoption: req.ReasonForAdoption,
		HoursAlonePerDay:  req.HoursAlonePerDay,
		ActivityLevel:     req.ActivityLevel,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"application": dto.NewApplicationResponse(app)})
}

// ListMine handles GET /api/applications/mine.
func (h *ApplicationsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	apps, err := h.applications.ListMine(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"applications": dto.NewApplicationResponses(apps)})
}

// ListReceived handles GET /api/applications/received.
func (h *ApplicationsHandler) ListReceived(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	apps, err := h.applications.ListReceived(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"applications": dto.NewApplicationResponses(apps)})
}

// Review handles PATCH /api/applications/:applicationId/review.
func (h *ApplicationsHandler) Review(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	app, err := h.applications.Review(c.Context(), principal.UserID, c.Params("applicationId"), req.Approve, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"application": dto.NewApplicationResponse(app)})
}

// Withdraw handles POST /api/applications/:applicationId/withdraw.
func (h *ApplicationsHandler) Withdraw(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	app, err := h.applications.Withdraw(c.Context(), principal.UserID, c.Params("applicationId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "application withdrawn",
		"application": dto.NewApplicationResponse(app),
	})
}
