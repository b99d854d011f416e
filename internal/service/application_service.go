package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/events"
	"github.com/pawhaven/adoption-service/internal/repository"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// ApplicationService coordinates the adoption-application workflow.
type ApplicationService struct {
	applications repository.ApplicationRepository
	pets         repository.PetRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(applications repository.ApplicationRepository, pets repository.PetRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		pets:         pets,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// ApplicationInput is the questionnaire submitted with an application.
type ApplicationInput struct {
	PetID             string
	ApplicantInfo     domain.ApplicantInfo
	LivingSituation   domain.LivingSituation
	Experience        domain.Experience
	Household         domain.Household
	ReasonForAdoption string
	HoursAlonePerDay  int
	ActivityLevel     string
}

// Submit files an application for a pet. The listing moves to pending on the
// first application. One application per (applicant, pet) pair; the unique
// index backstops the pre-check.
func (s *ApplicationService) Submit(ctx context.Context, applicantID string, input ApplicationInput) (*domain.AdoptionApplication, error) {
	if err := validateApplication(input); err != nil {
		return nil, err
	}

	pet, err := s.pets.GetByID(ctx, input.PetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		return nil, err
	}
	if pet.OwnerID == applicantID {
		return nil, apperrors.NewConflict("you cannot apply to adopt your own pet", nil)
	}
	if !pet.Adoptable() {
		return nil, apperrors.NewConflict("pet is not accepting applications", nil)
	}

	if _, err := s.applications.GetByApplicantAndPet(ctx, applicantID, input.PetID); err == nil {
		return nil, apperrors.NewConflict("you have already applied for this pet", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	app := &domain.AdoptionApplication{
		PetID:             input.PetID,
		ApplicantID:       applicantID,
		PetOwnerID:        pet.OwnerID,
		Status:            domain.ApplicationPending,
		ApplicantInfo:     input.ApplicantInfo,
		LivingSituation:   input.LivingSituation,
		Experience:        input.Experience,
		Household:         input.Household,
		ReasonForAdoption: strings.TrimSpace(input.ReasonForAdoption),
		HoursAlonePerDay:  input.HoursAlonePerDay,
		ActivityLevel:     defaultString(input.ActivityLevel, "moderate"),
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, apperrors.NewConflict("you have already applied for this pet", nil)
		}
		return nil, err
	}

	if pet.Status == domain.PetStatusAvailable {
		if err := s.pets.UpdateStatus(ctx, pet.ID, domain.PetStatusPending); err != nil {
			s.logger.Warn("failed to move pet to pending", zap.String("pet_id", pet.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{
		Type:    events.EventApplicationSubmitted,
		PetID:   pet.ID,
		ActorID: applicantID,
		Payload: events.ApplicationSubmittedPayload{
			ApplicationID: app.ID,
			ApplicantID:   applicantID,
			PetOwnerID:    pet.OwnerID,
		},
	})
	return app, nil
}

// Review approves or rejects a pending application. Only the pet owner may
// review; reviewed_at is written exactly once, on the first decision.
func (s *ApplicationService) Review(ctx context.Context, reviewerID, applicationID string, approve bool, notes string) (*domain.AdoptionApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}
	if app.PetOwnerID != reviewerID {
		return nil, apperrors.NewForbidden("only the pet owner can review applications")
	}
	if app.Status != domain.ApplicationPending {
		return nil, apperrors.NewConflict("application has already been decided", nil)
	}

	if approve {
		app.Status = domain.ApplicationApproved
	} else {
		app.Status = domain.ApplicationRejected
	}
	if app.ReviewedAt == nil {
		now := time.Now()
		app.ReviewedAt = &now
	}
	app.ReviewedBy = &reviewerID
	app.ReviewNotes = strings.TrimSpace(notes)

	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}

	if !approve {
		s.restoreAvailability(ctx, app.PetID)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventApplicationReviewed,
		PetID:   app.PetID,
		ActorID: reviewerID,
		Payload: events.ApplicationReviewedPayload{
			ApplicationID: app.ID,
			NewStatus:     app.Status,
			ReviewerID:    reviewerID,
		},
	})
	return app, nil
}

// Withdraw lets the applicant retract a pending application.
func (s *ApplicationService) Withdraw(ctx context.Context, applicantID, applicationID string) (*domain.AdoptionApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, apperrors.NewForbidden("only the applicant can withdraw an application")
	}
	if app.Status != domain.ApplicationPending {
		return nil, apperrors.NewConflict("application is no longer pending", nil)
	}

	app.Status = domain.ApplicationWithdrawn
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}

	s.restoreAvailability(ctx, app.PetID)
	return app, nil
}

// ListMine returns the caller's submitted applications.
func (s *ApplicationService) ListMine(ctx context.Context, applicantID string) ([]domain.AdoptionApplication, error) {
	return s.applications.ListByApplicant(ctx, applicantID)
}

// ListReceived returns applications against the caller's listings.
func (s *ApplicationService) ListReceived(ctx context.Context, ownerID string) ([]domain.AdoptionApplication, error) {
	return s.applications.ListByOwner(ctx, ownerID)
}

// restoreAvailability moves a pending pet back to available once no pending
// applications remain. Failures are logged; the review itself already stands.
func (s *ApplicationService) restoreAvailability(ctx context.Context, petID string) {
	pending, err := s.applications.CountPendingForPet(ctx, petID)
	if err != nil {
		s.logger.Warn("failed to count pending applications", zap.String("pet_id", petID), zap.Error(err))
		return
	}
	if pending > 0 {
		return
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil || pet.Status != domain.PetStatusPending {
		return
	}
	if err := s.pets.UpdateStatus(ctx, petID, domain.PetStatusAvailable); err != nil {
		s.logger.Warn("failed to restore pet availability", zap.String("pet_id", petID), zap.Error(err))
	}
}

func (s *ApplicationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateApplication(input ApplicationInput) error {
	if input.PetID == "" {
		return apperrors.NewValidationError("pet id is required", nil)
	}
	if strings.TrimSpace(input.ApplicantInfo.FullName) == "" ||
		strings.TrimSpace(input.ApplicantInfo.Email) == "" ||
		strings.TrimSpace(input.ApplicantInfo.Phone) == "" {
		return apperrors.NewValidationError("applicant name, email and phone are required", nil)
	}
	if strings.TrimSpace(input.ReasonForAdoption) == "" {
		return apperrors.NewValidationError("reason for adoption is required", nil)
	}
	if input.Household.NumberOfAdults < 1 {
		return apperrors.NewValidationError("household must include at least one adult", nil)
	}
	if input.HoursAlonePerDay < 0 || input.HoursAlonePerDay > 24 {
		return apperrors.NewValidationError("hours alone per day must be between 0 and 24", nil)
	}
	return nil
}
