package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pawhaven/adoption-service/internal/cache"
	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/events"
	"github.com/pawhaven/adoption-service/internal/repository"
	"github.com/pawhaven/adoption-service/internal/storage"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

// PetService orchestrates the listing lifecycle: the create and delete flows
// keep the pet row and the owner's pet_ids collection consistent through the
// repository's transactions; adoption is a single conditional update.
type PetService struct {
	pets       repository.PetRepository
	users      repository.UserRepository
	files      storage.FileStore
	listings   *cache.ListingCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PetDependencies bundles collaborators for the pet service.
type PetDependencies struct {
	PetRepo    repository.PetRepository
	UserRepo   repository.UserRepository
	FileStore  storage.FileStore
	Listings   *cache.ListingCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPetService constructs the service.
func NewPetService(deps PetDependencies) *PetService {
	return &PetService{
		pets:       deps.PetRepo,
		users:      deps.UserRepo,
		files:      deps.FileStore,
		listings:   deps.Listings,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// PetCreateInput describes a new listing. Photos are blob-store references
// already staged by the transport layer, so the file writes precede the
// database transaction.
type PetCreateInput struct {
	Name              string
	Species           domain.PetSpecies
	Breed             string
	Age               int
	Gender            string
	Size              string
	Color             string
	Description       string
	PersonalityTraits []string
	Photos            []string
	Location          domain.Location
}

// Create inserts the listing and appends it to the owner's pet_ids as one
// atomic unit. If the transaction fails, staged photo files are removed
// best-effort so an aborted create does not leak blobs.
func (s *PetService) Create(ctx context.Context, ownerID string, input PetCreateInput) (*domain.Pet, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, s.failCreate(input.Photos, apperrors.NewValidationError("name is required", nil))
	}
	if !domain.ValidSpecies(input.Species) {
		return nil, s.failCreate(input.Photos, apperrors.NewValidationError("invalid species", nil))
	}
	if input.Age < 0 || input.Age > 30 {
		return nil, s.failCreate(input.Photos, apperrors.NewValidationError("age must be between 0 and 30", nil))
	}
	if len(input.Photos) > domain.MaxPetPhotos {
		return nil, s.failCreate(input.Photos, apperrors.NewValidationError("cannot upload more than 10 photos", nil))
	}

	// Defensive: a valid token can outlive its account.
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.failCreate(input.Photos, apperrors.NewNotFound("owner", nil))
		}
		return nil, s.failCreate(input.Photos, err)
	}

	pet := &domain.Pet{
		Name:              strings.TrimSpace(input.Name),
		Species:           input.Species,
		Breed:             strings.TrimSpace(input.Breed),
		Age:               input.Age,
		Gender:            defaultString(input.Gender, "unknown"),
		Size:              defaultString(input.Size, "medium"),
		Color:             strings.TrimSpace(input.Color),
		Description:       strings.TrimSpace(input.Description),
		PersonalityTraits: input.PersonalityTraits,
		Photos:            input.Photos,
		Status:            domain.PetStatusAvailable,
		OwnerID:           ownerID,
		Location:          input.Location,
	}

	if err := s.pets.CreateWithOwner(ctx, pet); err != nil {
		return nil, s.failCreate(input.Photos,
			apperrors.NewPersistenceError("creating pet failed, please try again", err))
	}

	s.listings.Invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventPetCreated,
		PetID:   pet.ID,
		ActorID: ownerID,
		Payload: events.PetCreatedPayload{OwnerID: ownerID, Name: pet.Name, Species: pet.Species},
	})
	return pet, nil
}

// Adopt marks the listing adopted by the requester. The status check and the
// write are one conditional update, so concurrent adopters cannot both win.
func (s *PetService) Adopt(ctx context.Context, requesterID, petID string) (*domain.Pet, error) {
	pet, err := s.pets.MarkAdopted(ctx, petID, requesterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		if errors.Is(err, repository.ErrNotAdoptable) {
			return nil, apperrors.NewConflict("pet already adopted", nil)
		}
		return nil, err
	}

	s.listings.Invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventPetAdopted,
		PetID:   pet.ID,
		ActorID: requesterID,
		Payload: events.PetAdoptedPayload{OwnerID: pet.OwnerID, AdopterID: requesterID},
	})
	return pet, nil
}

// Delete removes the listing and its id from the owner's pet_ids atomically.
// Photo files are deleted only after the transaction commits; a cleanup
// failure is logged, never propagated, because a committed deletion must not
// be rolled back for storage hygiene.
func (s *PetService) Delete(ctx context.Context, requesterID, petID string) error {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("pet", nil)
		}
		return err
	}
	if pet.OwnerID != requesterID {
		return apperrors.NewForbidden("you can't delete pets you don't own")
	}

	if err := s.pets.DeleteWithOwner(ctx, pet); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("pet", nil)
		}
		return apperrors.NewPersistenceError("deleting pet failed, please try again", err)
	}

	for _, photo := range pet.Photos {
		if err := s.files.Delete(photo); err != nil {
			s.logger.Warn("failed to delete pet photo", zap.String("ref", photo), zap.Error(err))
		}
	}

	s.listings.Invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventPetDeleted,
		PetID:   pet.ID,
		ActorID: requesterID,
		Payload: events.PetDeletedPayload{OwnerID: pet.OwnerID, PhotoCount: len(pet.Photos)},
	})
	return nil
}

// List returns all listings, newest first, through the feed cache.
func (s *PetService) List(ctx context.Context) ([]domain.Pet, error) {
	if cached := s.listings.Get(ctx); cached != nil {
		return cached, nil
	}
	pets, err := s.pets.List(ctx)
	if err != nil {
		return nil, err
	}
	s.listings.Set(ctx, pets)
	return pets, nil
}

// Get returns one listing and bumps its view counter.
func (s *PetService) Get(ctx context.Context, petID string) (*domain.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		return nil, err
	}
	if err := s.pets.IncrementViews(ctx, pet.ID); err != nil {
		s.logger.Warn("failed to increment views", zap.String("pet_id", pet.ID), zap.Error(err))
	}
	return pet, nil
}

// ListByOwner returns one user's listings, newest first.
func (s *PetService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	return s.pets.ListByOwner(ctx, ownerID)
}

// failCreate removes staged photo files before returning the create error.
func (s *PetService) failCreate(photos []string, err error) error {
	for _, photo := range photos {
		if delErr := s.files.Delete(photo); delErr != nil {
			s.logger.Warn("failed to clean up staged photo", zap.String("ref", photo), zap.Error(delErr))
		}
	}
	return err
}

func (s *PetService) publish(ctx context.Context, event events.Event) {
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

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
