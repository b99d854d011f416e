package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawhaven/adoption-service/internal/cache"
	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/events"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

type petFixture struct {
	svc   *PetService
	users *fakeUserRepo
	pets  *fakePetRepo
	files *fakeFileStore
}

func newPetFixture() *petFixture {
	users := newFakeUserRepo()
	pets := newFakePetRepo(users)
	files := &fakeFileStore{}
	svc := NewPetService(PetDependencies{
		PetRepo:    pets,
		UserRepo:   users,
		FileStore:  files,
		Listings:   cache.NewListingCache(nil, 0, zap.NewNop()),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	return &petFixture{svc: svc, users: users, pets: pets, files: files}
}

func validCreateInput() PetCreateInput {
	return PetCreateInput{
		Name:    "Biscuit",
		Species: domain.SpeciesDog,
		Age:     3,
		Photos:  []string{"/uploads/pets/a.jpeg", "/uploads/pets/b.jpeg"},
	}
}

// Creating a listing must leave the pet row and the owner's pet_ids pointing
// at each other.
func TestCreateLinksPetAndOwner(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})

	pet, err := fx.svc.Create(context.Background(), owner.ID, validCreateInput())
	require.NoError(t, err)
	require.NotEmpty(t, pet.ID)
	assert.Equal(t, domain.PetStatusAvailable, pet.Status)
	assert.Equal(t, owner.ID, pet.OwnerID)

	stored := fx.users.users[owner.ID]
	assert.Contains(t, stored.PetIDs, pet.ID)
	assert.Empty(t, fx.files.deleted)
}

func TestCreateValidationCleansUpStagedPhotos(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})

	input := validCreateInput()
	input.Species = "dinosaur"

	_, err := fx.svc.Create(context.Background(), owner.ID, input)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, input.Photos, fx.files.deleted)
}

func TestCreateRejectsTooManyPhotos(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})

	input := validCreateInput()
	input.Photos = make([]string, domain.MaxPetPhotos+1)
	for i := range input.Photos {
		input.Photos[i] = "/uploads/pets/extra.jpeg"
	}

	_, err := fx.svc.Create(context.Background(), owner.ID, input)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.ToDomainError(err).HTTPStatus)
}

// A transaction failure must leave no trace: no pet row, no pet_ids entry, no
// staged files.
func TestCreateRollbackLeavesNoPartialState(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	fx.pets.createErr = errors.New("constraint violated")

	input := validCreateInput()
	_, err := fx.svc.Create(context.Background(), owner.ID, input)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 500, domainErr.HTTPStatus)
	assert.Equal(t, "creating pet failed, please try again", domainErr.Message)

	assert.Empty(t, fx.pets.pets)
	assert.Empty(t, fx.users.users[owner.ID].PetIDs)
	assert.Equal(t, input.Photos, fx.files.deleted)
}

func TestCreateUnknownOwner(t *testing.T) {
	fx := newPetFixture()

	_, err := fx.svc.Create(context.Background(), "user-missing", validCreateInput())
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDeleteRemovesPetAndOwnerLink(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	pet := fx.pets.seed(&domain.Pet{
		Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable,
		Photos: []string{"/uploads/pets/a.jpeg"},
	})

	err := fx.svc.Delete(context.Background(), owner.ID, pet.ID)
	require.NoError(t, err)

	assert.NotContains(t, fx.pets.pets, pet.ID)
	assert.Empty(t, fx.users.users[owner.ID].PetIDs)
	assert.Equal(t, []string{"/uploads/pets/a.jpeg"}, fx.files.deleted)
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	stranger := fx.users.seed(&domain.User{Name: "Stranger", Email: "stranger@example.com", IsActive: true})
	pet := fx.pets.seed(&domain.Pet{Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable})

	err := fx.svc.Delete(context.Background(), stranger.ID, pet.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	// Nothing changed.
	assert.Contains(t, fx.pets.pets, pet.ID)
	assert.Contains(t, fx.users.users[owner.ID].PetIDs, pet.ID)
	assert.Empty(t, fx.files.deleted)
}

func TestDeleteUnknownPet(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})

	err := fx.svc.Delete(context.Background(), owner.ID, "pet-missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestAdoptMarksPetAdopted(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	adopter := fx.users.seed(&domain.User{Name: "Adopter", Email: "adopter@example.com", IsActive: true})
	pet := fx.pets.seed(&domain.Pet{Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable})

	adopted, err := fx.svc.Adopt(context.Background(), adopter.ID, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PetStatusAdopted, adopted.Status)
	require.NotNil(t, adopted.AdopterID)
	assert.Equal(t, adopter.ID, *adopted.AdopterID)
	assert.NotNil(t, adopted.AdoptedAt)
}

// Adoption is one way: a second adopter gets a conflict and the original
// adoption record stays untouched.
func TestAdoptIsFinal(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	first := fx.users.seed(&domain.User{Name: "First", Email: "first@example.com", IsActive: true})
	second := fx.users.seed(&domain.User{Name: "Second", Email: "second@example.com", IsActive: true})
	pet := fx.pets.seed(&domain.Pet{Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable})

	adopted, err := fx.svc.Adopt(context.Background(), first.ID, pet.ID)
	require.NoError(t, err)

	_, err = fx.svc.Adopt(context.Background(), second.ID, pet.ID)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Equal(t, "pet already adopted", domainErr.Message)

	stored := fx.pets.pets[pet.ID]
	assert.Equal(t, first.ID, *stored.AdopterID)
	assert.Equal(t, *adopted.AdoptedAt, *stored.AdoptedAt)
}

func TestAdoptUnknownPet(t *testing.T) {
	fx := newPetFixture()
	adopter := fx.users.seed(&domain.User{Name: "Adopter", Email: "adopter@example.com", IsActive: true})

	_, err := fx.svc.Adopt(context.Background(), adopter.ID, "pet-missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestGetIncrementsViews(t *testing.T) {
	fx := newPetFixture()
	owner := fx.users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	pet := fx.pets.seed(&domain.Pet{Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable})

	_, err := fx.svc.Get(context.Background(), pet.ID)
	require.NoError(t, err)
	_, err = fx.svc.Get(context.Background(), pet.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, fx.pets.pets[pet.ID].Views)
}

func TestCreatePublishesEvent(t *testing.T) {
	users := newFakeUserRepo()
	pets := newFakePetRepo(users)
	dispatcher := events.NewInMemoryDispatcher()

	var received []events.Event
	dispatcher.Subscribe(events.EventPetCreated, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	svc := NewPetService(PetDependencies{
		PetRepo:    pets,
		UserRepo:   users,
		FileStore:  &fakeFileStore{},
		Listings:   cache.NewListingCache(nil, 0, zap.NewNop()),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	owner := users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})

	pet, err := svc.Create(context.Background(), owner.ID, validCreateInput())
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, pet.ID, received[0].PetID)
	assert.Equal(t, owner.ID, received[0].ActorID)
	assert.NotEmpty(t, received[0].ID)
}
