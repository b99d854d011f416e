package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/events"
	apperrors "github.com/pawhaven/adoption-service/pkg/util"
)

type applicationFixture struct {
	svc   *ApplicationService
	users *fakeUserRepo
	pets  *fakePetRepo
	apps  *fakeApplicationRepo

	owner     *domain.User
	applicant *domain.User
	pet       *domain.Pet
}

func newApplicationFixture() *applicationFixture {
	users := newFakeUserRepo()
	pets := newFakePetRepo(users)
	apps := newFakeApplicationRepo()
	svc := NewApplicationService(apps, pets, events.NewInMemoryDispatcher(), zap.NewNop())

	owner := users.seed(&domain.User{Name: "Owner", Email: "owner@example.com", IsActive: true})
	applicant := users.seed(&domain.User{Name: "Applicant", Email: "applicant@example.com", IsActive: true})
	pet := pets.seed(&domain.Pet{Name: "Biscuit", OwnerID: owner.ID, Status: domain.PetStatusAvailable})

	return &applicationFixture{
		svc: svc, users: users, pets: pets, apps: apps,
		owner: owner, applicant: applicant, pet: pet,
	}
}

func validApplicationInput(petID string) ApplicationInput {
	return ApplicationInput{
		PetID: petID,
		ApplicantInfo: domain.ApplicantInfo{
			FullName: "Pat Applicant",
			Email:    "applicant@example.com",
			Phone:    "555-0101",
		},
		Household:         domain.Household{NumberOfAdults: 2},
		ReasonForAdoption: "lifelong dog household",
		HoursAlonePerDay:  4,
	}
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	fx := newApplicationFixture()

	app, err := fx.svc.Submit(context.Background(), fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, fx.owner.ID, app.PetOwnerID)
	assert.Equal(t, "moderate", app.ActivityLevel)

	// First application moves the listing to pending.
	assert.Equal(t, domain.PetStatusPending, fx.pets.pets[fx.pet.ID].Status)
}

func TestSubmitRejectsOwnPet(t *testing.T) {
	fx := newApplicationFixture()

	_, err := fx.svc.Submit(context.Background(), fx.owner.ID, validApplicationInput(fx.pet.ID))
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	assert.Len(t, fx.apps.apps, 1)
}

func TestSubmitRejectsAdoptedPet(t *testing.T) {
	fx := newApplicationFixture()
	fx.pets.pets[fx.pet.ID].Status = domain.PetStatusAdopted

	_, err := fx.svc.Submit(context.Background(), fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSubmitValidation(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	missingReason := validApplicationInput(fx.pet.ID)
	missingReason.ReasonForAdoption = "  "
	_, err := fx.svc.Submit(ctx, fx.applicant.ID, missingReason)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.ToDomainError(err).HTTPStatus)

	noAdults := validApplicationInput(fx.pet.ID)
	noAdults.Household.NumberOfAdults = 0
	_, err = fx.svc.Submit(ctx, fx.applicant.ID, noAdults)
	require.Error(t, err)
	assert.Equal(t, 422, apperrors.ToDomainError(err).HTTPStatus)
}

func TestReviewApprove(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	reviewed, err := fx.svc.Review(ctx, fx.owner.ID, app.ID, true, "great fit")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationApproved, reviewed.Status)
	assert.Equal(t, "great fit", reviewed.ReviewNotes)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, fx.owner.ID, *reviewed.ReviewedBy)
}

func TestReviewByNonOwnerForbidden(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	_, err = fx.svc.Review(ctx, fx.applicant.ID, app.ID, true, "")
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, domain.ApplicationPending, fx.apps.apps[app.ID].Status)
}

// A decision is final: the second review attempt conflicts and the original
// reviewed_at stamp survives.
func TestReviewIsWriteOnce(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	first, err := fx.svc.Review(ctx, fx.owner.ID, app.ID, false, "no yard")
	require.NoError(t, err)

	_, err = fx.svc.Review(ctx, fx.owner.ID, app.ID, true, "changed my mind")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	stored := fx.apps.apps[app.ID]
	assert.Equal(t, domain.ApplicationRejected, stored.Status)
	assert.Equal(t, *first.ReviewedAt, *stored.ReviewedAt)
}

func TestRejectionRestoresAvailability(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)
	require.Equal(t, domain.PetStatusPending, fx.pets.pets[fx.pet.ID].Status)

	_, err = fx.svc.Review(ctx, fx.owner.ID, app.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PetStatusAvailable, fx.pets.pets[fx.pet.ID].Status)
}

func TestRejectionKeepsPendingWhileOthersRemain(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()
	second := fx.users.seed(&domain.User{Name: "Second", Email: "second@example.com", IsActive: true})

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, second.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	_, err = fx.svc.Review(ctx, fx.owner.ID, app.ID, false, "")
	require.NoError(t, err)

	// The other pending application keeps the listing in pending.
	assert.Equal(t, domain.PetStatusPending, fx.pets.pets[fx.pet.ID].Status)
}

func TestWithdraw(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	withdrawn, err := fx.svc.Withdraw(ctx, fx.applicant.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationWithdrawn, withdrawn.Status)
	assert.Equal(t, domain.PetStatusAvailable, fx.pets.pets[fx.pet.ID].Status)
}

func TestWithdrawByNonApplicantForbidden(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	app, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	_, err = fx.svc.Withdraw(ctx, fx.owner.ID, app.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestListMineAndReceived(t *testing.T) {
	fx := newApplicationFixture()
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, fx.applicant.ID, validApplicationInput(fx.pet.ID))
	require.NoError(t, err)

	mine, err := fx.svc.ListMine(ctx, fx.applicant.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	received, err := fx.svc.ListReceived(ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	none, err := fx.svc.ListMine(ctx, fx.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
