package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pawhaven/adoption-service/internal/domain"
	"github.com/pawhaven/adoption-service/internal/repository"
)

// In-memory repository fakes. They return copies the way a row scan would, so
// a caller mutating a returned value without calling Update changes nothing.

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int

	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := cloneUser(user)
	updated.PetIDs = stored.PetIDs // pet_ids only moves with the pet lifecycle
	updated.UpdatedAt = time.Now()
	r.users[user.ID] = updated
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneUser(user), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListActive(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.IsActive {
			result = append(result, *cloneUser(user))
		}
	}
	return result, nil
}

func (r *fakeUserRepo) seed(user *domain.User) *domain.User {
	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[user.ID] = cloneUser(user)
	return user
}

// fakePetRepo keeps the pet rows and the owner's pet_ids in step the way the
// real transactions do. createErr and deleteErr simulate a transaction that
// fails after its first write: nothing is mutated, matching a rollback.
type fakePetRepo struct {
	users  *fakeUserRepo
	pets   map[string]*domain.Pet
	nextID int

	createErr error
	deleteErr error
	statusErr error
}

func newFakePetRepo(users *fakeUserRepo) *fakePetRepo {
	return &fakePetRepo{users: users, pets: map[string]*domain.Pet{}}
}

func (r *fakePetRepo) CreateWithOwner(_ context.Context, pet *domain.Pet) error {
	if r.createErr != nil {
		return r.createErr
	}
	owner, ok := r.users.users[pet.OwnerID]
	if !ok {
		return pgx.ErrNoRows
	}
	r.nextID++
	pet.ID = fmt.Sprintf("pet-%d", r.nextID)
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	r.pets[pet.ID] = clonePet(pet)
	owner.PetIDs = append(owner.PetIDs, pet.ID)
	return nil
}

func (r *fakePetRepo) DeleteWithOwner(_ context.Context, pet *domain.Pet) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.pets[pet.ID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.pets, pet.ID)
	if owner, ok := r.users.users[pet.OwnerID]; ok {
		kept := owner.PetIDs[:0]
		for _, id := range owner.PetIDs {
			if id != pet.ID {
				kept = append(kept, id)
			}
		}
		owner.PetIDs = kept
	}
	return nil
}

func (r *fakePetRepo) MarkAdopted(_ context.Context, petID, adopterID string) (*domain.Pet, error) {
	pet, ok := r.pets[petID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if !pet.Adoptable() {
		return nil, repository.ErrNotAdoptable
	}
	pet.Status = domain.PetStatusAdopted
	pet.AdopterID = &adopterID
	if pet.AdoptedAt == nil {
		now := time.Now()
		pet.AdoptedAt = &now
	}
	pet.UpdatedAt = time.Now()
	return clonePet(pet), nil
}

func (r *fakePetRepo) UpdateStatus(_ context.Context, petID string, status domain.PetStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	pet, ok := r.pets[petID]
	if !ok {
		return pgx.ErrNoRows
	}
	pet.Status = status
	pet.UpdatedAt = time.Now()
	return nil
}

func (r *fakePetRepo) IncrementViews(_ context.Context, petID string) error {
	pet, ok := r.pets[petID]
	if !ok {
		return pgx.ErrNoRows
	}
	pet.Views++
	return nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id string) (*domain.Pet, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return clonePet(pet), nil
}

func (r *fakePetRepo) List(_ context.Context) ([]domain.Pet, error) {
	var result []domain.Pet
	for _, pet := range r.pets {
		result = append(result, *clonePet(pet))
	}
	return result, nil
}

func (r *fakePetRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Pet, error) {
	var result []domain.Pet
	for _, pet := range r.pets {
		if pet.OwnerID == ownerID {
			result = append(result, *clonePet(pet))
		}
	}
	return result, nil
}

func (r *fakePetRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Pet, error) {
	result := []domain.Pet{}
	for _, id := range ids {
		if pet, ok := r.pets[id]; ok {
			result = append(result, *clonePet(pet))
		}
	}
	return result, nil
}

func (r *fakePetRepo) seed(pet *domain.Pet) *domain.Pet {
	if pet.ID == "" {
		r.nextID++
		pet.ID = fmt.Sprintf("pet-%d", r.nextID)
	}
	r.pets[pet.ID] = clonePet(pet)
	if owner, ok := r.users.users[pet.OwnerID]; ok {
		owner.PetIDs = append(owner.PetIDs, pet.ID)
	}
	return pet
}

type fakeApplicationRepo struct {
	apps   map[string]*domain.AdoptionApplication
	nextID int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*domain.AdoptionApplication{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.AdoptionApplication) error {
	for _, existing := range r.apps {
		if existing.ApplicantID == app.ApplicantID && existing.PetID == app.PetID {
			return repository.ErrDuplicateApplication
		}
	}
	r.nextID++
	app.ID = fmt.Sprintf("app-%d", r.nextID)
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	stored := *app
	r.apps[app.ID] = &stored
	return nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *domain.AdoptionApplication) error {
	if _, ok := r.apps[app.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *app
	stored.UpdatedAt = time.Now()
	r.apps[app.ID] = &stored
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.AdoptionApplication, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByApplicantAndPet(_ context.Context, applicantID, petID string) (*domain.AdoptionApplication, error) {
	for _, app := range r.apps {
		if app.ApplicantID == applicantID && app.PetID == petID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID string) ([]domain.AdoptionApplication, error) {
	var result []domain.AdoptionApplication
	for _, app := range r.apps {
		if app.ApplicantID == applicantID {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.AdoptionApplication, error) {
	var result []domain.AdoptionApplication
	for _, app := range r.apps {
		if app.PetOwnerID == ownerID {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) CountPendingForPet(_ context.Context, petID string) (int, error) {
	count := 0
	for _, app := range r.apps {
		if app.PetID == petID && app.Status == domain.ApplicationPending {
			count++
		}
	}
	return count, nil
}

// fakeFileStore records deletions so tests can assert staged-file cleanup.
type fakeFileStore struct {
	deleted []string
	putErr  error
}

func (f *fakeFileStore) Put(subdir string, _ *multipart.FileHeader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return "/uploads/" + subdir + "/fake", nil
}

func (f *fakeFileStore) Delete(ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func cloneUser(user *domain.User) *domain.User {
	copied := *user
	copied.PetIDs = append([]string(nil), user.PetIDs...)
	copied.FavoriteIDs = append([]string(nil), user.FavoriteIDs...)
	return &copied
}

func clonePet(pet *domain.Pet) *domain.Pet {
	copied := *pet
	copied.PersonalityTraits = append([]string(nil), pet.PersonalityTraits...)
	copied.Photos = append([]string(nil), pet.Photos...)
	return &copied
}
