package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawhaven/adoption-service/internal/domain"
)

// ErrDuplicateApplication surfaces the unique (applicant_id, pet_id) index.
var ErrDuplicateApplication = errors.New("application already exists")

// ApplicationRepository persists adoption applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.AdoptionApplication) error
	Update(ctx context.Context, app *domain.AdoptionApplication) error
	GetByID(ctx context.Context, id string) (*domain.AdoptionApplication, error)
	GetByApplicantAndPet(ctx context.Context, applicantID, petID string) (*domain.AdoptionApplication, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]domain.AdoptionApplication, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.AdoptionApplication, error)
	CountPendingForPet(ctx context.Context, petID string) (int, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository constructs repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, pet_id, applicant_id, pet_owner_id, status,
        applicant_full_name, applicant_email, applicant_phone,
        applicant_street, applicant_city, applicant_state, applicant_zip_code, applicant_country,
        home_type, has_yard, own_or_rent, landlord_allows_pets,
        had_pets_before, current_pets, vet_reference,
        number_of_adults, number_of_children, children_ages,
        reason_for_adoption, hours_alone_per_day, activity_level,
        review_notes, reviewed_at, reviewed_by, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.AdoptionApplication) error {
	const query = `
        INSERT INTO adoption_applications (pet_id, applicant_id, pet_owner_id, status,
            applicant_full_name, applicant_email, applicant_phone,
            applicant_street, applicant_city, applicant_state, applicant_zip_code, applicant_country,
            home_type, has_yard, own_or_rent, landlord_allows_pets,
            had_pets_before, current_pets, vet_reference,
            number_of_adults, number_of_children, children_ages,
            reason_for_adoption, hours_alone_per_day, activity_level)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		app.PetID,
		app.ApplicantID,
		app.PetOwnerID,
		app.Status,
		app.ApplicantInfo.FullName,
		app.ApplicantInfo.Email,
		app.ApplicantInfo.Phone,
		app.ApplicantInfo.Address.Street,
		app.ApplicantInfo.Address.City,
		app.ApplicantInfo.Address.State,
		app.ApplicantInfo.Address.ZipCode,
		app.ApplicantInfo.Address.Country,
		app.LivingSituation.HomeType,
		app.LivingSituation.HasYard,
		app.LivingSituation.OwnOrRent,
		app.LivingSituation.LandlordAllowsPets,
		app.Experience.HadPetsBefore,
		app.Experience.CurrentPets,
		app.Experience.VetReference,
		app.Household.NumberOfAdults,
		app.Household.NumberOfChildren,
		app.Household.ChildrenAges,
		app.ReasonForAdoption,
		app.HoursAlonePerDay,
		app.ActivityLevel,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateApplication
	}
	return err
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.AdoptionApplication) error {
	const query = `
        UPDATE adoption_applications SET status=$1, review_notes=$2, reviewed_at=$3, reviewed_by=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		app.Status,
		app.ReviewNotes,
		app.ReviewedAt,
		app.ReviewedBy,
		app.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE id=$1`
	var app domain.AdoptionApplication
	if err := scanApplication(r.pool.QueryRow(ctx, query, id), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) GetByApplicantAndPet(ctx context.Context, applicantID, petID string) (*domain.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE applicant_id=$1 AND pet_id=$2`
	var app domain.AdoptionApplication
	if err := scanApplication(r.pool.QueryRow(ctx, query, applicantID, petID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]domain.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE applicant_id=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, applicantID)
}

func (r *applicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE pet_owner_id=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, ownerID)
}

func (r *applicationRepository) CountPendingForPet(ctx context.Context, petID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM adoption_applications WHERE pet_id=$1 AND status='pending'`, petID,
	).Scan(&count)
	return count, err
}

func (r *applicationRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.AdoptionApplication, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdoptionApplication
	for rows.Next() {
		var app domain.AdoptionApplication
		if err := scanApplication(rows, &app); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func scanApplication(row pgx.Row, app *domain.AdoptionApplication) error {
	return row.Scan(
		&app.ID,
		&app.PetID,
		&app.ApplicantID,
		&app.PetOwnerID,
		&app.Status,
		&app.ApplicantInfo.FullName,
		&app.ApplicantInfo.Email,
		&app.ApplicantInfo.Phone,
		&app.ApplicantInfo.Address.Street,
		&app.ApplicantInfo.Address.City,
		&app.ApplicantInfo.Address.State,
		&app.ApplicantInfo.Address.ZipCode,
		&app.ApplicantInfo.Address.Country,
		&app.LivingSituation.HomeType,
		&app.LivingSituation.HasYard,
		&app.LivingSituation.OwnOrRent,
		&app.LivingSituation.LandlordAllowsPets,
		&app.Experience.HadPetsBefore,
		&app.Experience.CurrentPets,
		&app.Experience.VetReference,
		&app.Household.NumberOfAdults,
		&app.Household.NumberOfChildren,
		&app.Household.ChildrenAges,
		&app.ReasonForAdoption,
		&app.HoursAlonePerDay,
		&app.ActivityLevel,
		&app.ReviewNotes,
		&app.ReviewedAt,
		&app.ReviewedBy,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
}
