package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawhaven/adoption-service/internal/domain"
)

// ErrNotAdoptable is returned by MarkAdopted when the listing exists but its
// status no longer permits adoption.
var ErrNotAdoptable = errors.New("pet not adoptable")

// PetRepository encapsulates listing persistence.
//
// CreateWithOwner and DeleteWithOwner are the transactional core: the pet row
// and the owner's pet_ids collection change as one atomic unit, so no caller
// ever observes a pet whose owner does not list it, or the reverse.
type PetRepository interface {
	CreateWithOwner(ctx context.Context, pet *domain.Pet) error
	DeleteWithOwner(ctx context.Context, pet *domain.Pet) error
	MarkAdopted(ctx context.Context, petID, adopterID string) (*domain.Pet, error)
	UpdateStatus(ctx context.Context, petID string, status domain.PetStatus) error
	IncrementViews(ctx context.Context, petID string) error
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
	List(ctx context.Context) ([]domain.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Pet, error)
}

type petRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository instantiates repository.
func NewPetRepository(pool *pgxpool.Pool) PetRepository {
	return &petRepository{pool: pool}
}

const petColumns = `p.id, p.name, p.species, p.breed, p.age, p.gender, p.size, p.color,
        p.description, p.personality_traits, p.photos, p.status, p.owner_id, p.adopter_id,
        p.location_city, p.location_state, p.location_country, p.views, p.adopted_at,
        p.created_at, p.updated_at,
        o.name, o.email, a.name, a.email`

const petJoin = ` FROM pets p
        JOIN users o ON o.id = p.owner_id
        LEFT JOIN users a ON a.id = p.adopter_id`

func (r *petRepository) CreateWithOwner(ctx context.Context, pet *domain.Pet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertPet = `
        INSERT INTO pets (name, species, breed, age, gender, size, color, description,
            personality_traits, photos, status, owner_id, location_city, location_state, location_country)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, views, created_at, updated_at`

	if err := tx.QueryRow(ctx, insertPet,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Age,
		pet.Gender,
		pet.Size,
		pet.Color,
		pet.Description,
		pet.PersonalityTraits,
		pet.Photos,
		pet.Status,
		pet.OwnerID,
		pet.Location.City,
		pet.Location.State,
		pet.Location.Country,
	).Scan(&pet.ID, &pet.Views, &pet.CreatedAt, &pet.UpdatedAt); err != nil {
		return err
	}

	const appendToOwner = `
        UPDATE users SET pet_ids = array_append(pet_ids, $1), updated_at=NOW()
        WHERE id=$2`

	cmd, err := tx.Exec(ctx, appendToOwner, pet.ID, pet.OwnerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *petRepository) DeleteWithOwner(ctx context.Context, pet *domain.Pet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `DELETE FROM pets WHERE id=$1`, pet.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const removeFromOwner = `
        UPDATE users SET pet_ids = array_remove(pet_ids, $1), updated_at=NOW()
        WHERE id=$2`
	if _, err := tx.Exec(ctx, removeFromOwner, pet.ID, pet.OwnerID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MarkAdopted performs the adoption as a single conditional update keyed on
// the current status, so two concurrent adopters cannot both win.
// adopted_at is preserved if somehow already set.
func (r *petRepository) MarkAdopted(ctx context.Context, petID, adopterID string) (*domain.Pet, error) {
	const query = `
        UPDATE pets SET status='adopted', adopter_id=$2,
            adopted_at=COALESCE(adopted_at, NOW()), updated_at=NOW()
        WHERE id=$1 AND status IN ('available','pending')
        RETURNING id`

	var id string
	if err := r.pool.QueryRow(ctx, query, petID, adopterID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing listing from one already adopted.
			if _, getErr := r.GetByID(ctx, petID); getErr != nil {
				return nil, getErr
			}
			return nil, ErrNotAdoptable
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *petRepository) UpdateStatus(ctx context.Context, petID string, status domain.PetStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE pets SET status=$1, updated_at=NOW() WHERE id=$2`, status, petID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petRepository) IncrementViews(ctx context.Context, petID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE pets SET views = views + 1 WHERE id=$1`, petID)
	return err
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	query := `SELECT ` + petColumns + petJoin + ` WHERE p.id=$1`
	var pet domain.Pet
	if err := scanPet(r.pool.QueryRow(ctx, query, id), &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) List(ctx context.Context) ([]domain.Pet, error) {
	query := `SELECT ` + petColumns + petJoin + ` ORDER BY p.created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	query := `SELECT ` + petColumns + petJoin + ` WHERE p.owner_id=$1 ORDER BY p.created_at DESC`
	return r.fetchMany(ctx, query, ownerID)
}

func (r *petRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Pet, error) {
	if len(ids) == 0 {
		return []domain.Pet{}, nil
	}
	query := `SELECT ` + petColumns + petJoin + ` WHERE p.id = ANY($1) ORDER BY p.created_at DESC`
	return r.fetchMany(ctx, query, ids)
}

func (r *petRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Pet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Pet
	for rows.Next() {
		var pet domain.Pet
		if err := scanPet(rows, &pet); err != nil {
			return nil, err
		}
		result = append(result, pet)
	}
	return result, rows.Err()
}

func scanPet(row pgx.Row, pet *domain.Pet) error {
	var ownerName, ownerEmail string
	var adopterName, adopterEmail *string

	if err := row.Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Age,
		&pet.Gender,
		&pet.Size,
		&pet.Color,
		&pet.Description,
		&pet.PersonalityTraits,
		&pet.Photos,
		&pet.Status,
		&pet.OwnerID,
		&pet.AdopterID,
		&pet.Location.City,
		&pet.Location.State,
		&pet.Location.Country,
		&pet.Views,
		&pet.AdoptedAt,
		&pet.CreatedAt,
		&pet.UpdatedAt,
		&ownerName,
		&ownerEmail,
		&adopterName,
		&adopterEmail,
	); err != nil {
		return err
	}

	pet.Owner = &domain.PublicProfile{ID: pet.OwnerID, Name: ownerName, Email: ownerEmail}
	if pet.AdopterID != nil && adopterName != nil && adopterEmail != nil {
		pet.Adopter = &domain.PublicProfile{ID: *pet.AdopterID, Name: *adopterName, Email: *adopterEmail}
	}
	return nil
}
