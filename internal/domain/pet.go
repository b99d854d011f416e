package domain

import "time"

// PetStatus enumerates lifecycle states for a listing.
type PetStatus string

const (
	PetStatusAvailable    PetStatus = "available"
	PetStatusPending      PetStatus = "pending"
	PetStatusAdopted      PetStatus = "adopted"
	PetStatusNotAvailable PetStatus = "not-available"
)

// PetSpecies enumerates accepted species values.
type PetSpecies string

const (
	SpeciesDog    PetSpecies = "dog"
	SpeciesCat    PetSpecies = "cat"
	SpeciesBird   PetSpecies = "bird"
	SpeciesRabbit PetSpecies = "rabbit"
	SpeciesOther  PetSpecies = "other"
)

// MaxPetPhotos bounds the photo list on a listing.
const MaxPetPhotos = 10

// Location is the coarse listing location.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country,omitempty"`
}

// Pet is the aggregate for an adoptable listing.
//
// OwnerID is immutable after creation. AdopterID and AdoptedAt are written
// exactly once, when the listing transitions to adopted; there is no path out
// of adopted.
type Pet struct {
	ID                string
	Name              string
	Species           PetSpecies
	Breed             string
	Age               int
	Gender            string
	Size              string
	Color             string
	Description       string
	PersonalityTraits []string
	Photos            []string
	Status            PetStatus
	OwnerID           string
	AdopterID         *string
	Location          Location
	Views             int
	AdoptedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Optional projections resolved by the store on read paths.
	Owner   *PublicProfile
	Adopter *PublicProfile
}

// ValidSpecies reports whether s is one of the accepted species values.
func ValidSpecies(s PetSpecies) bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return true
	}
	return false
}

// Adoptable reports whether the listing can still be adopted.
func (p *Pet) Adoptable() bool {
	return p.Status == PetStatusAvailable || p.Status == PetStatusPending
}
