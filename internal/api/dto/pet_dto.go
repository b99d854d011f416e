package dto

import (
	"time"

	"github.com/pawhaven/adoption-service/internal/domain"
)

// CreatePetRequest carries the multipart form fields of a new listing; photo
// files travel alongside under the "photos" field name.
type CreatePetRequest struct {
	Name        string `json:"name" form:"name"`
	Species     string `json:"species" form:"species"`
	Breed       string `json:"breed" form:"breed"`
	Age         int    `json:"age" form:"age"`
	Gender      string `json:"gender" form:"gender"`
	Size        string `json:"size" form:"size"`
	Color       string `json:"color" form:"color"`
	Description string `json:"description" form:"description"`
	City        string `json:"city" form:"city"`
	State       string `json:"state" form:"state"`
	Country     string `json:"country" form:"country"`
}

// OwnerRef is the minimal public projection of an owner or adopter.
type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PetResponse is the listing projection returned on all pet reads.
type PetResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Species           domain.PetSpecies `json:"species"`
	Breed             string            `json:"breed,omitempty"`
	Age               int               `json:"age"`
	Gender            string            `json:"gender"`
	Size              string            `json:"size"`
	Color             string            `json:"color,omitempty"`
	Description       string            `json:"description,omitempty"`
	PersonalityTraits []string          `json:"personalityTraits,omitempty"`
	Photos            []string          `json:"photos"`
	Status            domain.PetStatus  `json:"status"`
	Owner             *OwnerRef         `json:"owner,omitempty"`
	Adopter           *OwnerRef         `json:"adopter,omitempty"`
	Location          domain.Location   `json:"location"`
	Views             int               `json:"views"`
	AdoptedAt         *time.Time        `json:"adoptedAt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// NewPetResponse builds the projection for one listing.
func NewPetResponse(pet *domain.Pet) PetResponse {
	resp := PetResponse{
		ID:                pet.ID,
		Name:              pet.Name,
		Species:           pet.Species,
		Breed:             pet.Breed,
		Age:               pet.Age,
		Gender:            pet.Gender,
		Size:              pet.Size,
		Color:             pet.Color,
		Description:       pet.Description,
		PersonalityTraits: pet.PersonalityTraits,
		Photos:            pet.Photos,
		Status:            pet.Status,
		Location:          pet.Location,
		Views:             pet.Views,
		AdoptedAt:         pet.AdoptedAt,
		CreatedAt:         pet.CreatedAt,
		UpdatedAt:         pet.UpdatedAt,
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if pet.Owner != nil {
		resp.Owner = &OwnerRef{ID: pet.Owner.ID, Name: pet.Owner.Name, Email: pet.Owner.Email}
	}
	if pet.Adopter != nil {
		resp.Adopter = &OwnerRef{ID: pet.Adopter.ID, Name: pet.Adopter.Name, Email: pet.Adopter.Email}
	}
	return resp
}

// NewPetResponses maps a slice of listings.
func NewPetResponses(pets []domain.Pet) []PetResponse {
	items := make([]PetResponse, 0, len(pets))
	for i := range pets {
		items = append(items, NewPetResponse(&pets[i]))
	}
	return items
}
