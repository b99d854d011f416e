package events

import (
	"time"

	"github.com/pawhaven/adoption-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPetCreated           EventType = "pet_created"
	EventPetAdopted           EventType = "pet_adopted"
	EventPetDeleted           EventType = "pet_deleted"
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationReviewed  EventType = "application_reviewed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PetID     string      `json:"pet_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PetCreatedPayload payload.
type PetCreatedPayload struct {
	OwnerID string            `json:"owner_id"`
	Name    string            `json:"name"`
	Species domain.PetSpecies `json:"species"`
}

// PetAdoptedPayload payload.
type PetAdoptedPayload struct {
	OwnerID   string `json:"owner_id"`
	AdopterID string `json:"adopter_id"`
}

// PetDeletedPayload payload.
type PetDeletedPayload struct {
	OwnerID    string `json:"owner_id"`
	PhotoCount int    `json:"photo_count"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	ApplicantID   string `json:"applicant_id"`
	PetOwnerID    string `json:"pet_owner_id"`
}

// ApplicationReviewedPayload payload.
type ApplicationReviewedPayload struct {
	ApplicationID string                   `json:"application_id"`
	NewStatus     domain.ApplicationStatus `json:"new_status"`
	ReviewerID    string                   `json:"reviewer_id"`
}
