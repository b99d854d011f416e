package dto

import (
	"time"

	"github.com/pawhaven/adoption-service/internal/domain"
)

// SubmitApplicationRequest payload.
type SubmitApplicationRequest struct {
	PetID             string                 `json:"petId"`
	ApplicantInfo     domain.ApplicantInfo   `json:"applicantInfo"`
	LivingSituation   domain.LivingSituation `json:"livingSituation"`
	Experience        domain.Experience      `json:"experience"`
	Household         domain.Household       `json:"household"`
	ReasonForAdoption string                 `json:"reasonForAdoption"`
	HoursAlonePerDay  int                    `json:"hoursAlonePerDay"`
	ActivityLevel     string                 `json:"activityLevel"`
}

// ReviewApplicationRequest payload.
type ReviewApplicationRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// ApplicationResponse projection.
type ApplicationResponse struct {
	ID                string                   `json:"id"`
	PetID             string                   `json:"petId"`
	ApplicantID       string                   `json:"applicantId"`
	PetOwnerID        string                   `json:"petOwnerId"`
	Status            domain.ApplicationStatus `json:"status"`
	ApplicantInfo     domain.ApplicantInfo     `json:"applicantInfo"`
	LivingSituation   domain.LivingSituation   `json:"livingSituation"`
	Experience        domain.Experience        `json:"experience"`
	Household         domain.Household         `json:"household"`
	ReasonForAdoption string                   `json:"reasonForAdoption"`
	HoursAlonePerDay  int                      `json:"hoursAlonePerDay"`
	ActivityLevel     string                   `json:"activityLevel"`
	ReviewNotes       string                   `json:"reviewNotes,omitempty"`
	ReviewedAt        *time.Time               `json:"reviewedAt,omitempty"`
	ReviewedBy        *string                  `json:"reviewedBy,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// NewApplicationResponse builds the projection for one application.
func NewApplicationResponse(app *domain.AdoptionApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:                app.ID,
		PetID:             app.PetID,
		ApplicantID:       app.ApplicantID,
		PetOwnerID:        app.PetOwnerID,
		Status:            app.Status,
		ApplicantInfo:     app.ApplicantInfo,
		LivingSituation:   app.LivingSituation,
		Experience:        app.Experience,
		Household:         app.Household,
		ReasonForAdoption: app.ReasonForAdoption,
		HoursAlonePerDay:  app.HoursAlonePerDay,
		ActivityLevel:     app.ActivityLevel,
		ReviewNotes:       app.ReviewNotes,
		ReviewedAt:        app.ReviewedAt,
		ReviewedBy:        app.ReviewedBy,
		CreatedAt:         app.CreatedAt,
	}
}

// NewApplicationResponses maps a slice of applications.
func NewApplicationResponses(apps []domain.AdoptionApplication) []ApplicationResponse {
	items := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, NewApplicationResponse(&apps[i]))
	}
	return items
}
