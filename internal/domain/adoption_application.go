package domain

import "time"

// ApplicationStatus enumerates review states for an adoption application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// ApplicantInfo carries contact details supplied on the application form.
type ApplicantInfo struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Address  Address `json:"address"`
}

// LivingSituation captures the applicant's housing questionnaire answers.
type LivingSituation struct {
	HomeType           string `json:"homeType"`
	HasYard            bool   `json:"hasYard"`
	OwnOrRent          string `json:"ownOrRent"`
	LandlordAllowsPets *bool  `json:"landlordAllowsPets,omitempty"`
}

// Experience captures prior pet-keeping history.
type Experience struct {
	HadPetsBefore bool   `json:"hadPetsBefore"`
	CurrentPets   string `json:"currentPets,omitempty"`
	VetReference  string `json:"vetReference,omitempty"`
}

// Household describes who lives with the applicant.
type Household struct {
	NumberOfAdults   int    `json:"numberOfAdults"`
	NumberOfChildren int    `json:"numberOfChildren"`
	ChildrenAges     string `json:"childrenAges,omitempty"`
}

// AdoptionApplication is a request by one user to adopt a pet listed by
// another. At most one application exists per (applicant, pet) pair.
// ReviewedAt is set exactly once, the first time status moves into approved
// or rejected.
type AdoptionApplication struct {
	ID                string
	PetID             string
	ApplicantID       string
	PetOwnerID        string
	Status            ApplicationStatus
	ApplicantInfo     ApplicantInfo
	LivingSituation   LivingSituation
	Experience        Experience
	Household         Household
	ReasonForAdoption string
	HoursAlonePerDay  int
	ActivityLevel     string
	ReviewNotes       string
	ReviewedAt        *time.Time
	ReviewedBy        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
