package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var extractionValidator = validator.New()

// ExtractionResult is the structured output the extraction engine requests
// from the language model. The JSON shape is fixed; the model must return
// exactly these fields.
type ExtractionResult struct {
	Venue           *ExtractedVenue    `json:"venue" validate:"omitempty"`
	Packages        []ExtractedPackage `json:"packages" validate:"dive"`
	ConfidenceScore float64            `json:"confidence_score"`
	ExtractionNotes string             `json:"extraction_notes"`
}

// ExtractedVenue mirrors the venue object of the extraction contract
type ExtractedVenue struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description"`
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         string  `json:"city"`
	Borough      *string `json:"borough"`
	Postcode     string  `json:"postcode"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Website      *string `json:"website"`

	ParkingInfo *string `json:"parking_info"`
	ParkingFree *bool   `json:"parking_free"`

	MaxChildren *int `json:"max_children" validate:"omitempty,gte=0"`
	MaxAdults   *int `json:"max_adults" validate:"omitempty,gte=0"`
	MinAge      *int `json:"min_age" validate:"omitempty,gte=0"`
	MaxAge      *int `json:"max_age" validate:"omitempty,gte=0"`

	VenueType            []string `json:"venue_type"`
	SafetyCertifications []string `json:"safety_certifications"`
	StaffDBSChecked      *bool    `json:"staff_dbs_checked"`
	FirstAidTrained      *bool    `json:"first_aid_trained"`

	FoodProvided          *bool   `json:"food_provided"`
	OutsideFoodAllowed    *bool   `json:"outside_food_allowed"`
	AllergyAccommodations *bool   `json:"allergy_accommodations"`
	AllergyInfo           *string `json:"allergy_info"`

	PrivatePartyRoom *bool `json:"private_party_room"`
	AdultsMustStay   *bool `json:"adults_must_stay"`
}

// ExtractedPackage mirrors a packages[] element of the extraction contract
type ExtractedPackage struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`

	BasePrice            *float64 `json:"base_price" validate:"omitempty,gte=0"`
	BaseIncludesChildren *int     `json:"base_includes_children" validate:"omitempty,gte=0"`
	AdditionalChildPrice *float64 `json:"additional_child_price" validate:"omitempty,gte=0"`
	DurationMinutes      *int     `json:"duration_minutes" validate:"omitempty,gt=0"`

	ActivitiesIncluded []string `json:"activities_included"`
	FoodIncluded       []string `json:"food_included"`
	AdditionalCosts    []string `json:"additional_costs"`

	DepositRequired    *float64 `json:"deposit_required" validate:"omitempty,gte=0"`
	AdvanceBookingDays *int     `json:"advance_booking_days" validate:"omitempty,gte=0"`
}

// Validate checks the extraction result against the schema. A validation
// failure is a schema violation, distinct from a JSON parse failure.
func (r *ExtractionResult) Validate() error {
	if err := extractionValidator.Struct(r); err != nil {
		return fmt.Errorf("extraction schema validation failed: %w", err)
	}
	return nil
}

// ClampConfidence forces the self-reported confidence into [0,1].
// Models occasionally report percentages or negatives; clamping keeps the
// stored invariant without discarding an otherwise valid extraction.
func (r *ExtractionResult) ClampConfidence() {
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	}
	if r.ConfidenceScore > 1 {
		r.ConfidenceScore = 1
	}
}

// HasVenueName reports whether the model found a usable venue identity
func (r *ExtractionResult) HasVenueName() bool {
	return r.Venue != nil && r.Venue.Name != ""
}
