package models

import (
	"time"
)

// VenueStatus represents the publication state of a venue listing
type VenueStatus string

const (
	VenueStatusDraft     VenueStatus = "draft"
	VenueStatusPublished VenueStatus = "published"
	VenueStatusArchived  VenueStatus = "archived"
)

// Venue is a directory entry materialized from an approved extraction.
// Venues are append-mostly outputs - later pipeline runs never backfill them
// automatically; re-extraction requires a fresh queue item or a manual edit.
type Venue struct {
	ID          string `json:"id" badgerhold:"key"`
	Slug        string `json:"slug" badgerhold:"unique"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Location
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	Borough      string `json:"borough,omitempty"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`

	// Contact
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`

	// Parent info
	ParkingInfo string `json:"parking_info,omitempty"`
	ParkingFree *bool  `json:"parking_free,omitempty"`

	// Capacity and age suitability
	MaxChildren *int `json:"max_children,omitempty"`
	MaxAdults   *int `json:"max_adults,omitempty"`
	MinAge      *int `json:"min_age,omitempty"`
	MaxAge      *int `json:"max_age,omitempty"`

	VenueType            []string `json:"venue_type,omitempty"`
	SafetyCertifications []string `json:"safety_certifications,omitempty"`
	StaffDBSChecked      *bool    `json:"staff_dbs_checked,omitempty"`
	FirstAidTrained      *bool    `json:"first_aid_trained,omitempty"`

	// Food
	FoodProvided          *bool  `json:"food_provided,omitempty"`
	OutsideFoodAllowed    *bool  `json:"outside_food_allowed,omitempty"`
	AllergyAccommodations *bool  `json:"allergy_accommodations,omitempty"`
	AllergyInfo           string `json:"allergy_info,omitempty"`

	// Amenities
	PrivatePartyRoom *bool `json:"private_party_room,omitempty"`
	AdultsMustStay   *bool `json:"adults_must_stay,omitempty"`

	Status    VenueStatus `json:"status" badgerhold:"index"`
	SourceURL string      `json:"source_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PartyPackage belongs to exactly one venue and is cascade-deleted with it.
// Packages are created in a batch alongside their venue during approval and
// never created independently.
type PartyPackage struct {
	ID          string `json:"id" badgerhold:"key"`
	VenueID     string `json:"venue_id" badgerhold:"index"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Pricing
	BasePrice            *float64 `json:"base_price,omitempty"`
	BaseIncludesChildren *int     `json:"base_includes_children,omitempty"`
	AdditionalChildPrice *float64 `json:"additional_child_price,omitempty"`

	DurationMinutes *int `json:"duration_minutes,omitempty"`

	// Inclusions
	ActivitiesIncluded []string `json:"activities_included,omitempty"`
	FoodIncluded       []string `json:"food_included,omitempty"`
	AdditionalCosts    []string `json:"additional_costs,omitempty"`

	// Booking
	DepositRequired    *float64 `json:"deposit_required,omitempty"`
	AdvanceBookingDays *int     `json:"advance_booking_days,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
