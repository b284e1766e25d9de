package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionResultValidate(t *testing.T) {
	price := 180.0
	valid := &ExtractionResult{
		Venue: &ExtractedVenue{
			Name:         "Flip Out London",
			AddressLine1: "123 Jump Street",
			City:         "London",
			Postcode:     "SW18 4JB",
		},
		Packages: []ExtractedPackage{
			{Name: "Basic Bounce", BasePrice: &price},
		},
		ConfidenceScore: 0.85,
	}
	assert.NoError(t, valid.Validate())

	// A venue without a name violates the schema
	invalid := &ExtractionResult{
		Venue: &ExtractedVenue{City: "London"},
	}
	assert.Error(t, invalid.Validate())

	// A null venue is a legal model answer, not a schema violation
	nullVenue := &ExtractionResult{ConfidenceScore: 0.1}
	assert.NoError(t, nullVenue.Validate())
	assert.False(t, nullVenue.HasVenueName())

	// Packages need names too
	badPackage := &ExtractionResult{
		Venue:    &ExtractedVenue{Name: "Flip Out London"},
		Packages: []ExtractedPackage{{Description: "unnamed"}},
	}
	assert.Error(t, badPackage.Validate())

	negative := -5.0
	badPrice := &ExtractionResult{
		Venue:    &ExtractedVenue{Name: "Flip Out London"},
		Packages: []ExtractedPackage{{Name: "Basic", BasePrice: &negative}},
	}
	assert.Error(t, badPrice.Validate())
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.85, 0.85},
		{85, 1},
		{-0.2, 0},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		r := &ExtractionResult{ConfidenceScore: tt.in}
		r.ClampConfidence()
		assert.Equal(t, tt.want, r.ConfidenceScore)
	}
}

func TestExtractionResultUnmarshal(t *testing.T) {
	raw := `{
		"venue": {"name": "Flip Out London", "city": "London", "postcode": "SW18 4JB",
			"address_line_1": "123 Jump Street", "borough": "Wandsworth",
			"parking_free": true, "max_children": 30, "venue_type": ["trampoline"]},
		"packages": [{"name": "Basic Bounce", "base_price": 180, "duration_minutes": 90,
			"activities_included": ["1 hour jump time"]}],
		"confidence_score": 0.85,
		"extraction_notes": "Prices on parties page"
	}`

	var result ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	require.NotNil(t, result.Venue)
	assert.Equal(t, "Flip Out London", result.Venue.Name)
	require.NotNil(t, result.Venue.Borough)
	assert.Equal(t, "Wandsworth", *result.Venue.Borough)
	require.NotNil(t, result.Venue.ParkingFree)
	assert.True(t, *result.Venue.ParkingFree)

	require.Len(t, result.Packages, 1)
	assert.Equal(t, 180.0, *result.Packages[0].BasePrice)
	assert.Equal(t, 90, *result.Packages[0].DurationMinutes)
}

func TestQueueStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusPublished.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	for _, s := range []QueueStatus{StatusPending, StatusProcessing, StatusScraped, StatusReview, StatusFailed} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
