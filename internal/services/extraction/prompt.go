package extraction

import "github.com/ternarybob/venuescout/internal/interfaces"

// extractionPrompt is the instruction block sent ahead of the page content.
// The JSON shape must stay in lockstep with models.ExtractionResult.
const extractionPrompt = `
Extract detailed party venue information from this website content. Focus on information parents need for children's parties.

Return as JSON with these fields:
- Basic info: name, address, phone, email, website
- Location details:
  - Full address with postcode
  - For London venues: identify the borough (e.g., Hackney, Camden, Islington)
- Parking: free/paid, number of spaces, street parking notes
- Safety: staff certifications, DBS checks, first aid, staff ratios
- Capacity: max children, max adults, age ranges
- Party packages:
  - Name, price structure (base price for X kids + additional child cost)
  - Exact duration (including setup/cleanup time)
  - What's included (specific activities, food items, decorations)
  - What's NOT included or costs extra
  - Deposit and booking requirements
- Food: provided/BYO, allergy handling, dietary options
- Parent info: must stay?, seating areas, cafe, wifi
- Rules: outside decorations allowed?, exclusive hire?, other parties same time?
- Booking: how far in advance, cancellation policy

Rate confidence 0-1 for each field extracted.
If information is ambiguous or unclear, note this in the confidence score.

Return the response in this exact JSON format:
{
  "venue": {
    "name": "string",
    "description": "string",
    "address_line_1": "string",
    "address_line_2": "string or null",
    "city": "string",
    "borough": "string or null",
    "postcode": "string",
    "phone": "string or null",
    "email": "string or null",
    "website": "string or null",
    "parking_info": "string or null",
    "parking_free": "boolean or null",
    "max_children": "number or null",
    "max_adults": "number or null",
    "min_age": "number or null",
    "max_age": "number or null",
    "venue_type": ["soft_play", "trampoline", "bowling", "swimming", "other"],
    "safety_certifications": ["string array"],
    "staff_dbs_checked": "boolean or null",
    "first_aid_trained": "boolean or null",
    "food_provided": "boolean or null",
    "outside_food_allowed": "boolean or null",
    "allergy_accommodations": "boolean or null",
    "allergy_info": "string or null",
    "private_party_room": "boolean or null",
    "adults_must_stay": "boolean or null"
  },
  "packages": [
    {
      "name": "string",
      "description": "string",
      "base_price": "number or null",
      "base_includes_children": "number or null",
      "additional_child_price": "number or null",
      "duration_minutes": "number or null",
      "activities_included": ["string array"],
      "food_included": ["string array"],
      "additional_costs": ["string array"],
      "deposit_required": "number or null",
      "advance_booking_days": "number or null"
    }
  ],
  "confidence_score": "number 0-1",
  "extraction_notes": "string"
}

If the content describes no identifiable venue, return "venue": null.

Website content:
`

// buildMessages assembles the single-turn conversation for one page.
func buildMessages(content string) []interfaces.Message {
	return []interfaces.Message{
		{
			Role:    "user",
			Content: extractionPrompt + content,
		},
	}
}
