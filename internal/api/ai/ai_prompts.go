package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

// SuggestionCriteria narrows the candidate pool for SuggestPlaces.
type SuggestionCriteria struct {
	Category  string   `json:"category"`
	Budget    string   `json:"budget"`
	Interests []string `json:"interests,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
}

const tourismSystemPrompt = `You are an intelligent travel assistant specialising in local tourism in Vietnam.

**Your role:**
- Advise on detailed, well-matched travel itineraries
- Introduce attractions, food and accommodation
- Estimate reasonable trip costs
- Share useful information about local culture and customs
- Suggest interesting activities and unique experiences

**Communication style:**
- Friendly, enthusiastic and professional
- Natural, easy to understand language
- Concrete, well-founded advice
- Respect the guest's budget and interests

**Principles:**
- Prioritise sustainable and responsible travel
- Encourage exploring the local culture
- Balance famous sights with lesser-known spots
- Keep information practical and accurate`

// TourismSystemPrompt returns the assistant persona prepended to every
// chat turn.
func TourismSystemPrompt() string {
	return tourismSystemPrompt
}

// ItineraryPrompt renders the generation request. The JSON skeleton in
// the prompt is a contract: the parser and ItineraryPlan both depend on
// these exact field names.
func ItineraryPrompt(prefs types.ItineraryPreference) string {
	location := prefs.Location
	if location == "" {
		location = "Vietnam"
	}
	duration := prefs.Duration
	if duration <= 0 {
		duration = 3
	}
	budget := prefs.Budget
	if budget == "" {
		budget = "medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Create a detailed travel itinerary from the following information:

**Trip details:**
- Location: %s
- Duration: %d days
- Budget: %s
- Interests: %s
`, location, duration, budget, joinOrDefault(prefs.Interests, "General"))

	if len(prefs.SelectedPlaces) > 0 {
		placesJSON, _ := json.MarshalIndent(prefs.SelectedPlaces, "", "  ")
		fmt.Fprintf(&b, "\n**Places the guest wants to include:**\n%s\n", placesJSON)
	}

	fmt.Fprintf(&b, `
**Requirements:**
1. A day-by-day schedule with concrete times
2. Suggestions for sightseeing, food and rest
3. An estimated cost for each activity
4. Advice on getting around
5. Important tips and notes

Return the result STRICTLY as JSON with this structure:
{
  "title": "Itinerary title",
  "description": "Overall description",
  "duration_days": %d,
  "estimated_cost": 0,
  "days": [
    {
      "day": 1,
      "title": "Day 1 title",
      "activities": [
        {
          "time": "08:00",
          "activity": "Activity name",
          "location": "Place",
          "description": "Description",
          "estimated_cost": 0,
          "duration": "2 hours"
        }
      ]
    }
  ],
  "tips": ["Tip 1", "Tip 2"]
}`, duration)

	return b.String()
}

// SuggestionPrompt asks the model to pick 5-10 places out of the
// supplied candidates.
func SuggestionPrompt(criteria SuggestionCriteria, places []types.PlaceSummary) string {
	category := criteria.Category
	if category == "" {
		category = "all"
	}
	budget := criteria.Budget
	if budget == "" {
		budget = "medium"
	}
	placesJSON, _ := json.MarshalIndent(places, "", "  ")

	return fmt.Sprintf(`Based on the place list below and the guest's criteria, suggest the 5-10 best matching places:

**Criteria:**
- Category: %s
- Budget: %s
- Interests: %s

**Available places:**
%s

Return STRICTLY JSON with this structure:
{
  "recommendations": [
    {
      "place_id": "id from the list",
      "name": "Place name",
      "reason": "Why it fits",
      "rating": 4.5,
      "estimated_cost": 0
    }
  ],
  "explanation": "Overall explanation of the suggestions"
}`, category, budget, joinOrDefault(criteria.Interests, "General"), placesJSON)
}

// CostEstimationPrompt asks for a cost breakdown of a finished plan.
func CostEstimationPrompt(plan types.ItineraryPlan) string {
	planJSON, _ := json.MarshalIndent(plan, "", "  ")

	return fmt.Sprintf(`Estimate the detailed cost of the following travel itinerary:

%s

Return STRICTLY JSON with this structure:
{
  "total": 0,
  "breakdown": {
    "accommodation": 0,
    "food": 0,
    "transportation": 0,
    "activities": 0,
    "shopping": 0,
    "other": 0
  },
  "daily_average": 0,
  "currency": "VND",
  "notes": ["Cost notes"],
  "tips": ["Money saving tips"]
}

Note: base the numbers on real prices in Vietnam.`, planJSON)
}

func joinOrDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
