// Package contract holds the shapes exchanged with the language model:
// the itinerary document, the ride tool and the three possible turn outcomes.
package contract

import "encoding/json"

// ItineraryKey is the single top-level key of an itinerary document.
const ItineraryKey = "itinerary_draft"

// Currency of every activity price.
const Currency = "CHF"

type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Price       int    `json:"price"`
}

type Day struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Itinerary is an ordered, read-only list of days. Changes are made by
// asking the model for a new one.
type Itinerary struct {
	days []Day
}

func NewItinerary(days []Day) Itinerary {
	return Itinerary{days: copyDays(days)}
}

// Days returns a copy of the days in emission order.
func (it Itinerary) Days() []Day {
	return copyDays(it.days)
}

func (it Itinerary) Len() int {
	return len(it.days)
}

// MarshalJSON renders the itinerary as the bare day array.
func (it Itinerary) MarshalJSON() ([]byte, error) {
	if it.days == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(it.days)
}

// Document renders the itinerary wrapped in its top-level key, the same
// shape the model is asked to produce.
func (it Itinerary) Document() ([]byte, error) {
	return json.Marshal(map[string]Itinerary{ItineraryKey: it})
}

func copyDays(days []Day) []Day {
	if days == nil {
		return nil
	}
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = d
		if d.Activities != nil {
			out[i].Activities = append([]Activity(nil), d.Activities...)
		}
	}
	return out
}
