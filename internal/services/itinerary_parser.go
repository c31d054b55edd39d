package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"concierge/internal/contract"
	"concierge/pkg/utils"
)

// Every field is a pointer so a missing key can be told apart from a zero value.
type rawActivity struct {
	Time        *string `json:"time"`
	Description *string `json:"description"`
	Reason      *string `json:"reason"`
	Price       *int    `json:"price"`
}

type rawDay struct {
	Day        *int           `json:"day"`
	Title      *string        `json:"title"`
	Activities *[]rawActivity `json:"activities"`
}

// ParseItinerary validates raw model output against the itinerary document.
// Every failure wraps utils.ErrStructuredOutput; the wrapped detail is for logs only.
func ParseItinerary(raw string) (contract.Itinerary, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return contract.Itinerary{}, shapeError("empty response")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return contract.Itinerary{}, shapeError("invalid json: %v", err)
	}

	value, ok := doc[contract.ItineraryKey]
	if !ok {
		return contract.Itinerary{}, shapeError("missing %q key", contract.ItineraryKey)
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return contract.Itinerary{}, shapeError("%q is null", contract.ItineraryKey)
	}

	var rawDays []rawDay
	if err := json.Unmarshal(value, &rawDays); err != nil {
		return contract.Itinerary{}, shapeError("%q is not a day array: %v", contract.ItineraryKey, err)
	}

	days := make([]contract.Day, 0, len(rawDays))
	lastDay := 0
	for i, rd := range rawDays {
		day, err := convertDay(rd)
		if err != nil {
			return contract.Itinerary{}, shapeError("day #%d: %v", i+1, err)
		}
		if day.Day < 1 {
			return contract.Itinerary{}, shapeError("day #%d: index %d is below 1", i+1, day.Day)
		}
		if day.Day <= lastDay {
			return contract.Itinerary{}, shapeError("day #%d: index %d does not increase on %d", i+1, day.Day, lastDay)
		}
		lastDay = day.Day
		days = append(days, day)
	}

	return contract.NewItinerary(days), nil
}

func convertDay(rd rawDay) (contract.Day, error) {
	switch {
	case rd.Day == nil:
		return contract.Day{}, fmt.Errorf("missing day")
	case rd.Title == nil:
		return contract.Day{}, fmt.Errorf("missing title")
	case rd.Activities == nil:
		return contract.Day{}, fmt.Errorf("missing activities")
	}

	activities := make([]contract.Activity, 0, len(*rd.Activities))
	for j, ra := range *rd.Activities {
		switch {
		case ra.Time == nil:
			return contract.Day{}, fmt.Errorf("activity #%d: missing time", j+1)
		case ra.Description == nil:
			return contract.Day{}, fmt.Errorf("activity #%d: missing description", j+1)
		case ra.Reason == nil:
			return contract.Day{}, fmt.Errorf("activity #%d: missing reason", j+1)
		case ra.Price == nil:
			return contract.Day{}, fmt.Errorf("activity #%d: missing price", j+1)
		case *ra.Price < 0:
			return contract.Day{}, fmt.Errorf("activity #%d: negative price %d", j+1, *ra.Price)
		}
		activities = append(activities, contract.Activity{
			Time:        *ra.Time,
			Description: *ra.Description,
			Reason:      *ra.Reason,
			Price:       *ra.Price,
		})
	}

	return contract.Day{
		Day:        *rd.Day,
		Title:      *rd.Title,
		Activities: activities,
	}, nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json ... ```.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func shapeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", utils.ErrStructuredOutput, fmt.Sprintf(format, args...))
}
