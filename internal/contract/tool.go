package contract

import (
	"encoding/json"

	"concierge/pkg/utils"
)

const (
	ToolBookRide = "book_ride"

	ParamPickupLocation      = "pickup_location"
	ParamDestinationLocation = "destination_location"

	// CurrentLocationLabel names a pickup taken from caller-supplied coordinates.
	CurrentLocationLabel = "Current Location"

	LocationRequestMessage = "I need your current location to book this ride. Please share your location and send the request again."
)

// BookRideTool is offered to the model on every negotiation turn.
var BookRideTool = utils.ToolSpec{
	Name:        ToolBookRide,
	Description: "Book a ride for the user from a pickup location to a destination in Switzerland. Use only when the user explicitly asks for a ride, taxi, car or transfer.",
	Params: []utils.ToolParam{
		{
			Name:        ParamPickupLocation,
			Description: "Where the ride starts: a place name, or 'current position' when the user means where they are now.",
			Required:    true,
		},
		{
			Name:        ParamDestinationLocation,
			Description: "Where the ride ends: a place name.",
			Required:    true,
		},
	},
}

// Tools is the closed set of tools the negotiator understands.
var Tools = map[string]utils.ToolSpec{
	ToolBookRide: BookRideTool,
}

// Coordinates are [longitude, latitude], the order used by the mapping service.
type Coordinates [2]float64

func NewCoordinates(lon, lat float64) Coordinates {
	return Coordinates{lon, lat}
}

func (c Coordinates) Lon() float64 { return c[0] }
func (c Coordinates) Lat() float64 { return c[1] }

type Location struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// RideRequest is the payload of book_ride once both ends are resolved.
type RideRequest struct {
	Pickup      Location `json:"pickup"`
	Destination Location `json:"destination"`
}

type ToolInvocation struct {
	Name string
	Ride RideRequest
}

// MarshalJSON renders the invocation the way clients receive it.
func (t ToolInvocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ToolName   string      `json:"tool_name"`
		ToolParams RideRequest `json:"tool_params"`
	}{t.Name, t.Ride})
}
