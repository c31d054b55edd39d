package contract

// Outcome is the result of one negotiation turn. The implementations below
// are the only ones; callers switch over all three.
type Outcome interface {
	outcome()
}

type ItineraryOutcome struct {
	Itinerary Itinerary
}

type RideOutcome struct {
	Invocation ToolInvocation
}

// LocationRequestOutcome asks the caller for current coordinates. Nothing was booked.
type LocationRequestOutcome struct {
	Message string
}

func (ItineraryOutcome) outcome()       {}
func (RideOutcome) outcome()            {}
func (LocationRequestOutcome) outcome() {}

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is one transcript entry as sent by clients.
type Message struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}
