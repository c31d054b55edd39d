package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"concierge/internal/contract"
	"concierge/pkg/utils"
)

type NegotiationInput struct {
	Prompt string
	// CurrentLocation is nil when the caller did not share coordinates.
	CurrentLocation *contract.Coordinates
	// History holds prior turns, oldest first, including earlier itineraries.
	History []utils.ChatMessage
}

type ToolNegotiatorInterface interface {
	Negotiate(ctx context.Context, in NegotiationInput) (contract.Outcome, error)
}

type ToolNegotiator struct {
	llm      utils.LLMClient
	resolver LocationResolver
	phrases  map[string]struct{}
	logger   *zap.Logger
}

func NewToolNegotiator(llm utils.LLMClient, resolver LocationResolver, currentLocationPhrases []string, logger *zap.Logger) ToolNegotiatorInterface {
	phrases := make(map[string]struct{}, len(currentLocationPhrases))
	for _, p := range currentLocationPhrases {
		if p = normalizePhrase(p); p != "" {
			phrases[p] = struct{}{}
		}
	}
	return &ToolNegotiator{
		llm:      llm,
		resolver: resolver,
		phrases:  phrases,
		logger:   logger,
	}
}

type bookRideArgs struct {
	Pickup      string `json:"pickup_location"`
	Destination string `json:"destination_location"`
}

// Negotiate makes exactly one model call and turns its answer into an outcome.
func (n *ToolNegotiator) Negotiate(ctx context.Context, in NegotiationInput) (contract.Outcome, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}

	messages := make([]utils.ChatMessage, 0, len(in.History)+1)
	messages = append(messages, in.History...)
	messages = append(messages, utils.ChatMessage{Role: utils.RoleUser, Content: prompt})

	completion, err := n.llm.Complete(ctx, utils.CompletionRequest{
		System:   contract.NegotiatorSystemPrompt,
		Messages: messages,
		JSON:     true,
		Tools:    []utils.ToolSpec{contract.BookRideTool},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if completion == nil {
		return nil, fmt.Errorf("%w: empty completion", utils.ErrUnexpectedBehaviorOfAI)
	}

	if completion.ToolCall != nil {
		return n.negotiateTool(ctx, *completion.ToolCall, in.CurrentLocation)
	}

	if strings.TrimSpace(completion.Content) == "" {
		return nil, fmt.Errorf("%w: completion has neither content nor tool call", utils.ErrUnexpectedBehaviorOfAI)
	}

	itinerary, err := ParseItinerary(completion.Content)
	if err != nil {
		n.logger.Warn("model output rejected", zap.Error(err), zap.Int("content_length", len(completion.Content)))
		return nil, err
	}
	return contract.ItineraryOutcome{Itinerary: itinerary}, nil
}

func (n *ToolNegotiator) negotiateTool(ctx context.Context, call utils.ToolCall, current *contract.Coordinates) (contract.Outcome, error) {
	if _, known := contract.Tools[call.Name]; !known {
		return nil, fmt.Errorf("%w: unknown tool %q", utils.ErrStructuredOutput, call.Name)
	}

	var args bookRideArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: %s arguments: %v", utils.ErrStructuredOutput, call.Name, err)
	}
	args.Pickup = strings.TrimSpace(args.Pickup)
	args.Destination = strings.TrimSpace(args.Destination)
	if args.Pickup == "" || args.Destination == "" {
		return nil, fmt.Errorf("%w: %s needs both %s and %s", utils.ErrStructuredOutput,
			call.Name, contract.ParamPickupLocation, contract.ParamDestinationLocation)
	}

	var pickup contract.Location
	if n.IsCurrentLocationPhrase(args.Pickup) {
		if current == nil {
			n.logger.Info("ride needs current location", zap.String("destination", args.Destination))
			return contract.LocationRequestOutcome{Message: contract.LocationRequestMessage}, nil
		}
		pickup = contract.Location{Name: contract.CurrentLocationLabel, Coordinates: *current}
	} else {
		loc, err := n.resolve(ctx, args.Pickup, "pickup")
		if err != nil {
			return nil, err
		}
		pickup = loc
	}

	destination, err := n.resolve(ctx, args.Destination, "destination")
	if err != nil {
		return nil, err
	}

	return contract.RideOutcome{Invocation: contract.ToolInvocation{
		Name: call.Name,
		Ride: contract.RideRequest{Pickup: pickup, Destination: destination},
	}}, nil
}

func (n *ToolNegotiator) resolve(ctx context.Context, place, role string) (contract.Location, error) {
	loc, err := n.resolver.Search(ctx, place)
	if err == nil {
		return loc, nil
	}

	var notFound *utils.LocationNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, utils.ErrLocationNotFound) {
		return contract.Location{}, &utils.LocationNotFoundError{Place: place, Role: role}
	}
	if errors.Is(err, utils.ErrLocationServiceUnavailable) || errors.Is(err, utils.ErrInvalidInput) {
		return contract.Location{}, err
	}
	return contract.Location{}, fmt.Errorf("%w: resolve %s: %w", utils.ErrLocationServiceUnavailable, role, err)
}

// IsCurrentLocationPhrase reports whether pickup text means "where I am now".
func (n *ToolNegotiator) IsCurrentLocationPhrase(text string) bool {
	_, ok := n.phrases[normalizePhrase(text)]
	return ok
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
