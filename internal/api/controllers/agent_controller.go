package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"concierge/internal/models/request_models"
	"concierge/internal/models/response_models"
	"concierge/internal/services"
	"concierge/pkg/utils"
)

type AgentController struct {
	agentService   services.AgentServiceInterface
	moodService    services.MoodServiceInterface
	insightService services.InsightServiceInterface
}

func NewAgentController(
	agentService services.AgentServiceInterface,
	moodService services.MoodServiceInterface,
	insightService services.InsightServiceInterface,
) *AgentController {
	return &AgentController{
		agentService:   agentService,
		moodService:    moodService,
		insightService: insightService,
	}
}

// RunNeuralAgent godoc
// @Summary Plan a trip or book a ride
// @Description Runs one negotiation turn. The data holds an itinerary, a book_ride tool call, or a location request.
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body request_models.AgentRequest true "Prompt or messages, optional session and current location"
// @Success 200 {object} response_models.AgentResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /agents/neural [post]
func (a *AgentController) RunNeuralAgent(c *gin.Context) {
	var req request_models.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	coords, err := req.Coordinates()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	res, err := a.agentService.RunAgent(c.Request.Context(), services.RunAgentInput{
		UserID:          c.GetString("user_id"),
		SessionID:       req.SessionID,
		Prompt:          req.Prompt,
		Messages:        req.Messages,
		CurrentLocation: coords,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewAgentResponse(res.SessionID, res.Outcome), "Agent run completed")
}

// RunConversationalAgent godoc
// @Summary Next requirements question
// @Description Returns the next question to ask, or READY_TO_PLAN with ready=true once everything is known.
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body request_models.ConversationRequest true "Transcript or session"
// @Success 200 {object} response_models.ConversationResponse
// @Router /agents/conversational [post]
func (a *AgentController) RunConversationalAgent(c *gin.Context) {
	var req request_models.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := a.agentService.Converse(c.Request.Context(), services.ConverseInput{
		UserID:    c.GetString("user_id"),
		SessionID: req.SessionID,
		Messages:  req.Messages,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp := response_models.ConversationResponse{
		Response: res.Reply.Response,
		State:    string(res.Reply.State),
		Ready:    res.Reply.Ready,
	}
	if res.SessionID != uuid.Nil {
		resp.SessionID = res.SessionID.String()
	}
	utils.RespondSuccess(c, resp, "")
}

// RunEmotionalAgent godoc
// @Summary Detect the mood of a message
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body request_models.PromptRequest true "Text to classify"
// @Success 200 {object} response_models.MoodResponse
// @Router /agents/emotional [post]
func (a *AgentController) RunEmotionalAgent(c *gin.Context) {
	var req request_models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	mood, err := a.moodService.DetectMood(c.Request.Context(), req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.MoodResponse{Mood: mood.Mood, Color: mood.Color}, "")
}

func (a *AgentController) RunRadarAgent(c *gin.Context) {
	var req request_models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	summary, err := a.insightService.Radar(c.Request.Context(), req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RadarResponse{Response: summary}, "")
}

func (a *AgentController) GetRecommendationContext(c *gin.Context) {
	var req request_models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	content, err := a.insightService.RecommendationContext(c.Request.Context(), req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ContextResponse{Content: content}, "")
}
