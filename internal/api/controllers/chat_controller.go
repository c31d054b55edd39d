package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/models/request_models"
	"concierge/internal/models/response_models"
	"concierge/internal/services"
	"concierge/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{chatService: chatService}
}

// CreateSession godoc
// @Summary Create a chat session
// @Description Creates a session for the caller. A prompt, when given, is used to generate the title.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.CreateSessionRequest false "Optional first prompt"
// @Success 201 {object} response_models.SessionResponse
// @Security BearerAuth
// @Router /chat/sessions [post]
func (ch *ChatController) CreateSession(c *gin.Context) {
	var req request_models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := ch.chatService.CreateSession(c.Request.Context(), c.GetString("user_id"), req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.NewSessionResponse(*session), "Session created")
}

// ListSessions godoc
// @Summary List the caller's chat sessions, newest first
// @Tags Chat
// @Produce json
// @Success 200 {array} response_models.SessionResponse
// @Security BearerAuth
// @Router /chat/sessions [get]
func (ch *ChatController) ListSessions(c *gin.Context) {
	sessions, err := ch.chatService.ListSessions(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, response_models.NewSessionResponse(s))
	}
	utils.RespondSuccess(c, out, "Sessions fetched successfully")
}

// GetSession godoc
// @Summary Get a session with its turns, oldest first
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response_models.SessionDetailResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chat/sessions/{sessionId} [get]
func (ch *ChatController) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, turns, err := ch.chatService.GetSessionTurns(c.Request.Context(), c.GetString("user_id"), sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewSessionDetailResponse(*session, turns), "Session fetched successfully")
}
