package request_models

type CreateSessionRequest struct {
	Prompt string `json:"prompt"`
}
