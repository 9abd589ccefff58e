package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devdocs/internal/chat"
	"github.com/sakif/devdocs/internal/service"
)

// ChatHandler fronts the DevDocs assistant endpoint.
type ChatHandler struct {
	chats  *service.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chats *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger}
}

type chatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []chat.Message `json:"conversationHistory"`
}

type chatResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// HandleChat generates one assistant reply.
//
// HTTP: POST /api/chat
// Body: {"message": "...", "conversationHistory": [{"role":"user","content":"..."}]}
//
// The conversation lives entirely in the client; each request carries the
// full history.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	reply, err := h.chats.Respond(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message: reply,
		Success: true,
	})
}
