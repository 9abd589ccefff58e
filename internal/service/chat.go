package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/chat"
)

// Completer is the slice of the chat client this service needs. Satisfied by
// *chat.Client in production and by a stub in tests.
type Completer interface {
	Complete(ctx context.Context, history []chat.Message, message string) (string, error)
}

// ChatService fronts the DevDocs assistant. Stateless: the client sends the
// whole conversation history with each turn, and nothing is stored here.
type ChatService struct {
	completer Completer
	logger    *slog.Logger
}

// NewChatService creates a ChatService.
func NewChatService(completer Completer, logger *slog.Logger) *ChatService {
	return &ChatService{completer: completer, logger: logger}
}

// maxHistoryTurns bounds how much history is forwarded upstream; older turns
// are dropped from the front. Keeps a long-running conversation from blowing
// the model's context (and the token bill).
const maxHistoryTurns = 20

// Respond generates the assistant's reply to one user message.
func (s *ChatService) Respond(ctx context.Context, message string, history []chat.Message) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperror.ValidationFailed("message", "message is required")
	}

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	reply, err := s.completer.Complete(ctx, history, message)
	if err != nil {
		s.logger.Error("chat completion failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("generating chat response: %w", err)
	}

	return reply, nil
}
