package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/gemini"
	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/repo"
)

// DefaultTitle is used when a create-session request carries no title.
const DefaultTitle = "New Consultation"

// Placeholder titles that auto-titling is allowed to overwrite. "string" is
// what untouched Swagger-UI requests send.
var defaultTitles = map[string]bool{
	"":                 true,
	"New Consultation": true,
	"New Chat":         true,
	"string":           true,
}

// Generator produces model replies and title summaries.
type Generator interface {
	GenerateReply(ctx context.Context, systemInstruction string, history []gemini.Turn) (string, error)
	GenerateTitle(ctx context.Context, prompt string) (string, error)
}

// Service orchestrates message append, history replay and model invocation
// against the chat session ledger.
type Service struct {
	sessions repo.SessionRepo
	messages repo.MessageRepo
	users    repo.UserRepo
	gen      Generator
}

// NewService creates a new chat service
func NewService(sessions repo.SessionRepo, messages repo.MessageRepo, users repo.UserRepo, gen Generator) *Service {
	return &Service{
		sessions: sessions,
		messages: messages,
		users:    users,
		gen:      gen,
	}
}

// CreateSession creates a session owned by userID. An empty title falls back
// to the default placeholder, which auto-titling may later overwrite.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID, title string) (model.ChatSession, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.ChatSession{}, err
	}
	if title == "" {
		title = DefaultTitle
	}
	return s.sessions.Create(ctx, userID, title)
}

// ListSessions returns the user's sessions, most recent first.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// PostMessage appends the user's turn, sends the full history to the model
// and appends the reply. Returns the persisted model turn.
//
// The user turn is committed before the model call, so a failed reply still
// preserves the question. Auto-titling runs after the reply is stored and
// never fails the operation.
func (s *Service) PostMessage(ctx context.Context, sessionID, userID uuid.UUID, content string) (model.ChatMessage, error) {
	session, err := s.sessions.GetForUser(ctx, sessionID, userID)
	if err != nil {
		return model.ChatMessage{}, err
	}

	if _, err := s.messages.Append(ctx, session.ID, model.RoleUser, content); err != nil {
		return model.ChatMessage{}, fmt.Errorf("append user message: %w", err)
	}

	history, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("load history: %w", err)
	}
	turns := make([]gemini.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, gemini.Turn{Role: msg.Role, Text: msg.Content})
	}

	owner, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("load session owner: %w", err)
	}

	reply, err := s.gen.GenerateReply(ctx, buildSystemInstruction(owner), turns)
	if err != nil {
		log.Printf("Gemini API error: %v", err)
		return model.ChatMessage{}, fmt.Errorf("%w: %v", model.ErrAIUnavailable, err)
	}

	aiMsg, err := s.messages.Append(ctx, session.ID, model.RoleModel, reply)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("append model message: %w", err)
	}

	s.maybeRetitle(ctx, session, content)

	return aiMsg, nil
}

// maybeRetitle derives a title from the just-posted content when the session
// still carries a placeholder. Best effort: every error is logged and
// swallowed so the posted message is never lost over a title.
func (s *Service) maybeRetitle(ctx context.Context, session model.ChatSession, content string) {
	if !defaultTitles[session.Title] {
		return
	}

	raw, err := s.gen.GenerateTitle(ctx, titlePrompt(content))
	if err != nil {
		log.Printf("Title generation failed (%v). Keeping title %q.", err, session.Title)
		return
	}

	title := cleanTitle(raw)
	if title == "" {
		return
	}
	if err := s.sessions.UpdateTitle(ctx, session.ID, title); err != nil {
		log.Printf("Title update failed (%v). Keeping title %q.", err, session.Title)
		return
	}
	log.Printf("Auto-updated session %s title to: %s", session.ID, title)
}

// GetHistory returns all turns of the session in creation order. The same
// ownership rule as PostMessage applies.
func (s *Service) GetHistory(ctx context.Context, sessionID, userID uuid.UUID) ([]model.ChatMessage, error) {
	if _, err := s.sessions.GetForUser(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

// DeleteSession removes the session and its messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	if _, err := s.sessions.GetForUser(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
