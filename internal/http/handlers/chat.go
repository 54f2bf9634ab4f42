package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/chat"
	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/speech"
)

// ChatHandler handles chat session, message and speech endpoints
type ChatHandler struct {
	chatService   *chat.Service
	speechService *speech.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service, speechService *speech.Service) *ChatHandler {
	return &ChatHandler{
		chatService:   chatService,
		speechService: speechService,
	}
}

// createSessionRequest is the request body for POST /chat/sessions
type createSessionRequest struct {
	Title string `json:"title"`
}

// sessionResponse is the session object in API responses
type sessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func toSessionResponse(session model.ChatSession) sessionResponse {
	return sessionResponse{
		ID:        session.ID.String(),
		UserID:    session.UserID.String(),
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}
}

// postMessageRequest is the request body for POST /chat/{sessionID}/message
type postMessageRequest struct {
	Content string `json:"content"`
}

// messageResponse is the message object in API responses
type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(msg model.ChatMessage) messageResponse {
	return messageResponse{
		ID:        msg.ID.String(),
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

// userIDFromQuery parses the required user_id query parameter.
func userIDFromQuery(r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// HandleCreateSession handles POST /chat/sessions?user_id=
func (h *ChatHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatService.CreateSession(r.Context(), userID, strings.TrimSpace(req.Title))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSessionResponse(session))
}

// HandleListSessions handles GET /chat/sessions/{userID}
func (h *ChatHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	sessions, err := h.chatService.ListSessions(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	responses := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}
	respondJSON(w, http.StatusOK, responses)
}

// HandleDeleteSession handles DELETE /chat/sessions/{sessionID}?user_id=
func (h *ChatHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	if err := h.chatService.DeleteSession(r.Context(), sessionID, userID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}

// HandlePostMessage handles POST /chat/{sessionID}/message?user_id=
func (h *ChatHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondWithError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), sessionID, userID, req.Content)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageResponse(msg))
}

// HandleGetHistory handles GET /chat/{sessionID}/history?user_id=
func (h *ChatHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	messages, err := h.chatService.GetHistory(r.Context(), sessionID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	responses := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, toMessageResponse(msg))
	}
	respondJSON(w, http.StatusOK, responses)
}

// HandleSynthesizeSpeech handles POST /chat/messages/{messageID}/speech?user_id=
// and responds with a WAV byte stream.
func (h *ChatHandler) HandleSynthesizeSpeech(w http.ResponseWriter, r *http.Request) {
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid message ID")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	audio, err := h.speechService.SynthesizeMessage(r.Context(), messageID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
