package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
)

// MessageRepo defines the interface for chat message repository operations
type MessageRepo interface {
	Append(ctx context.Context, sessionID uuid.UUID, role, content string) (model.ChatMessage, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error)
	GetForUser(ctx context.Context, messageID, userID uuid.UUID) (model.ChatMessage, error)
}

type messageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a new MessageRepo instance
func NewMessageRepo(db *sql.DB) MessageRepo {
	return &messageRepo{db: db}
}

// Append inserts one turn at the end of the session.
func (r *messageRepo) Append(ctx context.Context, sessionID uuid.UUID, role, content string) (model.ChatMessage, error) {
	var msg model.ChatMessage
	var idStr string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, sessionID, role, content).Scan(&idStr, &msg.CreatedAt)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("insert message: %w", err)
	}

	msg.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("parse message ID: %w", err)
	}
	msg.SessionID = sessionID
	msg.Role = role
	msg.Content = content
	return msg, nil
}

// ListBySession returns all turns of the session in creation order.
func (r *messageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		var idStr, sessionIDStr string
		if err := rows.Scan(&idStr, &sessionIDStr, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse message ID: %w", err)
		}
		msg.SessionID, err = uuid.Parse(sessionIDStr)
		if err != nil {
			return nil, fmt.Errorf("parse session ID: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// GetForUser returns the message only when its session is owned by userID.
// The join keeps other users' messages indistinguishable from missing ones.
func (r *messageRepo) GetForUser(ctx context.Context, messageID, userID uuid.UUID) (model.ChatMessage, error) {
	query := `
		SELECT m.id, m.session_id, m.role, m.content, m.created_at
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE m.id = $1 AND s.user_id = $2
	`
	var msg model.ChatMessage
	var idStr, sessionIDStr string
	err := r.db.QueryRowContext(ctx, query, messageID, userID).Scan(
		&idStr,
		&sessionIDStr,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ChatMessage{}, model.ErrMessageNotFound
		}
		return model.ChatMessage{}, fmt.Errorf("query message: %w", err)
	}

	msg.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("parse message ID: %w", err)
	}
	msg.SessionID, err = uuid.Parse(sessionIDStr)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("parse session ID: %w", err)
	}
	return msg, nil
}
