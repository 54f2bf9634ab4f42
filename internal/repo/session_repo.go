package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
)

// SessionRepo defines the interface for chat session repository operations
type SessionRepo interface {
	Create(ctx context.Context, userID uuid.UUID, title string) (model.ChatSession, error)
	GetForUser(ctx context.Context, sessionID, userID uuid.UUID) (model.ChatSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error)
	UpdateTitle(ctx context.Context, sessionID uuid.UUID, title string) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type sessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo instance
func NewSessionRepo(db *sql.DB) SessionRepo {
	return &sessionRepo{db: db}
}

// Create inserts a session owned by userID.
func (r *sessionRepo) Create(ctx context.Context, userID uuid.UUID, title string) (model.ChatSession, error) {
	var session model.ChatSession
	var idStr string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (user_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, title).Scan(&idStr, &session.CreatedAt)
	if err != nil {
		return model.ChatSession{}, fmt.Errorf("insert session: %w", err)
	}

	session.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.ChatSession{}, fmt.Errorf("parse session ID: %w", err)
	}
	session.UserID = userID
	session.Title = title
	return session, nil
}

// GetForUser returns the session only when it is owned by userID.
// A session owned by someone else reads as model.ErrSessionNotFound.
func (r *sessionRepo) GetForUser(ctx context.Context, sessionID, userID uuid.UUID) (model.ChatSession, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`
	var session model.ChatSession
	var idStr, userIDStr string
	err := r.db.QueryRowContext(ctx, query, sessionID, userID).Scan(
		&idStr,
		&userIDStr,
		&session.Title,
		&session.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ChatSession{}, model.ErrSessionNotFound
		}
		return model.ChatSession{}, fmt.Errorf("query session: %w", err)
	}

	session.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.ChatSession{}, fmt.Errorf("parse session ID: %w", err)
	}
	session.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return model.ChatSession{}, fmt.Errorf("parse user ID: %w", err)
	}
	return session, nil
}

// ListByUser returns the user's sessions, most recent first.
func (r *sessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.ChatSession
	for rows.Next() {
		var session model.ChatSession
		var idStr, userIDStr string
		if err := rows.Scan(&idStr, &userIDStr, &session.Title, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse session ID: %w", err)
		}
		session.UserID, err = uuid.Parse(userIDStr)
		if err != nil {
			return nil, fmt.Errorf("parse user ID: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// UpdateTitle overwrites the session title.
func (r *sessionRepo) UpdateTitle(ctx context.Context, sessionID uuid.UUID, title string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE chat_sessions SET title = $2 WHERE id = $1
	`, sessionID, title)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

// Delete removes the session; its messages go with it (FK cascade).
func (r *sessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
