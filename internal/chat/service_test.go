package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanmitra/server/internal/gemini"
	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/repo"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]model.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]model.ChatSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, userID uuid.UUID, title string) (model.ChatSession, error) {
	session := model.ChatSession{ID: uuid.New(), UserID: userID, Title: title, CreatedAt: time.Now()}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionRepo) GetForUser(ctx context.Context, sessionID, userID uuid.UUID) (model.ChatSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.UserID != userID {
		return model.ChatSession{}, model.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	for _, session := range f.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (f *fakeSessionRepo) UpdateTitle(ctx context.Context, sessionID uuid.UUID, title string) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return model.ErrSessionNotFound
	}
	session.Title = title
	f.sessions[sessionID] = session
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if _, ok := f.sessions[sessionID]; !ok {
		return model.ErrSessionNotFound
	}
	delete(f.sessions, sessionID)
	return nil
}

type fakeMessageRepo struct {
	messages []model.ChatMessage
}

func (f *fakeMessageRepo) Append(ctx context.Context, sessionID uuid.UUID, role, content string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	for _, msg := range f.messages {
		if msg.SessionID == sessionID {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (f *fakeMessageRepo) GetForUser(ctx context.Context, messageID, userID uuid.UUID) (model.ChatMessage, error) {
	return model.ChatMessage{}, model.ErrMessageNotFound
}

type fakeUserDirectory struct {
	users map[uuid.UUID]model.User
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{users: make(map[uuid.UUID]model.User)}
}

func (f *fakeUserDirectory) add(user model.User) {
	f.users[user.ID] = user
}

func (f *fakeUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserDirectory) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserDirectory) CreateVerified(ctx context.Context, phone string) (model.User, error) {
	return model.User{}, errors.New("not implemented")
}

func (f *fakeUserDirectory) List(ctx context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeUserDirectory) UpdateProfile(ctx context.Context, id uuid.UUID, upd repo.ProfileUpdate) error {
	return nil
}

func (f *fakeUserDirectory) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// fakeGenerator records calls and returns canned results.
type fakeGenerator struct {
	reply      string
	replyErr   error
	title      string
	titleErr   error
	titleCalls int
	lastSystem string
}

func (f *fakeGenerator) GenerateReply(ctx context.Context, systemInstruction string, history []gemini.Turn) (string, error) {
	f.lastSystem = systemInstruction
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeGenerator) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	f.titleCalls++
	if f.titleErr != nil {
		return "", f.titleErr
	}
	return f.title, nil
}

type chatFixture struct {
	svc      *Service
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	users    *fakeUserDirectory
	gen      *fakeGenerator
	owner    model.User
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	sessions := newFakeSessionRepo()
	messages := &fakeMessageRepo{}
	users := newFakeUserDirectory()
	gen := &fakeGenerator{reply: "Use drip irrigation for your well.", title: "Cotton Sowing Advice"}

	owner := model.User{ID: uuid.New(), PhoneNumber: "9876543210", FullName: "Ramesh", IsVerified: true}
	users.add(owner)

	return &chatFixture{
		svc:      NewService(sessions, messages, users, gen),
		sessions: sessions,
		messages: messages,
		users:    users,
		gen:      gen,
		owner:    owner,
	}
}

func TestCreateSession_unknownUser(t *testing.T) {
	f := newChatFixture(t)
	_, err := f.svc.CreateSession(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestCreateSession_defaultTitle(t *testing.T) {
	f := newChatFixture(t)
	session, err := f.svc.CreateSession(context.Background(), f.owner.ID, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, session.Title)

	session, err = f.svc.CreateSession(context.Background(), f.owner.ID, "Wheat Questions")
	require.NoError(t, err)
	assert.Equal(t, "Wheat Questions", session.Title)
}

func TestPostMessage_appendsBothTurns(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.owner.ID, "My Farm")
	require.NoError(t, err)

	before, err := f.svc.GetHistory(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)

	msg, err := f.svc.PostMessage(ctx, session.ID, f.owner.ID, "When should I sow cotton?")
	require.NoError(t, err)
	assert.Equal(t, model.RoleModel, msg.Role)
	assert.Equal(t, f.gen.reply, msg.Content)

	after, err := f.svc.GetHistory(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before)+2, "one user turn and one model turn")
	assert.Equal(t, model.RoleUser, after[len(after)-2].Role)
	assert.Equal(t, model.RoleModel, after[len(after)-1].Role)
}

func TestPostMessage_ownershipCheck(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.owner.ID, "My Farm")
	require.NoError(t, err)

	intruder := model.User{ID: uuid.New(), PhoneNumber: "9123456780"}
	f.users.add(intruder)

	_, err = f.svc.PostMessage(ctx, session.ID, intruder.ID, "hello")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Empty(t, f.messages.messages, "no message may be appended on ownership failure")
}

func TestPostMessage_modelFailure(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.owner.ID, "My Farm")
	require.NoError(t, err)

	f.gen.replyErr = errors.New("upstream timeout")
	_, err = f.svc.PostMessage(ctx, session.ID, f.owner.ID, "hello")
	assert.ErrorIs(t, err, model.ErrAIUnavailable)

	history, err := f.svc.GetHistory(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "the user turn survives a failed model call")
	assert.Equal(t, model.RoleUser, history[0].Role)
}

func TestPostMessage_autoTitleOnPlaceholders(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	for _, placeholder := range []string{"New Consultation", "New Chat", "string"} {
		session, err := f.sessions.Create(ctx, f.owner.ID, placeholder)
		require.NoError(t, err)

		_, err = f.svc.PostMessage(ctx, session.ID, f.owner.ID, "cotton disease help")
		require.NoError(t, err)

		updated, err := f.sessions.GetForUser(ctx, session.ID, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cotton Sowing Advice", updated.Title, "placeholder %q must be replaced", placeholder)
	}
}

func TestPostMessage_customTitleUntouched(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.sessions.Create(ctx, f.owner.ID, "My Cotton Notes")
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, session.ID, f.owner.ID, "anything")
	require.NoError(t, err)

	assert.Equal(t, 0, f.gen.titleCalls, "title generation must not run for custom titles")
	updated, err := f.sessions.GetForUser(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Cotton Notes", updated.Title)
}

func TestPostMessage_titleFailureIsSwallowed(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.sessions.Create(ctx, f.owner.ID, DefaultTitle)
	require.NoError(t, err)

	f.gen.titleErr = errors.New("title model down")
	msg, err := f.svc.PostMessage(ctx, session.ID, f.owner.ID, "hello")
	require.NoError(t, err, "title failures must not fail the post")
	assert.Equal(t, model.RoleModel, msg.Role)

	updated, err := f.sessions.GetForUser(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, updated.Title, "prior title is kept on failure")
}

func TestPostMessage_generatedTitleIsCleaned(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.sessions.Create(ctx, f.owner.ID, DefaultTitle)
	require.NoError(t, err)

	f.gen.title = `1. "Cotton Disease Info"`
	_, err = f.svc.PostMessage(ctx, session.ID, f.owner.ID, "my cotton leaves have spots")
	require.NoError(t, err)

	updated, err := f.sessions.GetForUser(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotton Disease Info", updated.Title)
}

func TestDeleteSession_ownershipCheck(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.owner.ID, "My Farm")
	require.NoError(t, err)

	err = f.svc.DeleteSession(ctx, session.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	err = f.svc.DeleteSession(ctx, session.ID, f.owner.ID)
	require.NoError(t, err)

	_, err = f.svc.GetHistory(ctx, session.ID, f.owner.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}
