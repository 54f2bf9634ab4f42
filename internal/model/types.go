package model

import (
	"time"

	"github.com/google/uuid"
)

// Message roles stored in chat_messages.role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// DefaultFullName is assigned to users created via OTP verification
// until they update their profile.
const DefaultFullName = "GuestUser"

// User represents a verified account keyed by phone number.
type User struct {
	ID          uuid.UUID
	PhoneNumber string
	FullName    string
	HasFarm     *string
	WaterSupply *string
	FarmType    *string
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// OTP represents a one-time code issued for a phone number.
// History is not unique per phone; issuing a new code deletes prior rows.
type OTP struct {
	ID          uuid.UUID
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	IsUsed      bool
	CreatedAt   time.Time
}

// ChatSession is a conversation thread owned by exactly one user.
type ChatSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	CreatedAt time.Time
}

// ChatMessage is one turn in a session. Immutable once created.
type ChatMessage struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
