package model

import "errors"

var (
	// ErrInvalidPhone is returned when a phone number fails format validation.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidOTP covers malformed codes, the blocked "000000" sentinel,
	// unknown codes and already-used codes. The caller cannot tell which,
	// which is intentional.
	ErrInvalidOTP = errors.New("invalid OTP")
	// ErrOTPExpired is returned when the code matched but its validity
	// window has passed.
	ErrOTPExpired = errors.New("OTP has expired")

	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned both when a session does not exist and
	// when it is owned by a different user, so callers cannot probe for
	// other users' sessions.
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrAIUnavailable  = errors.New("AI service unavailable")
	ErrTTSUnavailable = errors.New("TTS service unavailable")
	// ErrEmptyText is returned when a message has no speakable content
	// left after markdown cleanup.
	ErrEmptyText = errors.New("no speakable text")
)
