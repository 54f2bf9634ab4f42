package auth

import (
	"strings"

	"github.com/kisanmitra/server/internal/model"
)

// ValidatePhone checks the Indian mobile number format: exactly 10 digits,
// first digit 6-9. Returns model.ErrInvalidPhone on any violation.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 {
		return model.ErrInvalidPhone
	}
	if phone[0] < '6' || phone[0] > '9' {
		return model.ErrInvalidPhone
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return model.ErrInvalidPhone
		}
	}
	return nil
}

// validateCode checks the OTP format: non-blank, purely numeric, exactly
// 6 digits, and not the blocked "000000" sentinel.
func validateCode(code string) error {
	if code == "" || len(code) != otpLength {
		return model.ErrInvalidOTP
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return model.ErrInvalidOTP
		}
	}
	if code == blockedCode {
		return model.ErrInvalidOTP
	}
	return nil
}
