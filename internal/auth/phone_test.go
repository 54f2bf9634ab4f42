package auth

import (
	"testing"

	"github.com/kisanmitra/server/internal/model"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "6000000000", "7123456789", "8999999999"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", phone, err)
		}
	}

	invalid := []string{
		"",
		"987654321",    // 9 digits
		"98765432100",  // 11 digits
		"5876543210",   // first digit out of range
		"0876543210",   // first digit out of range
		"98765a3210",   // non-digit
		"+919876543210",
		"98765 43210",
	}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err != model.ErrInvalidPhone {
			t.Errorf("ValidatePhone(%q) = %v, want ErrInvalidPhone", phone, err)
		}
	}
}

func TestValidateCode(t *testing.T) {
	if err := validateCode("123456"); err != nil {
		t.Errorf("validateCode(123456) = %v, want nil", err)
	}

	invalid := []string{
		"",
		"12345",    // too short
		"1234567",  // too long
		"12345a",   // non-digit
		"000000",   // blocked sentinel
		" 123456",
	}
	for _, code := range invalid {
		if err := validateCode(code); err != model.ErrInvalidOTP {
			t.Errorf("validateCode(%q) = %v, want ErrInvalidOTP", code, err)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("generated code %q is not 6 digits", code)
		}
		if code == blockedCode {
			t.Fatalf("generated the blocked sentinel code")
		}
		if err := validateCode(code); err != nil {
			t.Fatalf("generated code %q fails validation: %v", code, err)
		}
	}
}
