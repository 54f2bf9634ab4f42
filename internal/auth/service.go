package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/kisanmitra/server/internal/model"
	"github.com/kisanmitra/server/internal/repo"
)

const (
	otpLength   = 6
	otpValidity = 5 * time.Minute

	// blockedCode is permanently rejected so clients cannot ship it as a
	// placeholder default.
	blockedCode = "000000"
)

// Verification outcome statuses.
const (
	StatusNewUser      = "New User"
	StatusExistingUser = "Existing User"
)

// VerifyResult is the outcome of a successful OTP verification.
type VerifyResult struct {
	Status string
	User   model.User
}

// Service orchestrates OTP issuance and verification against the OTP store
// and the user directory.
type Service struct {
	otpRepo  repo.OtpRepo
	userRepo repo.UserRepo
	now      func() time.Time
}

// NewService creates a new auth service
func NewService(otpRepo repo.OtpRepo, userRepo repo.UserRepo) *Service {
	return &Service{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// IssueOTP validates the phone, supersedes any previously issued codes and
// stores a fresh 6-digit code valid for 5 minutes. The code is returned to
// the caller only so dev mode can echo it; production delivery is
// out-of-band and the HTTP response never contains it.
func (s *Service) IssueOTP(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if err := ValidatePhone(phone); err != nil {
		return "", err
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}

	expiresAt := s.now().Add(otpValidity)
	if _, err := s.otpRepo.Replace(ctx, phone, code, expiresAt); err != nil {
		return "", fmt.Errorf("store OTP: %w", err)
	}
	return code, nil
}

// VerifyOTP checks the code against the stored record (strict policy: the
// record must exist, be unused and unexpired; it is consumed on success).
// A previously unseen phone gets a verified user created for it.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (VerifyResult, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)

	if err := ValidatePhone(phone); err != nil {
		return VerifyResult{}, err
	}
	if err := validateCode(code); err != nil {
		return VerifyResult{}, err
	}

	otp, err := s.otpRepo.FindUnused(ctx, phone, code)
	if err != nil {
		return VerifyResult{}, err
	}
	if otp.ExpiresAt.Before(s.now()) {
		return VerifyResult{}, model.ErrOTPExpired
	}
	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return VerifyResult{}, fmt.Errorf("consume OTP: %w", err)
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err == nil {
		return VerifyResult{Status: StatusExistingUser, User: user}, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return VerifyResult{}, fmt.Errorf("look up user: %w", err)
	}

	user, err = s.userRepo.CreateVerified(ctx, phone)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("create user: %w", err)
	}
	return VerifyResult{Status: StatusNewUser, User: user}, nil
}

// generateCode returns a uniformly random 6-digit code in 100000..999999,
// so the blocked "000000" sentinel can never be issued.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
