package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
)

// OtpRepo defines the interface for OTP persistence operations
type OtpRepo interface {
	Replace(ctx context.Context, phone, code string, expiresAt time.Time) (uuid.UUID, error)
	FindUnused(ctx context.Context, phone, code string) (model.OTP, error)
	MarkUsed(ctx context.Context, otpID uuid.UUID) error
	CountByPhone(ctx context.Context, phone string) (int, error)
}

type otpRepo struct {
	db *sql.DB
}

// NewOtpRepo creates a new OtpRepo instance
func NewOtpRepo(db *sql.DB) OtpRepo {
	return &otpRepo{db: db}
}

// Replace deletes every existing code for the phone and inserts a new one,
// so at most one live code exists per phone (supersession). Uses an advisory
// lock to serialize concurrent issues for the same phone.
func (r *otpRepo) Replace(ctx context.Context, phone, code string, expiresAt time.Time) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Blocks until we hold the lock; released on COMMIT/ROLLBACK.
	_, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(1, hashtext($1))`, phone)
	if err != nil {
		return uuid.Nil, fmt.Errorf("advisory lock: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM otp_codes WHERE phone_number = $1`, phone)
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete superseded codes: %w", err)
	}

	var idStr string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO otp_codes (phone_number, otp_code, expires_at, is_used)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id
	`, phone, code, expiresAt).Scan(&idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	otpID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse OTP ID: %w", err)
	}
	return otpID, nil
}

// FindUnused returns the unused record matching phone and code.
// Returns model.ErrInvalidOTP when no such record exists.
func (r *otpRepo) FindUnused(ctx context.Context, phone, code string) (model.OTP, error) {
	query := `
		SELECT id, phone_number, otp_code, expires_at, is_used, created_at
		FROM otp_codes
		WHERE phone_number = $1 AND otp_code = $2 AND is_used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	var otp model.OTP
	var idStr string
	err := r.db.QueryRowContext(ctx, query, phone, code).Scan(
		&idStr,
		&otp.PhoneNumber,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.OTP{}, model.ErrInvalidOTP
		}
		return model.OTP{}, fmt.Errorf("query OTP: %w", err)
	}

	otp.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.OTP{}, fmt.Errorf("parse OTP ID: %w", err)
	}
	return otp, nil
}

// MarkUsed sets is_used = TRUE for the record.
func (r *otpRepo) MarkUsed(ctx context.Context, otpID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE otp_codes SET is_used = TRUE WHERE id = $1
	`, otpID)
	if err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("OTP record not found")
	}
	return nil
}

// CountByPhone returns the number of stored codes for the phone.
func (r *otpRepo) CountByPhone(ctx context.Context, phone string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM otp_codes WHERE phone_number = $1
	`, phone).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count codes: %w", err)
	}
	return count, nil
}
