package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kisanmitra/server/internal/model"
)

// ProfileUpdate carries the optional profile fields of a user update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FullName    *string
	HasFarm     *string
	WaterSupply *string
	FarmType    *string
}

// UserRepo defines the interface for user repository operations
type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByPhone(ctx context.Context, phone string) (model.User, error)
	CreateVerified(ctx context.Context, phone string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo instance
func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

const userColumns = `id, phone_number, full_name, has_farm, water_supply, farm_type, is_verified, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	var idStr string
	err := row.Scan(
		&idStr,
		&user.PhoneNumber,
		&user.FullName,
		&user.HasFarm,
		&user.WaterSupply,
		&user.FarmType,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse user ID: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// GetByPhone retrieves a user by phone number
func (r *userRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE phone_number = $1
	`, phone)
	return scanUser(row)
}

// CreateVerified inserts a verified user for the phone number. If a concurrent
// verification already created the row, the existing user is returned.
func (r *userRepo) CreateVerified(ctx context.Context, phone string) (model.User, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (phone_number, is_verified)
		VALUES ($1, TRUE)
		ON CONFLICT (phone_number) DO NOTHING
	`, phone)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return r.GetByPhone(ctx, phone)
}

// List returns all users ordered by creation time.
func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		var idStr string
		err := rows.Scan(
			&idStr,
			&user.PhoneNumber,
			&user.FullName,
			&user.HasFarm,
			&user.WaterSupply,
			&user.FarmType,
			&user.IsVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user ID: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of upd. COALESCE keeps existing
// values for fields the caller did not send.
func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET full_name    = COALESCE($2, full_name),
		    has_farm     = COALESCE($3, has_farm),
		    water_supply = COALESCE($4, water_supply),
		    farm_type    = COALESCE($5, farm_type),
		    updated_at   = now()
		WHERE id = $1
	`, id, upd.FullName, upd.HasFarm, upd.WaterSupply, upd.FarmType)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Delete removes the user. Sessions and messages go with it (FK cascade).
func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
