package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/utils"
)

// UserRepo persists application accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, name, email, phone, password_hash, role, avatar_url, current_plan_id, subscription_status, is_active, created_at, updated_at`

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (model.User, error) {
	var (
		u      model.User
		phone  sql.NullString
		avatar sql.NullString
		planID sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &phone, &u.PasswordHash, &u.Role,
		&avatar, &planID, &u.SubscriptionStatus, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	if avatar.Valid {
		a := avatar.String
		u.AvatarURL = &a
	}
	if planID.Valid {
		id := uint64(planID.Int64)
		u.CurrentPlanID = &id
	}
	return u, nil
}

// Create inserts a user with a bcrypt-hashed password and returns the new
// ID.  New accounts start with subscription_status "inactive".  The MySQL
// duplicate-key error on the unique email index maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, subscription_status) VALUES (?,?,?,?,'inactive')",
		name, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile patches the optional profile fields.  Nil pointers leave
// the stored value untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone, avatarURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET
		   name = COALESCE(?, name),
		   phone = COALESCE(?, phone),
		   avatar_url = COALESCE(?, avatar_url)
		 WHERE id = ?`,
		name, phone, avatarURL, id)
	return err
}
