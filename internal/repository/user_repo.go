package repository

import (
	"context"
	"errors"
	"fmt"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, avatar, refresh_token, confirmed, role, created_at, updated_at`

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	UpdateToken(ctx context.Context, id int64, refreshToken *string) error
	Confirm(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (*model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database. A taken email yields ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, avatar, confirmed, role)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.Avatar, user.Confirmed, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// List returns a page of users ordered by id
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateToken sets or clears (nil) the stored refresh token
func (r *userRepository) UpdateToken(ctx context.Context, id int64, refreshToken *string) error {
	sql := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.Exec(ctx, sql, refreshToken, id); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// Confirm marks the email as confirmed. Confirming twice leaves the row unchanged.
func (r *userRepository) Confirm(ctx context.Context, email string) error {
	sql := `UPDATE users SET confirmed = TRUE, updated_at = NOW() WHERE email = $1 AND confirmed = FALSE`
	if _, err := r.db.Exec(ctx, sql, email); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

// UpdateAvatar stores the avatar URL and returns the updated user, or nil if the email is unknown
func (r *userRepository) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	sql := `UPDATE users SET avatar = $1, updated_at = NOW() WHERE email = $2 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, sql, url, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Avatar,
		&user.RefreshToken, &user.Confirmed, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return user, nil
}
