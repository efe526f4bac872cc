package repository

import (
	"context"
	"errors"
	"fmt"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ResetTokenRepository defines operations for password reset tokens
type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	CompletePasswordReset(ctx context.Context, tokenID int64, email, passwordHash string) error
}

type resetTokenRepository struct {
	db DB
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

// Create stores a reset token. Earlier tokens for the same email stay valid until they expire or are used.
func (r *resetTokenRepository) Create(ctx context.Context, t *model.PasswordResetToken) error {
	sql := `INSERT INTO password_reset_tokens (email, token, expiration) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRow(ctx, sql, t.Email, t.Token, t.Expiration).Scan(&t.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reset token: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// FindByToken retrieves a reset token by its opaque value
func (r *resetTokenRepository) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	t := &model.PasswordResetToken{}
	sql := `SELECT id, email, token, expiration FROM password_reset_tokens WHERE token = $1`
	err := r.db.QueryRow(ctx, sql, token).Scan(&t.ID, &t.Email, &t.Token, &t.Expiration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}
	return t, nil
}

// CompletePasswordReset consumes the token and sets the new password hash in one transaction.
// A token already consumed by a concurrent reset yields ErrTokenConsumed and nothing is written.
func (r *resetTokenRepository) CompletePasswordReset(ctx context.Context, tokenID int64, email, passwordHash string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, tokenID)
		if err != nil {
			return fmt.Errorf("failed to delete reset token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reset token %d: %w", tokenID, ErrTokenConsumed)
		}

		tag, err = tx.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE email = $2`, passwordHash, email)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("user %s: %w", email, pgx.ErrNoRows)
		}
		return nil
	})
}
