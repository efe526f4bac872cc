package repository

import (
	"context"
	"errors"
	"fmt"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, first_name, last_name, email, phone_number, birthday, created_at, updated_at, user_id`

// ContactRepository defines operations for contact data. Every method is scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context, userID int64, limit, offset int) ([]model.Contact, error)
	FindByID(ctx context.Context, userID, id int64) (*model.Contact, error)
	FindByFirstName(ctx context.Context, userID int64, firstName string) ([]model.Contact, error)
	FindByLastName(ctx context.Context, userID int64, lastName string) ([]model.Contact, error)
	FindByEmail(ctx context.Context, userID int64, email string) (*model.Contact, error)
	FindByBirthdays(ctx context.Context, userID int64, monthDays []int32) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type contactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a new contact. A taken email or phone number yields ErrDuplicate.
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, user_id)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday.Time, c.UserID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contact %s: %w", c.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// List retrieves a page of the user's contacts
func (r *contactRepository) List(ctx context.Context, userID int64, limit, offset int) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	return r.query(ctx, sql, userID, limit, offset)
}

// FindByID retrieves a contact by its ID
func (r *contactRepository) FindByID(ctx context.Context, userID, id int64) (*model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	return r.queryOne(ctx, sql, id, userID)
}

// FindByFirstName matches the first name case-insensitively
func (r *contactRepository) FindByFirstName(ctx context.Context, userID int64, firstName string) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE lower(first_name) = lower($1) AND user_id = $2 ORDER BY id`
	return r.query(ctx, sql, firstName, userID)
}

// FindByLastName matches the last name case-insensitively
func (r *contactRepository) FindByLastName(ctx context.Context, userID int64, lastName string) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE lower(last_name) = lower($1) AND user_id = $2 ORDER BY id`
	return r.query(ctx, sql, lastName, userID)
}

// FindByEmail matches the email case-insensitively
func (r *contactRepository) FindByEmail(ctx context.Context, userID int64, email string) (*model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE lower(email) = lower($1) AND user_id = $2 LIMIT 1`
	return r.queryOne(ctx, sql, email, userID)
}

// FindByBirthdays returns contacts whose birthday month and day, encoded as month*100+day, is in monthDays
func (r *contactRepository) FindByBirthdays(ctx context.Context, userID int64, monthDays []int32) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts
            WHERE user_id = $1
              AND (EXTRACT(MONTH FROM birthday)::int * 100 + EXTRACT(DAY FROM birthday)::int) = ANY($2)
            ORDER BY id`
	return r.query(ctx, sql, userID, monthDays)
}

// Update replaces the editable fields. It reports false when the contact does not exist for the user.
func (r *contactRepository) Update(ctx context.Context, c *model.Contact) (bool, error) {
	sql := `UPDATE contacts
            SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5, updated_at = NOW()
            WHERE id = $6 AND user_id = $7
            RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday.Time, c.ID, c.UserID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if isUniqueViolation(err) {
			return false, fmt.Errorf("contact %s: %w", c.Email, ErrDuplicate)
		}
		return false, fmt.Errorf("failed to update contact: %w", err)
	}
	return true, nil
}

// Delete removes a contact. It reports false when the contact does not exist for the user.
func (r *contactRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	sql := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, sql, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *contactRepository) queryOne(ctx context.Context, sql string, args ...any) (*model.Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return c, nil
}

func (r *contactRepository) query(ctx context.Context, sql string, args ...any) ([]model.Contact, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

func scanContact(row pgx.Row) (*model.Contact, error) {
	c := &model.Contact{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthday.Time, &c.CreatedAt, &c.UpdatedAt, &c.UserID,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
