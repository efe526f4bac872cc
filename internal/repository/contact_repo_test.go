package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"contacts_api/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactRowColumns = []string{
	"id", "first_name", "last_name", "email", "phone_number", "birthday", "created_at", "updated_at", "user_id",
}

func contactRows(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(contactRowColumns).
		AddRow(int64(1), "Test", "User", "test@x.com", "+380501112233", time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC), now, now, int64(9)).
		AddRow(int64(2), "test", "Other", "other@x.com", "+380501112244", time.Date(1985, 12, 31, 0, 0, 0, 0, time.UTC), now, now, int64(9))
}

func TestContactRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		anyErr    bool
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO contacts`).
					WithArgs("Test", "User", "test@x.com", "+380501112233", pgxmock.AnyArg(), int64(9)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
			},
		},
		{
			name: "duplicate phone",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO contacts`).
					WithArgs("Test", "User", "test@x.com", "+380501112233", pgxmock.AnyArg(), int64(9)).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: ErrDuplicate,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO contacts`).
					WithArgs("Test", "User", "test@x.com", "+380501112233", pgxmock.AnyArg(), int64(9)).
					WillReturnError(errors.New("connection refused"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			contact := &model.Contact{
				FirstName:   "Test",
				LastName:    "User",
				Email:       "test@x.com",
				PhoneNumber: "+380501112233",
				Birthday:    model.NewDate(1990, time.May, 4),
				UserID:      9,
			}
			err = NewContactRepository(mock).Create(context.Background(), contact)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrDuplicate)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(5), contact.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM contacts WHERE user_id = \$1 ORDER BY id LIMIT`).
		WithArgs(int64(9), 10, 20).
		WillReturnRows(contactRows(time.Now()))

	contacts, err := NewContactRepository(mock).List(context.Background(), 9, 10, 20)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, model.NewDate(1990, time.May, 4), contacts[0].Birthday)
	assert.Equal(t, int64(9), contacts[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_List_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM contacts WHERE user_id`).
		WithArgs(int64(9), 10, 0).
		WillReturnRows(pgxmock.NewRows(contactRowColumns))

	contacts, err := NewContactRepository(mock).List(context.Background(), 9, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM contacts WHERE id = \$1 AND user_id = \$2`).
					WithArgs(int64(1), int64(9)).
					WillReturnRows(contactRows(time.Now()))
			},
		},
		{
			name: "owned by another user",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM contacts WHERE id = \$1 AND user_id = \$2`).
					WithArgs(int64(1), int64(9)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM contacts WHERE id`).
					WithArgs(int64(1), int64(9)).
					WillReturnError(errors.New("timeout"))
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			contact, err := NewContactRepository(mock).FindByID(context.Background(), 9, 1)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, contact)
			} else {
				require.NotNil(t, contact)
				assert.Equal(t, "Test", contact.FirstName)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_SearchIsCaseInsensitive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE lower\(first_name\) = lower\(\$1\) AND user_id = \$2`).
		WithArgs("TEST", int64(9)).
		WillReturnRows(contactRows(now))
	mock.ExpectQuery(`WHERE lower\(last_name\) = lower\(\$1\) AND user_id = \$2`).
		WithArgs("user", int64(9)).
		WillReturnRows(contactRows(now))
	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\) AND user_id = \$2`).
		WithArgs("TEST@X.COM", int64(9)).
		WillReturnRows(contactRows(now))

	repo := NewContactRepository(mock)

	byFirst, err := repo.FindByFirstName(context.Background(), 9, "TEST")
	require.NoError(t, err)
	assert.Len(t, byFirst, 2)

	byLast, err := repo.FindByLastName(context.Background(), 9, "user")
	require.NoError(t, err)
	assert.Len(t, byLast, 2)

	byEmail, err := repo.FindByEmail(context.Background(), 9, "TEST@X.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "test@x.com", byEmail.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByBirthdays(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	codes := []int32{1229, 1230, 1231, 101, 102, 103, 104, 105}
	mock.ExpectQuery(`= ANY\(\$2\)`).
		WithArgs(int64(9), codes).
		WillReturnRows(contactRows(time.Now()))

	contacts, err := NewContactRepository(mock).FindByBirthdays(context.Background(), 9, codes)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_Update(t *testing.T) {
	now := time.Now()
	contact := func() *model.Contact {
		return &model.Contact{
			ID:          1,
			FirstName:   "New",
			LastName:    "Name",
			Email:       "new@x.com",
			PhoneNumber: "+1",
			Birthday:    model.NewDate(2000, time.January, 1),
			UserID:      9,
		}
	}

	t.Run("updated", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`UPDATE contacts`).
			WithArgs("New", "Name", "new@x.com", "+1", pgxmock.AnyArg(), int64(1), int64(9)).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		c := contact()
		ok, err := NewContactRepository(mock).Update(context.Background(), c)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, now, c.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`UPDATE contacts`).
			WithArgs("New", "Name", "new@x.com", "+1", pgxmock.AnyArg(), int64(1), int64(9)).
			WillReturnError(pgx.ErrNoRows)

		ok, err := NewContactRepository(mock).Update(context.Background(), contact())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`UPDATE contacts`).
			WithArgs("New", "Name", "new@x.com", "+1", pgxmock.AnyArg(), int64(1), int64(9)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err = NewContactRepository(mock).Update(context.Background(), contact())
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContactRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(1), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM contacts`).
		WithArgs(int64(2), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewContactRepository(mock)

	ok, err := repo.Delete(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), 9, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
