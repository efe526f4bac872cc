package service

import (
	"context"
	"io"

	"contacts_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) UpdateToken(ctx context.Context, id int64, refreshToken *string) error {
	return m.Called(ctx, id, refreshToken).Error(0)
}

func (m *mockUserRepo) Confirm(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	args := m.Called(ctx, email, url)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockResetTokenRepo struct{ mock.Mock }

func (m *mockResetTokenRepo) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockResetTokenRepo) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(*model.PasswordResetToken)
	return t, args.Error(1)
}

func (m *mockResetTokenRepo) CompletePasswordReset(ctx context.Context, tokenID int64, email, passwordHash string) error {
	return m.Called(ctx, tokenID, email, passwordHash).Error(0)
}

type mockContactRepo struct{ mock.Mock }

func (m *mockContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	args := m.Called(ctx, contact)
	if args.Error(0) == nil {
		contact.ID = 42
	}
	return args.Error(0)
}

func (m *mockContactRepo) List(ctx context.Context, userID int64, limit, offset int) ([]model.Contact, error) {
	args := m.Called(ctx, userID, limit, offset)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactRepo) FindByID(ctx context.Context, userID, id int64) (*model.Contact, error) {
	args := m.Called(ctx, userID, id)
	c, _ := args.Get(0).(*model.Contact)
	return c, args.Error(1)
}

func (m *mockContactRepo) FindByFirstName(ctx context.Context, userID int64, firstName string) ([]model.Contact, error) {
	args := m.Called(ctx, userID, firstName)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactRepo) FindByLastName(ctx context.Context, userID int64, lastName string) ([]model.Contact, error) {
	args := m.Called(ctx, userID, lastName)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactRepo) FindByEmail(ctx context.Context, userID int64, email string) (*model.Contact, error) {
	args := m.Called(ctx, userID, email)
	c, _ := args.Get(0).(*model.Contact)
	return c, args.Error(1)
}

func (m *mockContactRepo) FindByBirthdays(ctx context.Context, userID int64, monthDays []int32) ([]model.Contact, error) {
	args := m.Called(ctx, userID, monthDays)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactRepo) Update(ctx context.Context, contact *model.Contact) (bool, error) {
	args := m.Called(ctx, contact)
	return args.Bool(0), args.Error(1)
}

func (m *mockContactRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendConfirmation(to, username, token string) {
	m.Called(to, username, token)
}

func (m *mockMailer) SendPasswordReset(to, username, token string) {
	m.Called(to, username, token)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}
