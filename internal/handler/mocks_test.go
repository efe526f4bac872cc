package handler

import (
	"context"
	"mime/multipart"

	"contacts_api/internal/middleware"
	"contacts_api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	args := m.Called(ctx, email, password)
	pair, _ := args.Get(0).(*model.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*model.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) RequestEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	args := m.Called(ctx, token, newPassword)
	return args.String(0), args.Error(1)
}

type mockContactService struct{ mock.Mock }

func (m *mockContactService) List(ctx context.Context, owner *model.User, p model.Pagination) ([]model.Contact, error) {
	args := m.Called(ctx, owner, p)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactService) Get(ctx context.Context, owner *model.User, id int64) (*model.Contact, error) {
	args := m.Called(ctx, owner, id)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) SearchByFirstName(ctx context.Context, owner *model.User, firstName string) ([]model.Contact, error) {
	args := m.Called(ctx, owner, firstName)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactService) SearchByLastName(ctx context.Context, owner *model.User, lastName string) ([]model.Contact, error) {
	args := m.Called(ctx, owner, lastName)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactService) SearchByEmail(ctx context.Context, owner *model.User, email string) (*model.Contact, error) {
	args := m.Called(ctx, owner, email)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) UpcomingBirthdays(ctx context.Context, owner *model.User) ([]model.Contact, error) {
	args := m.Called(ctx, owner)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *mockContactService) Create(ctx context.Context, owner *model.User, req model.ContactRequest) (*model.Contact, error) {
	args := m.Called(ctx, owner, req)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) Update(ctx context.Context, owner *model.User, id int64, req model.ContactRequest) (*model.Contact, error) {
	args := m.Called(ctx, owner, id, req)
	contact, _ := args.Get(0).(*model.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) Delete(ctx context.Context, owner *model.User, id int64) error {
	return m.Called(ctx, owner, id).Error(0)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserService) UpdateAvatar(ctx context.Context, user *model.User, file *multipart.FileHeader) (*model.User, error) {
	args := m.Called(ctx, user, file)
	updated, _ := args.Get(0).(*model.User)
	return updated, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, p model.Pagination) ([]model.User, error) {
	args := m.Called(ctx, p)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// fakeAuth stands in for JWTAuthMiddleware; a nil user leaves the request unauthenticated
func fakeAuth(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.AuthUserKey, user)
		}
		c.Next()
	}
}

func passThrough(c *gin.Context) { c.Next() }
