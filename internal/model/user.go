package model

import "time"

// Role is the access level of a user account
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Avatar       *string   `json:"avatar"`
	RefreshToken *string   `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=5,max=16"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=10"`
}

// LoginRequest is the form body of POST /auth/login
type LoginRequest struct {
	Username string `form:"username" binding:"required"` // holds the email address
	Password string `form:"password" binding:"required"`
}

// RequestEmail is the body of POST /auth/request_email and POST /auth/password-reset-request
type RequestEmail struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetRequest is the body of POST /auth/reset-password
type PasswordResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=10"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	Role      Role      `json:"role"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse strips credentials from the user record
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}
