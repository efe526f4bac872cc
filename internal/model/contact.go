package model

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("birthday is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

// Contact is an address book entry owned by a single user
type Contact struct {
	ID          int64         `json:"id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phone_number"`
	Birthday    Date          `json:"birthday"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	UserID      int64         `json:"-"`
	User        *UserResponse `json:"user,omitempty"`
}

// ContactRequest is used for creating and fully replacing a contact
type ContactRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=50"`
	LastName    string `json:"last_name" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=150"`
	PhoneNumber string `json:"phone_number" binding:"required,max=50"`
	Birthday    Date   `json:"birthday"`
}

// Pagination holds list parameters for GET /contacts/
type Pagination struct {
	Limit  int `form:"limit,default=10" binding:"min=10,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}
