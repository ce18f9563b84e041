package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleGuest
}

type User struct {
	UserID    int64      `db:"user_id" json:"user_id"`
	Username  string     `db:"username" json:"username"`
	Email     *string    `db:"email" json:"email"`
	Password  *string    `db:"password" json:"-"`
	Phone     *string    `db:"phone" json:"phone"`
	Role      Role       `db:"role" json:"role"`
	IsGuest   bool       `db:"is_guest" json:"is_guest"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Claims is the payload carried by every bearer token.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type Address struct {
	AddressID   int64      `db:"address_id" json:"address_id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	AddressLine string     `db:"address_line" json:"address_line"`
	City        string     `db:"city" json:"city"`
	State       string     `db:"state" json:"state"`
	Country     string     `db:"country" json:"country"`
	PostalCode  string     `db:"postal_code" json:"postal_code"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
