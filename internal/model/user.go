package model

import "time"

// Role identifies which side of the marketplace an account belongs to.
type Role string

const (
	RoleLeague  Role = "league"
	RoleReferee Role = "ref"
)

// User is an authenticated account. Every user owns exactly one league
// profile or one referee profile depending on Role.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
