package models

import (
	"strconv"
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleModerator  UserRole = "moderator"
	RoleUser       UserRole = "user"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleModerator, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Document     string    `json:"document"` // login identifier
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SearchFields leaves out the password hash and timestamps, which are never displayed.
func (u User) SearchFields() []string {
	return []string{strconv.Itoa(u.ID), u.Name, u.Document, u.Email, string(u.Role), u.Status}
}

// Public returns the user without its password hash, for API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func (u User) HasCredentials() bool { return u.PasswordHash != "" }
