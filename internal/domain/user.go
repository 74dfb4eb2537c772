package domain

import "time"

// User owns teams, projects and tasks. Every other entity is scoped to one user.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
