package service

import "github.com/google/uuid"

// Actor is the authenticated user a service call acts on behalf of.
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
