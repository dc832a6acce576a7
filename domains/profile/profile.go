package profile

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Age         *int      `json:"age"`
	Country     string    `json:"country"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type UpdateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         *int   `json:"age"`
	Country     string `json:"country"`
}

type IProfileStore interface {
	Get(ctx context.Context, id string) (Profile, error)
	// Upsert writes everything except Role, which is only set on insert.
	Upsert(ctx context.Context, p Profile) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
}

type IProfileUsecase interface {
	Get(ctx context.Context, userID, email string) (Profile, error)
	Update(ctx context.Context, userID, email string, req UpdateRequest) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
