package domain

import (
	"context"

	"github.com/simp-lee/pagination"
)

// User is a customer who places orders.
type User struct {
	BaseModel
	Nickname string `gorm:"size:100;uniqueIndex;not null" json:"nickname"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context, req PageRequest) (*pagination.Pagination[User], error)
}

// UserService defines the business logic interface for users.
type UserService interface {
	CreateUser(ctx context.Context, nickname string) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	ListUsers(ctx context.Context, req PageRequest) (*pagination.Pagination[User], error)
}
