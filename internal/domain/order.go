package domain

import (
	"context"

	"github.com/simp-lee/pagination"
)

// Order records the purchase of a certificate by a user. Cost is fixed at
// the time the order is placed.
type Order struct {
	BaseModel
	Cost          float64      `gorm:"type:decimal(10,2);not null" json:"cost"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	CertificateID uint         `gorm:"not null;index" json:"certificate_id"`
	User          *User        `json:"user,omitempty"`
	Certificate   *Certificate `json:"certificate,omitempty"`
}

// OrderRepository defines the data access interface for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, req PageRequest) (*pagination.Pagination[Order], error)
	ListByUser(ctx context.Context, userID uint, req PageRequest) (*pagination.Pagination[Order], error)
	// Update writes the non-nil fields of in to the order row only.
	Update(ctx context.Context, id uint, in UpdateOrderInput) error
	Delete(ctx context.Context, id uint) error
}

// PlaceOrderInput identifies what is bought and by whom. A zero Cost takes
// the certificate's current price.
type PlaceOrderInput struct {
	UserID        uint
	CertificateID uint
	Cost          float64
}

// UpdateOrderInput holds a partial order update. Nil fields are left unchanged.
type UpdateOrderInput struct {
	UserID        *uint
	CertificateID *uint
	Cost          *float64
}

// OrderService defines the business logic interface for orders.
type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id uint) (*Order, error)
	ListOrders(ctx context.Context, req PageRequest) (*pagination.Pagination[Order], error)
	ListUserOrders(ctx context.Context, userID uint, req PageRequest) (*pagination.Pagination[Order], error)
	UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}
