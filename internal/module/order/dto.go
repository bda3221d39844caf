package order

import "github.com/certvault/giftcert/internal/domain"

// PlaceOrderRequest represents the input for placing an order.
// A zero or omitted cost takes the certificate's current price.
type PlaceOrderRequest struct {
	UserID        uint    `json:"user_id" binding:"required"`
	CertificateID uint    `json:"certificate_id" binding:"required"`
	Cost          float64 `json:"cost" binding:"gte=0,lte=99999999.99"`
}

// UpdateOrderRequest represents a partial order update. Omitted fields are
// left unchanged.
type UpdateOrderRequest struct {
	UserID        *uint    `json:"user_id" binding:"omitempty,gt=0"`
	CertificateID *uint    `json:"certificate_id" binding:"omitempty,gt=0"`
	Cost          *float64 `json:"cost" binding:"omitempty,gt=0,lte=99999999.99"`
}

func (r UpdateOrderRequest) toInput() domain.UpdateOrderInput {
	return domain.UpdateOrderInput{
		UserID:        r.UserID,
		CertificateID: r.CertificateID,
		Cost:          r.Cost,
	}
}
