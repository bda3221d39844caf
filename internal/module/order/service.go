package order

import (
	"context"
	"log/slog"

	"github.com/simp-lee/pagination"

	"github.com/certvault/giftcert/internal/domain"
)

// orderService implements domain.OrderService.
type orderService struct {
	orders domain.OrderRepository
	users  domain.UserRepository
	certs  domain.CertificateRepository
	tx     domain.Transactor
	log    *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders domain.OrderRepository,
	users domain.UserRepository,
	certs domain.CertificateRepository,
	tx domain.Transactor,
	log *slog.Logger,
) domain.OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &orderService{orders: orders, users: users, certs: certs, tx: tx, log: log}
}

// PlaceOrder records a purchase. The cost defaults to the certificate's
// price at the time of the order.
func (s *orderService) PlaceOrder(ctx context.Context, in domain.PlaceOrderInput) (*domain.Order, error) {
	if in.UserID == 0 {
		return nil, domain.Validation("user id must be positive")
	}
	if in.CertificateID == 0 {
		return nil, domain.Validation("certificate id must be positive")
	}
	if err := domain.ValidateAmount("cost", in.Cost); err != nil {
		return nil, err
	}
	if in.Cost < 0 {
		return nil, domain.Validation("cost must not be negative")
	}

	var placed *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
			return err
		}
		cert, err := s.certs.GetByID(ctx, in.CertificateID)
		if err != nil {
			return err
		}

		order := &domain.Order{UserID: in.UserID, CertificateID: cert.ID, Cost: cert.Price}
		if in.Cost > 0 {
			order.Cost = in.Cost
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		placed, err = s.orders.GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "order placed",
		slog.Uint64("order_id", uint64(placed.ID)),
		slog.Uint64("user_id", uint64(placed.UserID)),
		slog.Uint64("certificate_id", uint64(placed.CertificateID)),
		slog.Float64("cost", placed.Cost),
	)
	return placed, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	if id == 0 {
		return nil, domain.Validation("order id must be positive")
	}
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.Order], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, req)
}

// ListUserOrders returns a user's orders. An unknown user is NotFound rather
// than an empty page.
func (s *orderService) ListUserOrders(ctx context.Context, userID uint, req domain.PageRequest) (*pagination.Pagination[domain.Order], error) {
	if userID == 0 {
		return nil, domain.Validation("user id must be positive")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, userID, req)
}

// UpdateOrder changes the cost, user or certificate of an order. Referenced
// user and certificate must exist; the update runs in one transaction.
func (s *orderService) UpdateOrder(ctx context.Context, id uint, in domain.UpdateOrderInput) (*domain.Order, error) {
	if id == 0 {
		return nil, domain.Validation("order id must be positive")
	}
	if err := validateOrderPatch(in); err != nil {
		return nil, err
	}

	var updated *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.orders.GetByID(ctx, id); err != nil {
			return err
		}
		if in.UserID != nil {
			if _, err := s.users.GetByID(ctx, *in.UserID); err != nil {
				return err
			}
		}
		if in.CertificateID != nil {
			if _, err := s.certs.GetByID(ctx, *in.CertificateID); err != nil {
				return err
			}
		}
		if err := s.orders.Update(ctx, id, in); err != nil {
			return err
		}
		var err error
		updated, err = s.orders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "order updated",
		slog.Uint64("order_id", uint64(id)),
		slog.Float64("cost", updated.Cost),
	)
	return updated, nil
}

func validateOrderPatch(in domain.UpdateOrderInput) error {
	if in.UserID != nil && *in.UserID == 0 {
		return domain.Validation("user id must be positive")
	}
	if in.CertificateID != nil && *in.CertificateID == 0 {
		return domain.Validation("certificate id must be positive")
	}
	if in.Cost != nil {
		if err := domain.ValidateAmount("cost", *in.Cost); err != nil {
			return err
		}
		if *in.Cost <= 0 {
			return domain.Validation("cost must be positive")
		}
	}
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validation("order id must be positive")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "order deleted", slog.Uint64("order_id", uint64(id)))
	return nil
}
