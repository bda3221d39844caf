package order

import (
	"context"
	"time"

	"github.com/simp-lee/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

var allowedSortFields = []string{"id", "cost", "created_at"}

// orderRepository implements domain.OrderRepository using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository backed by the given GORM database.
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Certificate").Preload("Certificate.Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

// Create inserts the order row; referenced user and certificate are not written.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := pkg.Conn(ctx, r.db).Omit(clause.Associations).Create(order).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves an order with its user and certificate.
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := pkg.Conn(ctx, r.db).Scopes(withDetails).First(&order, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.Order], error) {
	return r.list(ctx, req, func(db *gorm.DB) *gorm.DB { return db })
}

// ListByUser returns the orders placed by one user.
func (r *orderRepository) ListByUser(ctx context.Context, userID uint, req domain.PageRequest) (*pagination.Pagination[domain.Order], error) {
	return r.list(ctx, req, func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) })
}

func (r *orderRepository) list(ctx context.Context, req domain.PageRequest, scope func(*gorm.DB) *gorm.DB) (*pagination.Pagination[domain.Order], error) {
	base := func(ctx context.Context) *gorm.DB {
		return pkg.Conn(ctx, r.db).Model(&domain.Order{}).Scopes(scope)
	}

	return pkg.FetchPage(ctx, req,
		func(ctx context.Context) (int64, error) {
			var total int64
			if err := base(ctx).Count(&total).Error; err != nil {
				return 0, mapError(err)
			}
			return total, nil
		},
		func(ctx context.Context, offset, limit int) ([]domain.Order, error) {
			var orders []domain.Order
			if err := base(ctx).Scopes(
				pkg.Paginate(offset, limit),
				pkg.Sort(req, allowedSortFields),
				withDetails,
			).Find(&orders).Error; err != nil {
				return nil, mapError(err)
			}
			return orders, nil
		},
	)
}

// Update sets the supplied columns of one order. Columns not named in in
// keep whatever value the row holds at write time.
func (r *orderRepository) Update(ctx context.Context, id uint, in domain.UpdateOrderInput) error {
	changes := map[string]any{"updated_at": time.Now()}
	if in.Cost != nil {
		changes["cost"] = *in.Cost
	}
	if in.UserID != nil {
		changes["user_id"] = *in.UserID
	}
	if in.CertificateID != nil {
		changes["certificate_id"] = *in.CertificateID
	}

	result := pkg.Conn(ctx, r.db).Model(&domain.Order{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "order not found", nil)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	result := pkg.Conn(ctx, r.db).Delete(&domain.Order{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "order not found", nil)
	}
	return nil
}

func mapError(err error) error {
	return pkg.MapDBError(err, "order")
}
