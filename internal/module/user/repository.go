package user

import (
	"context"

	"github.com/simp-lee/pagination"
	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "nickname", "created_at", "updated_at"}
	allowedFilterFields = []string{"nickname"}
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := pkg.Conn(ctx, r.db).Create(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a user by its primary key.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := pkg.Conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// List returns a paginated, sorted, and filtered list of users.
func (r *userRepository) List(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.User], error) {
	base := func(ctx context.Context) *gorm.DB {
		return pkg.Conn(ctx, r.db).Model(&domain.User{}).
			Scopes(pkg.Filter(req, allowedFilterFields))
	}

	return pkg.FetchPage(ctx, req,
		func(ctx context.Context) (int64, error) {
			var total int64
			if err := base(ctx).Count(&total).Error; err != nil {
				return 0, mapError(err)
			}
			return total, nil
		},
		func(ctx context.Context, offset, limit int) ([]domain.User, error) {
			var users []domain.User
			if err := base(ctx).Scopes(
				pkg.Paginate(offset, limit),
				pkg.Sort(req, allowedSortFields),
			).Find(&users).Error; err != nil {
				return nil, mapError(err)
			}
			return users, nil
		},
	)
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	return pkg.MapDBError(err, "user")
}
