package tag

import (
	"context"

	"github.com/simp-lee/pagination"
	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// popularTagQuery picks the tag attached most often to the certificates
// ordered by the user with the highest total order cost. Ties go to the
// lower id on both levels.
const popularTagQuery = `
SELECT t.id
FROM tags t
JOIN certificate_tags ct ON ct.tag_id = t.id
JOIN orders o ON o.certificate_id = ct.certificate_id
WHERE o.user_id = (
	SELECT user_id FROM orders
	GROUP BY user_id
	ORDER BY SUM(cost) DESC, user_id
	LIMIT 1
)
GROUP BY t.id
ORDER BY COUNT(*) DESC, t.id
LIMIT 1`

// tagRepository implements domain.TagRepository using GORM.
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository backed by the given GORM database.
func NewTagRepository(db *gorm.DB) domain.TagRepository {
	return &tagRepository{db: db}
}

// Create inserts a tag inside a savepoint, so a unique violation leaves an
// enclosing transaction usable.
func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	err := pkg.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(tag).Error
	})
	return mapError(err)
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := pkg.Conn(ctx, r.db).First(&tag, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	if err := pkg.Conn(ctx, r.db).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, mapError(err)
	}
	return &tag, nil
}

// Search returns tags whose name contains fragment, ignoring case, ordered by name.
func (r *tagRepository) Search(ctx context.Context, fragment string, req domain.PageRequest) (*pagination.Pagination[domain.Tag], error) {
	matching := func(ctx context.Context) *gorm.DB {
		db := pkg.Conn(ctx, r.db).Model(&domain.Tag{})
		if fragment != "" {
			db = db.Where(pkg.Folded(db, "name")+` LIKE ? ESCAPE '\'`, pkg.ContainsPattern(fragment))
		}
		return db
	}

	return pkg.FetchPage(ctx, req,
		func(ctx context.Context) (int64, error) {
			var total int64
			if err := matching(ctx).Count(&total).Error; err != nil {
				return 0, mapError(err)
			}
			return total, nil
		},
		func(ctx context.Context, offset, limit int) ([]domain.Tag, error) {
			var tags []domain.Tag
			err := matching(ctx).Scopes(pkg.Paginate(offset, limit)).Order("name ASC").Order("id ASC").Find(&tags).Error
			if err != nil {
				return nil, mapError(err)
			}
			return tags, nil
		},
	)
}

// CountUsages returns how many certificates carry the tag.
func (r *tagRepository) CountUsages(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := pkg.Conn(ctx, r.db).Model(&domain.CertificateTag{}).Where("tag_id = ?", id).Count(&n).Error
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	result := pkg.Conn(ctx, r.db).Delete(&domain.Tag{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "tag not found", nil)
	}
	return nil
}

func (r *tagRepository) MostPopular(ctx context.Context) (*domain.Tag, error) {
	var ids []uint
	if err := pkg.Conn(ctx, r.db).Raw(popularTagQuery).Scan(&ids).Error; err != nil {
		return nil, mapError(err)
	}
	if len(ids) == 0 {
		return nil, domain.NewAppError(domain.CodeNotFound, "no orders placed yet", nil)
	}
	return r.GetByID(ctx, ids[0])
}

func mapError(err error) error {
	return pkg.MapDBError(err, "tag")
}
