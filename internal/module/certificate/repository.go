package certificate

import (
	"context"

	"github.com/simp-lee/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// certificateRepository implements domain.CertificateRepository using GORM.
type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new CertificateRepository backed by the given GORM database.
func NewCertificateRepository(db *gorm.DB) domain.CertificateRepository {
	return &certificateRepository{db: db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

// Create inserts the certificate row. Tags on cert are not written.
func (r *certificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	if err := pkg.Conn(ctx, r.db).Omit(clause.Associations).Create(cert).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a certificate with its tags sorted by name.
func (r *certificateRepository) GetByID(ctx context.Context, id uint) (*domain.Certificate, error) {
	var cert domain.Certificate
	if err := pkg.Conn(ctx, r.db).Preload("Tags", preloadTags).First(&cert, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &cert, nil
}

// FindByFilter returns the requested page of matches.
func (r *certificateRepository) FindByFilter(ctx context.Context, filter domain.CertificateFilter, req domain.PageRequest) (*pagination.Pagination[domain.Certificate], error) {
	count := func(ctx context.Context) (int64, error) {
		return r.CountByFilter(ctx, filter)
	}
	fetch := func(ctx context.Context, offset, limit int) ([]domain.Certificate, error) {
		certs := []domain.Certificate{}
		err := pkg.Conn(ctx, r.db).
			Select("certificates.*").
			Scopes(withSpecs(buildSpecs(filter)), pkg.Paginate(offset, limit)).
			Preload("Tags", preloadTags).
			Find(&certs).Error
		if err != nil {
			return nil, mapError(err)
		}
		return certs, nil
	}
	return pkg.FetchPage(ctx, req, count, fetch)
}

// CountByFilter counts all certificates matching filter, ignoring pagination.
func (r *certificateRepository) CountByFilter(ctx context.Context, filter domain.CertificateFilter) (int64, error) {
	var total int64
	err := pkg.Conn(ctx, r.db).
		Model(&domain.Certificate{}).
		Scopes(withSpecs(predicateSpecs(filter))).
		Count(&total).Error
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// LockByID selects the row FOR UPDATE. SQLite has no row locks; its
// writers are serialized by the database lock instead.
func (r *certificateRepository) LockByID(ctx context.Context, id uint) error {
	var cert domain.Certificate
	err := pkg.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		First(&cert, id).Error
	if err != nil {
		return mapError(err)
	}
	return nil
}

// Update writes the scalar columns of cert.
func (r *certificateRepository) Update(ctx context.Context, cert *domain.Certificate) error {
	result := pkg.Conn(ctx, r.db).
		Model(&domain.Certificate{ID: cert.ID}).
		Select("name", "description", "price", "duration", "last_updated_at").
		Updates(map[string]any{
			"name":            cert.Name,
			"description":     cert.Description,
			"price":           cert.Price,
			"duration":        cert.Duration,
			"last_updated_at": cert.LastUpdatedAt,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "certificate not found", nil)
	}
	return nil
}

func (r *certificateRepository) Delete(ctx context.Context, id uint) error {
	result := pkg.Conn(ctx, r.db).Delete(&domain.Certificate{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "certificate not found", nil)
	}
	return nil
}

// TagsOf returns the tags currently linked to the certificate.
func (r *certificateRepository) TagsOf(ctx context.Context, certificateID uint) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := pkg.Conn(ctx, r.db).
		Joins("JOIN certificate_tags ON certificate_tags.tag_id = tags.id").
		Where("certificate_tags.certificate_id = ?", certificateID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, mapError(err)
	}
	return tags, nil
}

// AddTags links tags to the certificate. Existing links are kept.
func (r *certificateRepository) AddTags(ctx context.Context, certificateID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]domain.CertificateTag, len(tagIDs))
	for i, id := range tagIDs {
		links[i] = domain.CertificateTag{CertificateID: certificateID, TagID: id}
	}
	err := pkg.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	return mapError(err)
}

// RemoveTags unlinks tags from the certificate. The tags themselves stay.
func (r *certificateRepository) RemoveTags(ctx context.Context, certificateID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	err := pkg.Conn(ctx, r.db).
		Where("certificate_id = ? AND tag_id IN ?", certificateID, tagIDs).
		Delete(&domain.CertificateTag{}).Error
	return mapError(err)
}

// CountOrders returns how many orders reference the certificate.
func (r *certificateRepository) CountOrders(ctx context.Context, certificateID uint) (int64, error) {
	var n int64
	err := pkg.Conn(ctx, r.db).Model(&domain.Order{}).Where("certificate_id = ?", certificateID).Count(&n).Error
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func mapError(err error) error {
	return pkg.MapDBError(err, "certificate")
}
