package domain

import (
	"context"
	"time"

	"github.com/simp-lee/pagination"
)

// Certificate is a gift certificate in the catalog.
type Certificate struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:255;not null;index" json:"name"`
	Description   string     `gorm:"size:1000;not null" json:"description"`
	Price         float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration      int        `gorm:"not null" json:"duration"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
	Tags          []Tag      `gorm:"many2many:certificate_tags" json:"tags"`
}

// CertificateTag links a certificate to a tag. The pair is the primary key.
type CertificateTag struct {
	CertificateID uint `gorm:"primaryKey"`
	TagID         uint `gorm:"primaryKey"`
}

// CertificateRepository defines the data access interface for certificates.
type CertificateRepository interface {
	// Create inserts the certificate row only; tags are linked with AddTags.
	Create(ctx context.Context, cert *Certificate) error
	// GetByID loads a certificate with its tags.
	GetByID(ctx context.Context, id uint) (*Certificate, error)
	// FindByFilter returns one page of matches with their tags.
	FindByFilter(ctx context.Context, filter CertificateFilter, req PageRequest) (*pagination.Pagination[Certificate], error)
	CountByFilter(ctx context.Context, filter CertificateFilter) (int64, error)
	// LockByID takes a row lock on the certificate until the surrounding
	// transaction ends. Stores without row locks treat it as an existence check.
	LockByID(ctx context.Context, id uint) error
	// Update writes the scalar fields; tags are left untouched.
	Update(ctx context.Context, cert *Certificate) error
	Delete(ctx context.Context, id uint) error

	TagsOf(ctx context.Context, certificateID uint) ([]Tag, error)
	AddTags(ctx context.Context, certificateID uint, tagIDs []uint) error
	RemoveTags(ctx context.Context, certificateID uint, tagIDs []uint) error
	CountOrders(ctx context.Context, certificateID uint) (int64, error)
}

// SearchParams are the caller-supplied inputs of a certificate search.
// Sort values are raw strings, parsed by the service.
type SearchParams struct {
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
	Keyword       string
	TagNames      []string
}

// CreateCertificateInput holds the fields of a new certificate.
type CreateCertificateInput struct {
	Name        string
	Description string
	Price       float64
	Duration    int
	TagNames    []string
}

// UpdateCertificateInput holds a partial update. Nil fields are left
// unchanged; a nil TagNames keeps the current tags, an empty one clears them.
type UpdateCertificateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Duration    *int
	TagNames    []string
}

// CertificateService defines the business logic interface for certificates.
type CertificateService interface {
	Search(ctx context.Context, params SearchParams) (*pagination.Pagination[Certificate], error)
	Get(ctx context.Context, id uint) (*Certificate, error)
	Create(ctx context.Context, in CreateCertificateInput) (*Certificate, error)
	Update(ctx context.Context, id uint, in UpdateCertificateInput) (*Certificate, error)
	Delete(ctx context.Context, id uint) error
}
