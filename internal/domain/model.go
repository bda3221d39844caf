package domain

import (
	"context"
	"time"
)

// BaseModel is the common base struct for mutable domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxPageSize is the largest page a caller may request.
const MaxPageSize = 100

// PageRequest holds pagination, sorting, and filtering parameters.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
	Filter   map[string]string
}

// Validate rejects a page below 1 and a size outside 1..MaxPageSize.
func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return Validation("page must be at least 1")
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return Validation("page size must be between 1 and 100")
	}
	return nil
}

// Transactor runs fn inside a single store transaction. Repositories called
// with the context passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
