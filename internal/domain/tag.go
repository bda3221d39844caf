package domain

import (
	"context"
	"time"

	"github.com/simp-lee/pagination"
)

// Tag is a named label shared by certificates. Names are unique and never
// change once the tag exists.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagRepository defines the data access interface for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id uint) (*Tag, error)
	// GetByName matches the stored name exactly.
	GetByName(ctx context.Context, name string) (*Tag, error)
	// Search matches a case-insensitive name fragment; an empty fragment lists all tags.
	Search(ctx context.Context, fragment string, req PageRequest) (*pagination.Pagination[Tag], error)
	CountUsages(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	// MostPopular returns the tag used most often across the orders of the
	// user whose orders have the highest total cost.
	MostPopular(ctx context.Context) (*Tag, error)
}

// TagReconciler maps tag names to stored tags and computes association changes.
type TagReconciler interface {
	// Resolve returns one stored tag per distinct name, creating missing ones.
	Resolve(ctx context.Context, names []string) ([]Tag, error)
	// Diff returns the tags to associate and to dissociate to move from
	// current to desired, compared by identity.
	Diff(current, desired []Tag) (toAdd, toRemove []Tag)
}

// TagService defines the business logic interface for tags.
type TagService interface {
	CreateTag(ctx context.Context, name string) (*Tag, error)
	GetTag(ctx context.Context, id uint) (*Tag, error)
	SearchTags(ctx context.Context, fragment string, req PageRequest) (*pagination.Pagination[Tag], error)
	DeleteTag(ctx context.Context, id uint) error
	ResolveTags(ctx context.Context, names []string) ([]Tag, error)
	MostPopularTag(ctx context.Context) (*Tag, error)
}

// TagNames returns the names of tags in order.
func TagNames(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// TagIDs returns the ids of tags in order.
func TagIDs(tags []Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
