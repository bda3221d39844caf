package testutil

import (
	"context"

	"github.com/simp-lee/pagination"
)

// PageOf wraps items as page of a result holding total items, the way
// the repositories build pages. Test doubles use it for canned results.
func PageOf[T any](items []T, page, size int, total int64) *pagination.Pagination[T] {
	page, size = max(page, 1), max(size, 1)
	p, err := pagination.NewPaginator[T](
		pagination.WithItemsPerPage[T](size),
		pagination.WithKnownTotal[T](total),
		pagination.WithSliceCallback[T](func(context.Context, int, int) ([]T, error) {
			return items, nil
		}),
	).Paginate(context.Background(), page)
	if err != nil {
		panic("testutil.PageOf: " + err.Error())
	}
	return p
}
