package pkg

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/pagination"
	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	defaultSort     = "id:desc"
)

// reservedParams lists query parameter names used for pagination/sorting, not for filtering.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sort":      true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest extracts pagination, sorting, and filtering parameters
// from query params. Absent page and page_size take their defaults; values
// that are not integers are rejected. Range checks are left to
// domain.PageRequest.Validate.
func ParsePageRequest(c *gin.Context) (domain.PageRequest, error) {
	page, err := queryInt(c, "page", defaultPage)
	if err != nil {
		return domain.PageRequest{}, err
	}
	pageSize, err := queryInt(c, "page_size", defaultPageSize)
	if err != nil {
		return domain.PageRequest{}, err
	}

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.DefaultQuery("sort", defaultSort),
		Filter:   filter,
	}, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.Validation(key + " must be an integer")
	}
	return n, nil
}

// FetchPage builds one page through a pagination.Paginator. count returns
// the number of matching rows and fetch loads the rows of the window. A
// page past the end is served as the last page.
func FetchPage[T any](
	ctx context.Context,
	req domain.PageRequest,
	count func(ctx context.Context) (int64, error),
	fetch func(ctx context.Context, offset, limit int) ([]T, error),
) (*pagination.Pagination[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := pagination.NewPaginator[T](
		pagination.WithItemsPerPage[T](req.PageSize),
		pagination.WithItemTotalCallback[T](count),
		pagination.WithSliceCallback[T](fetch),
	)
	result, err := p.Paginate(ctx, req.Page)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, pagination.ErrInvalidPageNumber) || errors.Is(err, pagination.ErrInvalidConfig) {
			return nil, domain.Validation(err.Error())
		}
		return nil, domain.NewAppError(domain.CodeInternal, "pagination failed", err)
	}
	return result, nil
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT.
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on the page request.
// Only field names present in the allowed list are accepted; others are silently ignored.
// Field names are validated against a strict pattern to prevent SQL injection.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field, direction, ok := strings.Cut(req.Sort, ":")
		if !ok {
			return db
		}
		field = strings.TrimSpace(field)
		direction = strings.ToLower(strings.TrimSpace(direction))

		if direction != "asc" && direction != "desc" {
			return db
		}
		if !validFieldName.MatchString(field) || !isAllowed(field, allowed) {
			return db
		}
		return db.Order(field + " " + direction)
	}
}

// Filter returns a GORM scope that applies WHERE conditions based on the page request filters.
// Only filter keys present in the allowed list are applied; others are silently ignored.
// Keys ending with "__like" match a case-insensitive substring; others use exact match.
func Filter(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			field, like := strings.CutSuffix(key, "__like")
			if !validFieldName.MatchString(field) || !isAllowed(field, allowed) {
				continue
			}
			if like {
				db = db.Where(Folded(db, field)+` LIKE ? ESCAPE '\'`, ContainsPattern(value))
				continue
			}
			db = db.Where(field+" = ?", value)
		}
		return db
	}
}

// ParseID parses a positive numeric path parameter.
func ParseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", param, raw)
	}
	return uint(id), nil
}

// isAllowed checks if a field name is in the allowed list.
func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
