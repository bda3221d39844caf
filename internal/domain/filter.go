package domain

import (
	"slices"
	"strings"
)

// SortField selects the column certificates are ordered by.
type SortField string

const (
	SortByDate SortField = "DATE"
	SortByName SortField = "NAME"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortField parses a sort field name case-insensitively.
// An empty string selects SortByDate; unknown names are rejected.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SortByDate, nil
	case "DATE", "CREATE_DATE", "CREATED_AT":
		return SortByDate, nil
	case "NAME":
		return SortByName, nil
	default:
		return "", Validation("sort field must be one of name, date")
	}
}

// ParseSortDirection parses a sort direction case-insensitively.
// An empty string selects SortAsc; unknown values are rejected.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return SortAsc, nil
	case "DESC":
		return SortDesc, nil
	default:
		return "", Validation("sort direction must be one of asc, desc")
	}
}

// CertificateFilter describes a certificate search: an optional keyword, the
// tag names a match must carry, and the ordering. It is not modified after
// construction.
type CertificateFilter struct {
	keyword   string
	tagNames  []string
	field     SortField
	direction SortDirection
}

// NewCertificateFilter builds a filter. Blank and repeated tag names are
// dropped, and zero sort values fall back to date ascending.
func NewCertificateFilter(keyword string, tagNames []string, field SortField, direction SortDirection) CertificateFilter {
	names := make([]string, 0, len(tagNames))
	for _, n := range tagNames {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(names, n) {
			continue
		}
		names = append(names, n)
	}
	if field == "" {
		field = SortByDate
	}
	if direction == "" {
		direction = SortAsc
	}
	return CertificateFilter{
		keyword:   strings.TrimSpace(keyword),
		tagNames:  names,
		field:     field,
		direction: direction,
	}
}

func (f CertificateFilter) Keyword() string { return f.keyword }

// TagNames returns a copy of the required tag names.
func (f CertificateFilter) TagNames() []string { return slices.Clone(f.tagNames) }

func (f CertificateFilter) SortField() SortField { return f.field }

func (f CertificateFilter) SortDirection() SortDirection { return f.direction }
