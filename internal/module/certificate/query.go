package certificate

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// spec is one part of a certificate search query.
type spec interface {
	apply(db *gorm.DB) *gorm.DB
}

// keywordSpec matches the keyword in the name or the description, ignoring case.
type keywordSpec struct {
	keyword string
}

func (s keywordSpec) apply(db *gorm.DB) *gorm.DB {
	pattern := pkg.ContainsPattern(s.keyword)
	return db.Where(
		"("+pkg.Folded(db, "certificates.name")+` LIKE ? ESCAPE '\' OR `+
			pkg.Folded(db, "certificates.description")+` LIKE ? ESCAPE '\')`,
		pattern, pattern,
	)
}

// tagNameSpec requires a tag with the given name. Each instance joins under
// its own aliases, so several of them combine into an intersection.
type tagNameSpec struct {
	index int
	name  string
}

func (s tagNameSpec) apply(db *gorm.DB) *gorm.DB {
	ct := fmt.Sprintf("ct%d", s.index)
	t := fmt.Sprintf("t%d", s.index)
	return db.
		Joins(fmt.Sprintf("JOIN certificate_tags %[1]s ON %[1]s.certificate_id = certificates.id", ct)).
		Joins(fmt.Sprintf("JOIN tags %[1]s ON %[1]s.id = %[2]s.tag_id AND %[1]s.name = ?", t, ct), s.name)
}

// sortSpec orders by the chosen column with the id as tiebreaker.
type sortSpec struct {
	field     domain.SortField
	direction domain.SortDirection
}

func (s sortSpec) apply(db *gorm.DB) *gorm.DB {
	column := "certificates.created_at"
	if s.field == domain.SortByName {
		column = "certificates.name"
	}
	dir := "ASC"
	if s.direction == domain.SortDesc {
		dir = "DESC"
	}
	return db.Order(column + " " + dir).Order("certificates.id " + dir)
}

// predicateSpecs returns the filtering parts of filter, shared by find and count.
func predicateSpecs(filter domain.CertificateFilter) []spec {
	var specs []spec
	if kw := filter.Keyword(); kw != "" {
		specs = append(specs, keywordSpec{keyword: kw})
	}
	for i, name := range filter.TagNames() {
		specs = append(specs, tagNameSpec{index: i, name: name})
	}
	return specs
}

// buildSpecs returns the predicates of filter followed by its ordering.
func buildSpecs(filter domain.CertificateFilter) []spec {
	return append(predicateSpecs(filter), sortSpec{field: filter.SortField(), direction: filter.SortDirection()})
}

// withSpecs returns a GORM scope applying specs in order.
func withSpecs(specs []spec) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range specs {
			db = s.apply(db)
		}
		return db
	}
}
