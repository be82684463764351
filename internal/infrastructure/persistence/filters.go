package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// applyPagination applies page/size and ordering from a filter. The sort
// field is validated against the entity's whitelist before it reaches the
// ORDER BY clause; anything outside the whitelist falls back to defaultOrder.
func applyPagination(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if field := ValidateSortField(filter.OrderBy, allowedFields, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
