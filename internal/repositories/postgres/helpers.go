package postgres

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

var quizSortColumns = map[string]bool{
	"updated_at": true,
	"created_at": true,
	"title":      true,
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

func applySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool, fallback string) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = fallback
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

// notFound maps gorm's sentinel onto the repository one so callers never import gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
