package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/registra/records-api/internal/models"
)

// clampPage normalizes page/limit inputs; limit is capped at 100.
func clampPage(page, limit int) (int, int, int) {
	page, limit = models.ClampPageLimit(page, limit)
	return page, limit, (page - 1) * limit
}

// isUniqueViolation reports whether err is a Postgres 23505 unique_violation.
// The constraint backstop for concurrent writers that pass the service-level
// existence pre-check.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
