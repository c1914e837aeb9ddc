package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// ClampPageLimit normalizes pagination inputs. Page floors at 1; limit
// defaults to 20 and caps at 100. Repositories and services share this so
// the rows fetched and the metadata reported never disagree.
func ClampPageLimit(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// NewPagination derives pagination metadata from a page request and total.
func NewPagination(page, limit int, total int64) *Pagination {
	page, limit = ClampPageLimit(page, limit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{Page: page, Limit: limit, TotalCount: total, TotalPages: pages}
}
