package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 45)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, int64(45), p.TotalCount)
	assert.Equal(t, 3, p.TotalPages)
}

func TestNewPaginationCapsOversizedLimit(t *testing.T) {
	p := NewPagination(1, 150, 500)
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 5, p.TotalPages)
}

func TestClampPageLimitMatchesPaginationMetadata(t *testing.T) {
	page, limit := ClampPageLimit(0, 150)
	p := NewPagination(0, 150, 500)
	assert.Equal(t, page, p.Page)
	assert.Equal(t, limit, p.Limit)
}
