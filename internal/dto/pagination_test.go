package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		offset   int
	}{
		{"", 1, DefaultPageSize, 0},
		{"page=3&page_size=10", 3, 10, 20},
		{"page=-2&page_size=-1", 1, DefaultPageSize, 0},
		{"page_size=500", 1, MaxPageSize, 0},
		{"page=abc", 1, DefaultPageSize, 0},
		{"page=3&page_size=500", 3, MaxPageSize, 200},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := ParsePagination(contextWithQuery(tt.query))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestPaginationWindow(t *testing.T) {
	p := PaginationParams{Page: 2, PageSize: 10, Offset: 10}

	start, end := p.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = p.Window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = p.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, 0, NewPagination(1, 20, 0).TotalPages)
	assert.Equal(t, Pagination{Page: 1, PageSize: 20, TotalItems: 41, TotalPages: 3}, NewPagination(1, 20, 41))
}
