package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage_DerivedFields(t *testing.T) {
	page := NewPage(make([]int, 5), 3, 20, 45)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
	assert.Len(t, page.Items, 5)
}

func TestNewPage_FirstOfMany(t *testing.T) {
	page := NewPage(make([]int, 20), 1, 20, 45)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage[int](nil, 1, 20, 0)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)
	assert.NotNil(t, page.Items)
}
