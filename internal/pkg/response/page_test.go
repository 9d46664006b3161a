package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageResponse(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		total    int
		pages    int
	}{
		{"empty", 10, 0, 0},
		{"exact", 10, 20, 2},
		{"partial last page", 10, 21, 3},
		{"no page size", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageResponse([]int{1}, 1, tt.pageSize, tt.total)
			assert.Equal(t, tt.pages, p.TotalPages)
		})
	}

	t.Run("nil items encode as empty list", func(t *testing.T) {
		b, err := json.Marshal(NewPageResponse[string](nil, 1, 10, 0))
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[],"page":1,"page_size":10,"total":0,"total_pages":0}`, string(b))
	})
}
