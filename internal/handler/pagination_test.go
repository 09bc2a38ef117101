package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/members"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"valid values", "?page=3&limit=40", 3, 40},
		{"zero limit falls back", "?limit=0", 1, 20},
		{"negative limit falls back", "?limit=-5", 1, 20},
		{"oversized limit falls back", "?limit=1000", 1, 20},
		{"zero page falls back", "?page=0", 1, 20},
		{"garbage falls back", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := parsePagination(paginationContext(t, tt.query), 20)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParsePagination_MetaNeverDividesByZero(t *testing.T) {
	// limit=0 in the query must never reach the total_pages division
	page, limit := parsePagination(paginationContext(t, "?limit=0"), 20)

	assert.NotPanics(t, func() {
		meta := common.NewMeta(page, limit, 5)
		assert.Equal(t, int64(1), meta.TotalPages)
	})
}
