package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, MaxPageSize, NormalizePageSize(500))
	assert.Equal(t, 20, NormalizePageSize(20))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, HistoryPageSize))
	assert.Equal(t, 40, Offset(3, HistoryPageSize))
	assert.Equal(t, 0, Offset(0, HistoryPageSize))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, HistoryPageSize))
	assert.Equal(t, 1, TotalPages(20, HistoryPageSize))
	assert.Equal(t, 2, TotalPages(21, HistoryPageSize))
	assert.Equal(t, 5, TotalPages(100, HistoryPageSize))
}
