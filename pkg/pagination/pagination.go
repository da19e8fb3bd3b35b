package pagination

// Page sizes used across the query surface.
const (
	// HistoryPageSize is the fixed page size for movement history.
	HistoryPageSize = 20
	// DefaultPageSize is the standard page size for catalog listings.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Offset converts a page number into a row offset.
func Offset(page, pageSize int) int {
	return (NormalizePage(page) - 1) * pageSize
}

// TotalPages computes the page count for a total row count. A zero total
// still reports one page so clients always render page 1 of 1.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}
