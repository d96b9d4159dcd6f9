package usecase

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// clampPage normalizes pagination inputs: a negative offset becomes 0, and a
// non-positive or oversized limit falls back to the default page size.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return offset, limit
}
