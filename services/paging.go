package services

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePaging clamps caller-supplied paging values to sane bounds so
// repositories never see a zero or runaway window.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
