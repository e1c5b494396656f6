package domain

// PaginationParams selects one page of a list query.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the number of rows the page may hold.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return 0
	}
	return p.PageSize
}

// Offset returns the 0-based row offset of the first row on the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
