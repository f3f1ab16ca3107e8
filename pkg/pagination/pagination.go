package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 50
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page number and page size into their allowed ranges.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	normalized := Normalize(p)
	return (normalized.Page - 1) * normalized.PageSize
}

// Limit returns the row limit for the normalized params.
func (p Params) Limit() int {
	return Normalize(p).PageSize
}

// Next returns the next page number, or nil when total is exhausted by the
// current page.
func Next(p Params, total int64) *int {
	normalized := Normalize(p)
	if int64(normalized.Page*normalized.PageSize) >= total {
		return nil
	}
	next := normalized.Page + 1
	return &next
}
