package shared

// DefaultPageSize is the catalog page size used when the caller sends none
const DefaultPageSize = 12

// Filter narrows and pages a list query. Filters holds the per-listing
// equality filters, keyed by the names each repository understands.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns the first page, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}
