package repository

// PageRequest describes the slice of a collection to fetch.
// Page is zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// NewPageRequest normalizes raw paging inputs, falling back to the given
// default size and sorting by creation time when unspecified.
func NewPageRequest(page, size, defaultSize int, sort string, desc bool) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > 100 {
		size = 100
	}
	if sort == "" {
		sort = "created_at"
	}
	return PageRequest{Page: page, Size: size, Sort: sort, Desc: desc}
}

// Offset returns the row offset for the request.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// OrderClause renders the ORDER BY expression, allowing only whitelisted
// columns to reach SQL.
func (r PageRequest) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[r.Sort]
	if !ok {
		column = fallback
	}
	if r.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// Page is one slice of a collection plus paging metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a Page from fetched content and the total row count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// MapPage converts the content of a page while keeping its metadata.
func MapPage[A, B any](p Page[A], f func(A) B) Page[B] {
	content := make([]B, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, f(item))
	}
	return Page[B]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
