package util

const DefaultPageSize = 20

// Calculate clamps page/size and returns the query offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Meta is the pagination envelope attached to list responses.
func Meta(page, limit int, total int64) map[string]any {
	offset, _ := Calculate(page, limit)
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
