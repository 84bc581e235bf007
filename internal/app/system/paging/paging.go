// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the number of articles returned when no limit is given.
const DefaultLimit = 20

// MaxLimit caps how many articles a single request may fetch.
const MaxLimit = 100

// ParseLimitOffset extracts "limit" and "offset" query parameters.
// Missing or invalid values fall back to DefaultLimit / 0, and limit is
// clamped to MaxLimit.
func ParseLimitOffset(r *http.Request) (limit, offset int64) {
	limit = DefaultLimit
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = int64(n)
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if s := query.Get(r, "offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			offset = int64(n)
		}
	}
	return limit, offset
}
