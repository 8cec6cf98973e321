package api

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gentlyhq/gently/internal/inventory"
)

// Reserved query parameter names that are never treated as attribute
// filters.
var reservedParams = map[string]struct{}{
	"limit":  {},
	"offset": {},
}

var (
	errInvalidFilterFormat = errors.New("Invalid filter format")
	errInvalidOperator     = errors.New("Invalid operator")
	errDuplicateFilter     = errors.New("Value must be a string, duplicate short_code filter parameters are not allowed")
)

// ParseFilters extracts attribute filters from query parameters. Every
// parameter except limit and offset must be a {short_code}_{operator} pair:
// exactly one underscore, a registered operator, and a single value. Keys
// are processed in sorted order so errors are deterministic.
func ParseFilters(values url.Values) ([]inventory.Filter, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filters := make([]inventory.Filter, 0, len(keys))
	for _, key := range keys {
		parts := strings.Split(key, "_")
		if len(parts) != 2 {
			return nil, errInvalidFilterFormat
		}

		op := inventory.Operator(parts[1])
		if !op.Valid() {
			return nil, errInvalidOperator
		}

		vals := values[key]
		if len(vals) != 1 {
			return nil, errDuplicateFilter
		}

		filters = append(filters, inventory.Filter{
			ShortCode: parts[0],
			Operator:  op,
			RawValue:  vals[0],
		})
	}
	return filters, nil
}

// Pagination is the validated limit/offset pair for list endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

var (
	errInvalidLimit  = errors.New("limit must be a number if provided")
	errInvalidOffset = errors.New("offset must be a number if provided")
)

// ParsePagination validates the limit and offset query parameters. Absent
// parameters fall back to the defaults; present ones must be non-negative
// integers. Limit is capped at maxLimit when maxLimit is positive.
func ParsePagination(limitRaw, offsetRaw string, defaultLimit, maxLimit int) (Pagination, error) {
	p := Pagination{Limit: defaultLimit, Offset: 0}

	if limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit < 0 {
			return Pagination{}, errInvalidLimit
		}
		p.Limit = limit
	}
	if offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil || offset < 0 {
			return Pagination{}, errInvalidOffset
		}
		p.Offset = offset
	}

	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p, nil
}

// NextOffset advances the offset cursor past the returned page, saturating
// at the total count so clients can stop when offset == count.
func NextOffset(offset, limit, count int) int {
	next := offset + limit
	if next > count {
		return count
	}
	return next
}
