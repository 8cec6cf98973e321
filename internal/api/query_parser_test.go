package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentlyhq/gently/internal/inventory"
)

func TestParseFilters(t *testing.T) {
	values, err := url.ParseQuery("price_gt=100&color_eq=red&limit=5&offset=10")
	require.NoError(t, err)

	filters, parseErr := ParseFilters(values)
	require.NoError(t, parseErr)
	require.Len(t, filters, 2)

	// Sorted key order: color before price.
	assert.Equal(t, inventory.Filter{ShortCode: "color", Operator: inventory.OpEqual, RawValue: "red"}, filters[0])
	assert.Equal(t, inventory.Filter{ShortCode: "price", Operator: inventory.OpGreater, RawValue: "100"}, filters[1])
}

func TestParseFiltersEmpty(t *testing.T) {
	filters, err := ParseFilters(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, filters)

	filters, err = ParseFilters(url.Values{"limit": {"10"}, "offset": {"0"}})
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestParseFiltersErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"no underscore", "price=100", "Invalid filter format"},
		{"two underscores", "unit_price_gt=100", "Invalid filter format"},
		{"unknown operator", "price_between=100", "Invalid operator"},
		{"empty operator", "price_=100", "Invalid operator"},
		{"case sensitive operator", "price_GT=100", "Invalid operator"},
		{"ilike wrong case", "color_ilike=red", "Invalid operator"},
		{"duplicate key", "price_gt=100&price_gt=200", "Value must be a string, duplicate short_code filter parameters are not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, parseErr := ParseFilters(values)
			require.Error(t, parseErr)
			assert.Equal(t, tt.wantErr, parseErr.Error())
		})
	}
}

func TestParseFiltersAcceptsIs(t *testing.T) {
	values := url.Values{"color_is": {"null"}}

	filters, err := ParseFilters(values)
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, inventory.OpIs, filters[0].Operator)
}

func TestParseFiltersSameCodeDifferentOperators(t *testing.T) {
	values, err := url.ParseQuery("price_gt=10&price_lt=90")
	require.NoError(t, err)

	filters, parseErr := ParseFilters(values)
	require.NoError(t, parseErr)
	assert.Len(t, filters, 2)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
		wantErr    string
	}{
		{"defaults", "", "", 10, 0, ""},
		{"explicit", "25", "50", 25, 50, ""},
		{"zero limit", "0", "", 0, 0, ""},
		{"limit capped", "5000", "", 100, 0, ""},
		{"bad limit", "ten", "", 0, 0, "limit must be a number if provided"},
		{"float limit", "10.5", "", 0, 0, "limit must be a number if provided"},
		{"negative limit", "-1", "", 0, 0, "limit must be a number if provided"},
		{"bad offset", "", "abc", 0, 0, "offset must be a number if provided"},
		{"negative offset", "", "-5", 0, 0, "offset must be a number if provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ParsePagination(tt.limit, tt.offset, 10, 100)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}

func TestNextOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		limit  int
		count  int
		want   int
	}{
		{"first of many pages", 0, 10, 100, 10},
		{"middle page", 40, 10, 100, 50},
		{"last full page", 90, 10, 100, 100},
		{"saturates at count", 95, 10, 100, 100},
		{"fewer rows than limit", 0, 10, 8, 8},
		{"empty result", 0, 10, 0, 0},
		{"offset beyond count", 120, 10, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOffset(tt.offset, tt.limit, tt.count))
		})
	}
}
