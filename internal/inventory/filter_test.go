package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAttributes() map[string]*Attribute {
	return map[string]*Attribute{
		"price":  {AttributeID: "attr-price", ShortCode: "price", AttributeType: TypeNumber},
		"color":  {AttributeID: "attr-color", ShortCode: "color", AttributeType: TypeString},
		"instk":  {AttributeID: "attr-instk", ShortCode: "instk", AttributeType: TypeBoolean},
		"expiry": {AttributeID: "attr-expiry", ShortCode: "expiry", AttributeType: TypeDate},
	}
}

func TestBuildPredicates(t *testing.T) {
	filters := []Filter{
		{ShortCode: "price", Operator: OpGreater, RawValue: "100"},
		{ShortCode: "color", Operator: OpILike, RawValue: "%red%"},
		{ShortCode: "instk", Operator: OpEqual, RawValue: "true"},
		{ShortCode: "expiry", Operator: OpLess, RawValue: "2025-01-01"},
	}

	predicates, err := BuildPredicates(filters, testAttributes())
	require.NoError(t, err)
	require.Len(t, predicates, 4)

	assert.Equal(t, Predicate{AttributeID: "attr-price", Column: "value_number", SQLOp: ">", Arg: float64(100)}, predicates[0])
	assert.Equal(t, Predicate{AttributeID: "attr-color", Column: "value_string", SQLOp: "ILIKE", Arg: "%red%"}, predicates[1])
	assert.Equal(t, Predicate{AttributeID: "attr-instk", Column: "value_boolean", SQLOp: "=", Arg: true}, predicates[2])

	assert.Equal(t, "attr-expiry", predicates[3].AttributeID)
	assert.Equal(t, "value_date", predicates[3].Column)
	assert.Equal(t, "<", predicates[3].SQLOp)
	argDate, ok := predicates[3].Arg.(time.Time)
	require.True(t, ok)
	assert.True(t, argDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildPredicatesUnknownShortCode(t *testing.T) {
	filters := []Filter{{ShortCode: "weight", Operator: OpEqual, RawValue: "5"}}

	_, err := BuildPredicates(filters, testAttributes())
	require.Error(t, err)

	var filterErr *FilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "Attribute weight not found", err.Error())
}

func TestBuildPredicatesUnsupportedOperator(t *testing.T) {
	filters := []Filter{{ShortCode: "color", Operator: OpIs, RawValue: "null"}}

	_, err := BuildPredicates(filters, testAttributes())
	require.Error(t, err)

	var filterErr *FilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, `Operator "is" is not yet supported`, err.Error())

	var unsupported *UnsupportedOperatorError
	assert.ErrorAs(t, err, &unsupported)
}

func TestBuildPredicatesCoercionFailure(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantMsg string
	}{
		{"bad number", Filter{ShortCode: "price", Operator: OpGreater, RawValue: "cheap"}, "Invalid number value: cheap"},
		{"bad boolean", Filter{ShortCode: "instk", Operator: OpEqual, RawValue: "yes"}, "Invalid boolean value: yes"},
		{"bad date", Filter{ShortCode: "expiry", Operator: OpLess, RawValue: "someday"}, "Invalid date value: someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPredicates([]Filter{tt.filter}, testAttributes())
			require.Error(t, err)

			var filterErr *FilterError
			require.ErrorAs(t, err, &filterErr)
			assert.Equal(t, tt.wantMsg, err.Error())

			var coerceErr *CoerceError
			assert.ErrorAs(t, err, &coerceErr)
		})
	}
}

func TestBuildPredicatesEmpty(t *testing.T) {
	predicates, err := BuildPredicates(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, predicates)
}

func TestShortCodes(t *testing.T) {
	filters := []Filter{
		{ShortCode: "price", Operator: OpGreater, RawValue: "1"},
		{ShortCode: "color", Operator: OpEqual, RawValue: "red"},
		{ShortCode: "price", Operator: OpLess, RawValue: "9"},
	}

	assert.Equal(t, []string{"price", "color"}, ShortCodes(filters))
	assert.Empty(t, ShortCodes(nil))
}
