package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOTimeMarshalJSON(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	ts := NewISOTime(time.Date(2021, 1, 1, 2, 0, 0, 0, loc))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2021-01-01T00:00:00.000Z"`, string(data))
}

func TestISOTimeUnmarshalJSON(t *testing.T) {
	var ts ISOTime
	require.NoError(t, json.Unmarshal([]byte(`"2021-06-15T10:30:00.500Z"`), &ts))
	assert.Equal(t, "2021-06-15T10:30:00.500Z", ts.UTC().Format("2006-01-02T15:04:05.000Z"))

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestAttributeTypeValid(t *testing.T) {
	for _, valid := range []AttributeType{TypeString, TypeNumber, TypeBoolean, TypeDate} {
		assert.True(t, valid.Valid(), string(valid))
	}
	for _, invalid := range []AttributeType{"", "datetime", "STRING", "int"} {
		assert.False(t, invalid.Valid(), string(invalid))
	}
}

func TestAttributeTypeColumn(t *testing.T) {
	tests := []struct {
		attrType AttributeType
		want     string
	}{
		{TypeString, "value_string"},
		{TypeNumber, "value_number"},
		{TypeBoolean, "value_boolean"},
		{TypeDate, "value_date"},
	}
	for _, tt := range tests {
		col, err := tt.attrType.Column()
		require.NoError(t, err)
		assert.Equal(t, tt.want, col)
	}

	_, err := AttributeType("datetime").Column()
	require.Error(t, err)
}

func TestLookupValue(t *testing.T) {
	num := 42.0
	l := &ProductAttributeLookup{ValueNumber: &num}

	v := l.Value(TypeNumber)
	assert.Equal(t, "42", v.String())

	// Wrong type selector finds nothing.
	assert.True(t, l.Value(TypeString).IsZero())

	empty := &ProductAttributeLookup{}
	assert.True(t, empty.Value(TypeNumber).IsZero())
}

func TestProductJSONOmitsLookupsWhenNil(t *testing.T) {
	p := Product{ProductID: "p1", ProductName: "Widget"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "product_attribute_lookups")

	p.Lookups = []*ProductAttributeLookup{}
	data, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "product_attribute_lookups")
}
