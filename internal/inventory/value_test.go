package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceString(t *testing.T) {
	v, err := Coerce(TypeString, "anything at all")
	require.NoError(t, err)
	assert.Equal(t, TypeString, v.Kind)
	assert.Equal(t, "anything at all", v.Str)
	assert.Equal(t, "anything at all", v.String())
}

func TestCoerceBoolean(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"TRUE", false, true},
		{"True", false, true},
		{"1", false, true},
		{"0", false, true},
		{"yes", false, true},
		{"", false, true},
		{" true", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(TypeBoolean, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var coerceErr *CoerceError
				require.ErrorAs(t, err, &coerceErr)
				assert.Equal(t, "Invalid boolean attribute value", coerceErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Bool)
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"-17.5", -17.5, false},
		{"1e3", 1000, false},
		{"123.45", 123.45, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(TypeNumber, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var coerceErr *CoerceError
				require.ErrorAs(t, err, &coerceErr)
				assert.Equal(t, "Invalid number attribute value", coerceErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Num)
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"date only", "2021-01-01", "2021-01-01T00:00:00.000Z", false},
		{"date time", "2021-01-01T12:30:45", "2021-01-01T12:30:45.000Z", false},
		{"rfc3339 utc", "2021-01-01T12:30:45Z", "2021-01-01T12:30:45.000Z", false},
		{"rfc3339 offset", "2021-01-01T12:30:45+02:00", "2021-01-01T10:30:45.000Z", false},
		{"millis kept", "2021-01-01T12:30:45.123Z", "2021-01-01T12:30:45.123Z", false},
		{"submillis truncated", "2021-01-01T12:30:45.123456Z", "2021-01-01T12:30:45.123Z", false},
		{"garbage", "not-a-date", "", true},
		{"empty", "", "", true},
		{"bad month", "2021-13-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(TypeDate, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var coerceErr *CoerceError
				require.ErrorAs(t, err, &coerceErr)
				assert.Equal(t, "Invalid date attribute value", coerceErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestValueStringNumbers(t *testing.T) {
	tests := []struct {
		num  float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
		{1000000, "1000000"},
		{123.45, "123.45"},
		{0.5, "0.50"},
		{-2.25, "-2.25"},
		{1.005, "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberValue(tt.num).String())
		})
	}
}

func TestValueStringBoolean(t *testing.T) {
	assert.Equal(t, "true", BooleanValue(true).String())
	assert.Equal(t, "false", BooleanValue(false).String())
}

func TestValueStringDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	v := DateValue(time.Date(2024, 6, 1, 13, 0, 0, 0, loc))
	assert.Equal(t, "2024-06-01T12:00:00.000Z", v.String())
}

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		attrType AttributeType
		raw      string
	}{
		{TypeString, "hello"},
		{TypeBoolean, "true"},
		{TypeBoolean, "false"},
		{TypeNumber, "42"},
		{TypeNumber, "123.45"},
		{TypeDate, "2021-01-01T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Coerce(tt.attrType, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, v.String())
		})
	}
}

func TestValueColumnArgsExclusivity(t *testing.T) {
	countSet := func(v Value) int {
		str, num, boolean, date := v.columnArgs()
		n := 0
		if str != nil {
			n++
		}
		if num != nil {
			n++
		}
		if boolean != nil {
			n++
		}
		if date != nil {
			n++
		}
		return n
	}

	assert.Equal(t, 1, countSet(StringValue("x")))
	assert.Equal(t, 1, countSet(NumberValue(1)))
	assert.Equal(t, 1, countSet(BooleanValue(true)))
	assert.Equal(t, 1, countSet(DateValue(time.Now())))
	assert.Equal(t, 0, countSet(Value{}))
}

func TestCoerceUnsupportedType(t *testing.T) {
	_, err := Coerce(AttributeType("datetime"), "2021-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported attribute type")
}
