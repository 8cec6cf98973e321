package inventory

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a tagged union holding exactly one typed attribute value. The
// zero Value has no kind and represents "no value".
type Value struct {
	Kind    AttributeType
	Str     string
	Num     float64
	Bool    bool
	Date    time.Time
	present bool
}

func StringValue(s string) Value  { return Value{Kind: TypeString, Str: s, present: true} }
func NumberValue(f float64) Value { return Value{Kind: TypeNumber, Num: f, present: true} }
func BooleanValue(b bool) Value   { return Value{Kind: TypeBoolean, Bool: b, present: true} }
func DateValue(t time.Time) Value {
	return Value{Kind: TypeDate, Date: t.UTC().Truncate(time.Millisecond), present: true}
}

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return !v.present }

// CoerceError marks a raw string that could not be converted to the
// attribute's type. Handlers map it to a 400 response.
type CoerceError struct {
	Type AttributeType
	Raw  string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("Invalid %s attribute value", string(e.Type))
}

// dateLayouts are the accepted input forms, most specific first. Inputs
// without an explicit zone are taken as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Coerce converts a raw string into a typed value according to the
// attribute type. Strings pass through unchanged; booleans accept only the
// exact literals "true" and "false"; numbers must be finite; dates accept
// ISO-8601 forms and are normalized to a millisecond UTC instant.
func Coerce(attrType AttributeType, raw string) (Value, error) {
	switch attrType {
	case TypeString:
		return StringValue(raw), nil
	case TypeBoolean:
		switch raw {
		case "true":
			return BooleanValue(true), nil
		case "false":
			return BooleanValue(false), nil
		}
		return Value{}, &CoerceError{Type: attrType, Raw: raw}
	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, &CoerceError{Type: attrType, Raw: raw}
		}
		return NumberValue(f), nil
	case TypeDate:
		for _, layout := range dateLayouts {
			t, err := time.Parse(layout, raw)
			if err == nil {
				return DateValue(t), nil
			}
		}
		return Value{}, &CoerceError{Type: attrType, Raw: raw}
	}
	return Value{}, fmt.Errorf("unsupported attribute type %q", string(attrType))
}

// String renders the canonical API form of the value: numbers keep two
// decimals when fractional and none when integral, booleans are the bare
// literals, dates are millisecond UTC instants.
func (v Value) String() string {
	if !v.present {
		return ""
	}
	switch v.Kind {
	case TypeString:
		return v.Str
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeNumber:
		if v.Num == math.Trunc(v.Num) {
			return strconv.FormatFloat(v.Num, 'f', -1, 64)
		}
		return strconv.FormatFloat(v.Num, 'f', 2, 64)
	case TypeDate:
		return v.Date.UTC().Format(isoMillis)
	}
	return ""
}

// Arg returns the value as a SQL bind argument.
func (v Value) Arg() (any, error) {
	switch v.Kind {
	case TypeString:
		return v.Str, nil
	case TypeNumber:
		return v.Num, nil
	case TypeBoolean:
		return v.Bool, nil
	case TypeDate:
		return v.Date, nil
	}
	return nil, fmt.Errorf("unsupported attribute type %q", string(v.Kind))
}

// columnArgs spreads the value across the four lookup columns: the column
// matching the kind gets the value, the rest get NULL. Writing all four on
// every insert and update keeps exactly one column populated per row.
func (v Value) columnArgs() (str *string, num *float64, boolean *bool, date *time.Time) {
	switch v.Kind {
	case TypeString:
		str = &v.Str
	case TypeNumber:
		num = &v.Num
	case TypeBoolean:
		boolean = &v.Bool
	case TypeDate:
		date = &v.Date
	}
	return str, num, boolean, date
}
