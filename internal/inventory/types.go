// Package inventory holds the domain model of the service: products,
// user-defined typed attributes, and the lookup rows binding a value of an
// attribute to a product. It also owns the typed-value coercion rules used
// both when writing lookup values and when filtering products.
package inventory

import (
	"fmt"
	"time"
)

// AttributeType is the value type of a user-defined attribute.
type AttributeType string

const (
	TypeString  AttributeType = "string"
	TypeNumber  AttributeType = "number"
	TypeBoolean AttributeType = "boolean"
	TypeDate    AttributeType = "date"
)

// Valid reports whether t is one of the supported attribute types.
func (t AttributeType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate:
		return true
	}
	return false
}

// Column returns the lookup-table column storing values of this type.
func (t AttributeType) Column() (string, error) {
	switch t {
	case TypeString:
		return "value_string", nil
	case TypeNumber:
		return "value_number", nil
	case TypeBoolean:
		return "value_boolean", nil
	case TypeDate:
		return "value_date", nil
	}
	return "", fmt.Errorf("unsupported attribute type %q", string(t))
}

// ISOTime is a timestamptz that serializes as an ISO-8601 UTC instant with
// millisecond precision, e.g. "2021-01-01T00:00:00.000Z".
type ISOTime struct {
	time.Time
}

const isoMillis = "2006-01-02T15:04:05.000Z"

func NewISOTime(t time.Time) ISOTime {
	return ISOTime{t.UTC().Truncate(time.Millisecond)}
}

func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(isoMillis) + `"`), nil
}

func (t *ISOTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339Nano+`"`, string(data))
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %s: %w", string(data), err)
	}
	*t = NewISOTime(parsed)
	return nil
}

// Scan implements database scanning so lookup rows can be read directly
// into ISOTime fields.
func (t *ISOTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = NewISOTime(v)
		return nil
	case nil:
		*t = ISOTime{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into ISOTime", src)
}

// Product is a catalog entry. Lookups is populated only by the single-product
// read path; list responses leave it nil and omit it.
type Product struct {
	ProductID          string                    `json:"product_id"`
	ProductName        string                    `json:"product_name"`
	ProductDescription *string                   `json:"product_description"`
	CreatedAt          ISOTime                   `json:"created_at"`
	UpdatedAt          ISOTime                   `json:"updated_at"`
	Lookups            []*ProductAttributeLookup `json:"product_attribute_lookups,omitempty"`
}

// Attribute is a user-defined attribute definition. ShortCode is the
// query-parameter prefix used to filter products by this attribute.
type Attribute struct {
	AttributeID          string        `json:"attribute_id"`
	AttributeName        string        `json:"attribute_name"`
	AttributeDescription *string       `json:"attribute_description"`
	AttributeType        AttributeType `json:"attribute_type"`
	ShortCode            string        `json:"short_code"`
	IsRequired           bool          `json:"is_required"`
	CreatedAt            ISOTime       `json:"created_at"`
	UpdatedAt            ISOTime       `json:"updated_at"`
}

// ProductAttributeLookup binds one attribute value to one product. Exactly
// one of the four value columns is set; the others are NULL. AttributeValue
// carries the canonical string form for API responses and Attribute the
// resolved definition, both populated by the read paths.
type ProductAttributeLookup struct {
	LookupID     string     `json:"product_attribute_lookup_id"`
	ProductID    string     `json:"product_id"`
	AttributeID  string     `json:"attribute_id"`
	ValueString  *string    `json:"value_string"`
	ValueNumber  *float64   `json:"value_number"`
	ValueBoolean *bool      `json:"value_boolean"`
	ValueDate    *ISOTime   `json:"value_date"`
	CreatedAt    ISOTime    `json:"created_at"`
	UpdatedAt    ISOTime    `json:"updated_at"`
	Attribute    *Attribute `json:"attribute,omitempty"`

	AttributeValue string `json:"attribute_value,omitempty"`
}

// Value extracts the stored value as a tagged union, using the attribute
// type to pick the column. Returns the zero Value when the column is NULL.
func (l *ProductAttributeLookup) Value(attrType AttributeType) Value {
	switch attrType {
	case TypeString:
		if l.ValueString != nil {
			return StringValue(*l.ValueString)
		}
	case TypeNumber:
		if l.ValueNumber != nil {
			return NumberValue(*l.ValueNumber)
		}
	case TypeBoolean:
		if l.ValueBoolean != nil {
			return BooleanValue(*l.ValueBoolean)
		}
	case TypeDate:
		if l.ValueDate != nil {
			return DateValue(l.ValueDate.Time)
		}
	}
	return Value{}
}
