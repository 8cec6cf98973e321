package inventory

import "fmt"

// Filter is one parsed attribute-filter query parameter, e.g.
// price_gt=100 becomes {ShortCode: "price", Operator: "gt", RawValue: "100"}.
// RawValue stays untyped until the attribute definition is known.
type Filter struct {
	ShortCode string
	Operator  Operator
	RawValue  string
}

// Predicate is one filter bound to a resolved attribute: which lookup
// column to compare, how, and against what typed value.
type Predicate struct {
	AttributeID string
	Column      string
	SQLOp       string
	Arg         any
}

// FilterError marks a filter that cannot be turned into a predicate
// (unknown short code, unsupported operator, value coercion failure).
// Handlers map it to a 400 response.
type FilterError struct {
	Message string
	cause   error
}

func (e *FilterError) Error() string { return e.Message }

func (e *FilterError) Unwrap() error { return e.cause }

// BuildPredicates resolves each filter against the attribute definitions
// keyed by short code and coerces its raw value to the attribute's type.
// Resolution is strict: every filter must name a known attribute and carry
// a value valid for its type, otherwise no query runs at all.
func BuildPredicates(filters []Filter, attrs map[string]*Attribute) ([]Predicate, error) {
	predicates := make([]Predicate, 0, len(filters))
	for _, f := range filters {
		attr, ok := attrs[f.ShortCode]
		if !ok {
			return nil, &FilterError{Message: fmt.Sprintf("Attribute %s not found", f.ShortCode)}
		}

		sqlOp, err := f.Operator.SQL()
		if err != nil {
			return nil, &FilterError{Message: err.Error(), cause: err}
		}

		column, err := attr.AttributeType.Column()
		if err != nil {
			return nil, err
		}

		value, err := Coerce(attr.AttributeType, f.RawValue)
		if err != nil {
			return nil, &FilterError{
				Message: fmt.Sprintf("Invalid %s value: %s", string(attr.AttributeType), f.RawValue),
				cause:   err,
			}
		}
		arg, err := value.Arg()
		if err != nil {
			return nil, err
		}

		predicates = append(predicates, Predicate{
			AttributeID: attr.AttributeID,
			Column:      column,
			SQLOp:       sqlOp,
			Arg:         arg,
		})
	}
	return predicates, nil
}

// ShortCodes returns the distinct short codes referenced by the filters, in
// first-seen order, for one batched attribute lookup.
func ShortCodes(filters []Filter) []string {
	seen := make(map[string]struct{}, len(filters))
	codes := make([]string, 0, len(filters))
	for _, f := range filters {
		if _, ok := seen[f.ShortCode]; ok {
			continue
		}
		seen[f.ShortCode] = struct{}{}
		codes = append(codes, f.ShortCode)
	}
	return codes
}
