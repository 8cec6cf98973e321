package inventory

import "fmt"

// Operator is a comparison operator accepted in filter query parameters.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpLike         Operator = "like"
	OpILike        Operator = "iLike"
	OpIs           Operator = "is"
)

// operatorSQL maps accepted operators to their SQL rendering. "is" is a
// member of the accepted set but has no rendering yet.
var operatorSQL = map[Operator]string{
	OpEqual:        "=",
	OpNotEqual:     "<>",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpLike:         "LIKE",
	OpILike:        "ILIKE",
}

// Valid reports whether op belongs to the accepted operator set.
func (op Operator) Valid() bool {
	if _, ok := operatorSQL[op]; ok {
		return true
	}
	return op == OpIs
}

// UnsupportedOperatorError marks an operator that is accepted by the
// grammar but cannot be rendered to SQL.
type UnsupportedOperatorError struct {
	Op Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("Operator %q is not yet supported", string(e.Op))
}

// SQL returns the SQL comparison for op.
func (op Operator) SQL() (string, error) {
	if sql, ok := operatorSQL[op]; ok {
		return sql, nil
	}
	if op == OpIs {
		return "", &UnsupportedOperatorError{Op: op}
	}
	return "", fmt.Errorf("unknown operator %q", string(op))
}
