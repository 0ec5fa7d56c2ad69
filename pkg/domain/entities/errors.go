package entities

import (
	"fmt"
	"strings"
)

// SchemaError reports malformed or missing input: a blank key, an unparsable
// field, a duplicate or unknown key, or an empty required table
type SchemaError struct {
	Table  TableName
	Column string
	Row    int // 1-based data row, 0 when not row specific
	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema error in %s", e.Table)
	if e.Column != "" {
		fmt.Fprintf(&b, ".%s", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", e.Row)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

// DomainError reports a value outside its domain: negative, NaN or infinite
// cost, capacity, demand or stock
type DomainError struct {
	Table  TableName
	Column string
	Key    string
	Value  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error in %s.%s for %s: value %g must be a finite non-negative number",
		e.Table, e.Column, e.Key, e.Value)
}

// MissingParameterError reports an index combination required by the
// objective or a constraint family that has no parameter entry
type MissingParameterError struct {
	Parameter string
	Key       string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter %s[%s]", e.Parameter, e.Key)
}
