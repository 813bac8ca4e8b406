package baserow

import "strconv"

// Filter restricts a row listing. Op is a Baserow view-filter type; the
// constructors below cover the ones this service uses.
type Filter struct {
	Field string
	Op    string
	Value string
}

const (
	OpEmpty             = "empty"
	OpNotEmpty          = "not_empty"
	OpEqual             = "equal"
	OpNotEqual          = "not_equal"
	OpContains          = "contains"
	OpSingleSelectEqual = "single_select_equal"
)

// Empty matches rows where field has no value.
func Empty(field string) Filter { return Filter{Field: field, Op: OpEmpty} }

// NotEmpty matches rows where field has a value.
func NotEmpty(field string) Filter { return Filter{Field: field, Op: OpNotEmpty} }

// Equal matches rows where field equals value.
func Equal(field, value string) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// NotEqual matches rows where field differs from value.
func NotEqual(field, value string) Filter {
	return Filter{Field: field, Op: OpNotEqual, Value: value}
}

// Contains matches rows where field contains value as a substring.
func Contains(field, value string) Filter {
	return Filter{Field: field, Op: OpContains, Value: value}
}

// SingleSelectEqual matches rows whose single-select field is set to the
// option with the given id.
func SingleSelectEqual(field string, optionID int) Filter {
	return Filter{Field: field, Op: OpSingleSelectEqual, Value: strconv.Itoa(optionID)}
}
