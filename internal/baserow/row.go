package baserow

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Row is one table row: an opaque id plus the row's fields keyed by
// user-facing column name. Wire values arrive as JSON scalars, objects
// (single-select options) or arrays (link and multi-value fields); the
// accessors flatten these into plain strings.
type Row struct {
	ID int64

	fields  map[string]any
	changes map[string]any
}

// NewRow builds a row from an id and a field map. Used by fakes in
// tests; production rows come from decodeRow.
func NewRow(id int64, fields map[string]any) *Row {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Row{ID: id, fields: copied}
}

func decodeRow(raw json.RawMessage) (*Row, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	id, ok := fields["id"].(float64)
	if !ok {
		return nil, fmt.Errorf("decode row: missing id")
	}
	delete(fields, "id")
	delete(fields, "order")
	return &Row{ID: int64(id), fields: fields}, nil
}

// Columns returns the row's column names in no particular order.
func (r *Row) Columns() []string {
	cols := make([]string, 0, len(r.fields))
	for name := range r.fields {
		cols = append(cols, name)
	}
	return cols
}

// Str returns the field's value as a string. Numbers format without a
// trailing decimal when integral, booleans as "true"/"false", single
// select options as their label, nil and missing fields as "".
func (r *Row) Str(field string) string {
	return flatten(r.fields[field])
}

// List returns a multi-value field (linked rows, multiple select, file
// attachments) flattened to the per-entry labels. Nil for scalar or
// missing fields.
func (r *Row) List(field string) []string {
	items, ok := r.fields[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := flatten(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bool returns a boolean field; false for missing or non-boolean values.
func (r *Row) Bool(field string) bool {
	b, _ := r.fields[field].(bool)
	return b
}

// Set stages a new value for field. The change is sent by the next
// Update call; reads through the accessors see it immediately.
func (r *Row) Set(field string, value any) {
	if r.changes == nil {
		r.changes = make(map[string]any)
	}
	r.changes[field] = value
	if r.fields == nil {
		r.fields = make(map[string]any)
	}
	r.fields[field] = value
}

// Changed reports whether the row has staged changes not yet persisted.
func (r *Row) Changed() bool { return len(r.changes) > 0 }

// ClearChanges drops the staged change set without sending it. Fakes
// use it to mirror a successful Update; the staged values are already
// visible through the accessors.
func (r *Row) ClearChanges() { r.changes = nil }

// flatten renders one wire value as a string.
func flatten(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any:
		// single-select options and link entries carry their label in "value"
		return flatten(x["value"])
	default:
		return fmt.Sprint(x)
	}
}
