package values

import "fmt"

// Field is one named column value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is one result row: its fields in column declaration order.
type Record []Field

// Get returns the value of the first field called name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Map returns the record as a plain map. When a name repeats, the last field
// wins.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Name] = f.Value.Any()
	}
	return m
}

// NewRecord pairs column names with a row of scanned driver values.
func NewRecord(columns []string, row []any) (Record, error) {
	rec := make(Record, len(columns))
	for i, name := range columns {
		v, err := FromDriver(row[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		rec[i] = Field{Name: name, Value: v}
	}
	return rec, nil
}
