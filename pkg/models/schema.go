// Package models defines the data structures shared across the engine.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnInfo describes a single column as reported by introspection.
// Type is the datasource's declared type string and is not parsed further.
type ColumnInfo struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	Default    *string `json:"default"`
	PrimaryKey bool    `json:"primary_key"`
}

// ForeignKeyInfo describes one foreign key constraint. Column lists are
// positional: ConstrainedColumns[i] references ReferredColumns[i].
type ForeignKeyInfo struct {
	ConstrainedColumns []string `json:"constrained_columns"`
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
}

// SampleRowLimit caps the number of sample rows captured per table.
const SampleRowLimit = 5

// TableInfo describes one table. Columns keep the order introspection
// discovered them in; that order drives context rendering and numeric-column
// selection in the pattern generator.
type TableInfo struct {
	Columns     []ColumnInfo         `json:"columns"`
	ForeignKeys []ForeignKeyInfo     `json:"foreign_keys"`
	SampleRows  []map[string]*string `json:"sample_data"`
	RowCount    int64                `json:"row_count"`
}

// Column returns the column with the given name, or nil if absent.
func (t *TableInfo) Column(name string) *ColumnInfo {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Schema is an insertion-ordered collection of tables. Iteration order is
// load-bearing: the pattern generator's default table and the rendered
// context both follow it, so it must match discovery order exactly.
type Schema struct {
	names  []string
	tables map[string]*TableInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{tables: make(map[string]*TableInfo)}
}

// AddTable appends a table. Re-adding an existing name replaces the table
// info but keeps its original position.
func (s *Schema) AddTable(name string, info *TableInfo) {
	if _, ok := s.tables[name]; !ok {
		s.names = append(s.names, name)
	}
	s.tables[name] = info
}

// Table returns the named table's info.
func (s *Schema) Table(name string) (*TableInfo, bool) {
	if s == nil {
		return nil, false
	}
	info, ok := s.tables[name]
	return info, ok
}

// TableNames returns table names in insertion order. The returned slice is
// shared; callers must not modify it.
func (s *Schema) TableNames() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// Len returns the number of tables.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// IsEmpty reports whether the schema has no tables.
func (s *Schema) IsEmpty() bool {
	return s.Len() == 0
}

// MarshalJSON emits tables as a JSON object in insertion order, so schema
// payloads are stable across requests.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.TableNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.tables[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a JSON object of tables. Object key order is
// preserved as insertion order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.names = nil
	s.tables = make(map[string]*TableInfo)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("schema: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schema: expected string key, got %v", keyTok)
		}
		var info TableInfo
		if err := dec.Decode(&info); err != nil {
			return err
		}
		s.AddTable(name, &info)
	}
	_, err = dec.Token() // closing brace
	return err
}
