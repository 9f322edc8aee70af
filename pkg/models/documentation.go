package models

// TableDoc holds user-supplied descriptions for one table and its columns.
type TableDoc struct {
	Description string            `json:"description" yaml:"description"`
	Columns     map[string]string `json:"columns" yaml:"columns"`
}

// Documentation is the user-maintained overlay keyed by table name. Keys do
// not have to exist in the schema; unmatched entries are simply never read.
// It survives schema reloads and is only replaced wholesale.
type Documentation map[string]TableDoc

// ColumnDescription returns the description for table.column, or "".
func (d Documentation) ColumnDescription(table, column string) string {
	doc, ok := d[table]
	if !ok {
		return ""
	}
	return doc.Columns[column]
}

// TableDescription returns the description for a table, or "".
func (d Documentation) TableDescription(table string) string {
	return d[table].Description
}
