package models

// ColumnDescription is a catalog column normalized across engines.
// DefaultValue is nil when the column has no default, which is distinct
// from an empty string default.
type ColumnDescription struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	DefaultValue *string `json:"default_value"`
	IsPrimaryKey bool    `json:"is_primary_key"`
}

// IndexDescription keeps Columns in index key order.
type IndexDescription struct {
	Name    string   `json:"name"`
	Unique  bool     `json:"unique"`
	Columns []string `json:"columns"`
}

type TableDescription struct {
	TableName string              `json:"tableName"`
	Columns   []ColumnDescription `json:"columns"`
	Indexes   []IndexDescription  `json:"indexes,omitempty"`
}
