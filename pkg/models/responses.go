package models

type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

type QueryRequest struct {
	Query string `json:"query"`
	Shape string `json:"shape,omitempty"`
}

type CreateTableRequest struct {
	TableName string `json:"tableName"`
	Schema    string `json:"schema"`
}

type TableNameRequest struct {
	TableName string `json:"tableName"`
}

type QueryMeta struct {
	Columns  []string `json:"columns"`
	RowsRead int      `json:"rows_read"`
	Duration float64  `json:"duration"`
}

type QueryResponse struct {
	Results  []any     `json:"results"`
	Meta     QueryMeta `json:"meta"`
	Duration float64   `json:"duration"`
}

type UpdateResponse struct {
	Success      bool    `json:"success"`
	RowsAffected int64   `json:"rowsAffected"`
	Duration     float64 `json:"duration"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type TableName struct {
	Name string `json:"name"`
}

type ListTablesResponse struct {
	Tables []TableName `json:"tables"`
}

type DescribeAllResponse struct {
	Tables []TableDescription `json:"tables"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Dialect string `json:"dialect"`
}

type TableInfoResponse struct {
	Columns []ColumnDescription `json:"columns"`
	Indexes []IndexDescription  `json:"indexes"`
}
