package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	ShapeObjects = "objects"
	ShapeArray   = "array"
)

type transformFunc func(columns []string, values []any) any

var transformFuncs = map[string]transformFunc{
	ShapeArray:   transformArray,
	ShapeObjects: transformObject,
}

func ValidShape(shape string) bool {
	_, ok := transformFuncs[shape]
	return shape == "" || ok
}

// scanRows drains rows into the requested shape. Column order is returned
// separately because object rows do not keep it.
func scanRows(rows *sqlx.Rows, shape string) ([]string, []any, error) {
	transform, ok := transformFuncs[shape]
	if !ok {
		transform = transformObject
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := make([]any, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, nil, err
		}
		results = append(results, transform(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, results, nil
}

func transformArray(columns []string, values []any) any {
	arrRow := make([]any, len(columns))

	for i := range columns {
		arrRow[i] = normalizeValue(values[i])
	}
	return arrRow
}

func transformObject(columns []string, values []any) any {
	objRow := make(map[string]any, len(columns))

	for i, col := range columns {
		objRow[col] = normalizeValue(values[i])
	}
	return objRow
}

func normalizeValue(val any) any {
	if b, ok := val.([]byte); ok {
		return string(b)
	}
	return val
}
