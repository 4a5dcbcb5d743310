package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"plain select", "SELECT * FROM users", Read},
		{"lower case select", "select 1", Read},
		{"mixed case select", "SeLeCt 1", Read},
		{"leading whitespace", " \n\t SELECT 1", Read},
		{"wrapped select", "(SELECT 1)", Read},
		{"nested parens and spaces", " ( (  select 1))", Read},
		{"closing paren first", ")SELECT 1", Read},
		{"empty parens before select", "( ) SELECT 1", Read},
		{"no-break space", "\u00a0SELECT 1", Read},
		{"byte order mark", "\ufeffSELECT 1", Read},
		{"ideographic space before with", "\u3000WITH t AS (SELECT 1) SELECT 1", CommonTableExpression},
		{"no-break space before create table", "\u00a0CREATE TABLE t (id int)", TableDefinition},
		{"prefix only match", "SELECTED", Read},
		{"with cte", "WITH t AS (SELECT 1) SELECT * FROM t", CommonTableExpression},
		{"lower case with", "  with x as (select 1) delete from y", CommonTableExpression},
		{"create table", "CREATE TABLE t (id INTEGER)", TableDefinition},
		{"create table extra whitespace", "create \n\t  table t (id int)", TableDefinition},
		{"create index is a write", "CREATE INDEX idx ON t(id)", Write},
		{"create without space", "CREATETABLE t", Write},
		{"insert", "INSERT INTO t VALUES (1)", Write},
		{"drop", "DROP TABLE t", Write},
		{"pragma", "PRAGMA table_info(t)", Write},
		{"comment before select", "-- hi\nSELECT 1", Write},
		{"empty", "", Unclassified},
		{"whitespace only", "  \n ", Unclassified},
		{"parens only", "(( ))", Unclassified},
		{"mixed parens and unicode spaces", ")(\u00a0\ufeff\u2003", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestForQuery(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		allowCTE bool
		wantErr  bool
	}{
		{"select accepted", "SELECT 1", false, false},
		{"wrapped select accepted", "(select 1)", false, false},
		{"cte rejected by default", "WITH t AS (SELECT 1) SELECT * FROM t", false, true},
		{"cte accepted when allowed", "WITH t AS (SELECT 1) SELECT * FROM t", true, false},
		{"insert rejected", "INSERT INTO t VALUES (1)", true, true},
		{"create table rejected", "CREATE TABLE t (id INT)", false, true},
		{"empty rejected", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForQuery(tt.text, tt.allowCTE)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRejected))
			assert.Equal(t, ReasonQueryOnlyReads, err.Error())
		})
	}
}

func TestForUpdate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"insert accepted", "INSERT INTO t VALUES (1)", ""},
		{"update accepted", "  update t set a = 1", ""},
		{"create table accepted", "CREATE TABLE t (id INT)", ""},
		{"select rejected", "SELECT 1", ReasonUpdateRejectsRead},
		{"wrapped select rejected", "((SELECT 1))", ReasonUpdateRejectsRead},
		{"closing paren select rejected", ")SELECT 1", ReasonUpdateRejectsRead},
		{"empty parens select rejected", "( ) SELECT 1", ReasonUpdateRejectsRead},
		{"no-break space select rejected", "\u00a0SELECT 1", ReasonUpdateRejectsRead},
		{"byte order mark select rejected", "\ufeffSELECT 1", ReasonUpdateRejectsRead},
		{"parens only rejected", "(( ))", ReasonEmptyStatement},
		{"cte rejected", "with t as (select 1) insert into x select * from t", ReasonUpdateRejectsRead},
		{"empty rejected", "   ", ReasonEmptyStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ForUpdate(tt.text)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var rejected *RejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, OperationUpdate, rejected.Operation)
			assert.Equal(t, stmt.Category, rejected.Category)
			assert.Equal(t, tt.wantErr, rejected.Reason)
		})
	}
}

func TestForCreateTable(t *testing.T) {
	for _, text := range []string{
		"CREATE TABLE t (id INTEGER PRIMARY KEY)",
		"(create   table t (id int))",
		"\tCreate\nTable t (id int)",
	} {
		_, err := ForCreateTable(text)
		assert.NoError(t, err, text)
	}

	for _, text := range []string{
		"",
		"CREATE INDEX i ON t(id)",
		"CREATE VIEW v AS SELECT 1",
		"SELECT 1",
		"DROP TABLE t",
		"CREATE TEMP TABLE t (id int)",
	} {
		_, err := ForCreateTable(text)
		require.Error(t, err, text)
		assert.Equal(t, ReasonCreateTableSchema, err.Error())
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "cte", CommonTableExpression.String())
	assert.Equal(t, "table_definition", TableDefinition.String())
	assert.Equal(t, "write", Write.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}
