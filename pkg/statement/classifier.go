// Package statement routes raw SQL text to the read, write or table
// definition path by its leading keywords. It does not parse SQL; the
// database engine stays the authority on syntax.
package statement

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Category is the execution path a statement is allowed to take.
type Category int

const (
	Unclassified Category = iota
	Read
	CommonTableExpression
	TableDefinition
	Write
)

func (c Category) String() string {
	switch c {
	case Read:
		return "read"
	case CommonTableExpression:
		return "cte"
	case TableDefinition:
		return "table_definition"
	case Write:
		return "write"
	default:
		return "unclassified"
	}
}

const (
	OperationQuery       = "query"
	OperationUpdate      = "update"
	OperationCreateTable = "createTable"
)

const (
	ReasonQueryOnlyReads    = "only read statements are accepted by the query operation"
	ReasonUpdateRejectsRead = "read statements must use the query operation, not the update operation"
	ReasonCreateTableSchema = "schema definition must start with CREATE TABLE"
	ReasonEmptyStatement    = "statement is empty"
)

var ErrRejected = errors.New("statement rejected")

// RejectedError reports a statement submitted to an operation that does
// not accept its category.
type RejectedError struct {
	Operation string
	Category  Category
	Reason    string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

type rule struct {
	pattern  *regexp.Regexp
	category Category
}

// Rules are evaluated top to bottom against the text that remains after
// leading whitespace, byte order marks and parentheses of either direction
// are stripped. The first match wins.
var rules = []rule{
	{regexp.MustCompile(`^(?i)SELECT`), Read},
	{regexp.MustCompile(`^(?i)WITH`), CommonTableExpression},
	{regexp.MustCompile(`^(?i)CREATE\s+TABLE`), TableDefinition},
	{regexp.MustCompile(`^\S`), Write},
}

// Statement is a raw SQL string with its derived category.
type Statement struct {
	Text     string
	Category Category
}

func New(text string) Statement {
	return Statement{Text: text, Category: Classify(text)}
}

// Classify maps every input to exactly one category. Empty input, or input
// made only of whitespace and parentheses, is Unclassified.
func Classify(text string) Category {
	head := strings.TrimLeftFunc(text, func(r rune) bool {
		return r == '(' || r == ')' || r == '\ufeff' || unicode.IsSpace(r)
	})
	for _, r := range rules {
		if r.pattern.MatchString(head) {
			return r.category
		}
	}
	return Unclassified
}

// ForQuery admits statements to the read path. Common table expressions are
// only admitted when allowCTE is set.
func ForQuery(text string, allowCTE bool) (Statement, error) {
	stmt := New(text)
	switch {
	case stmt.Category == Read:
		return stmt, nil
	case stmt.Category == CommonTableExpression && allowCTE:
		return stmt, nil
	}
	return stmt, reject(OperationQuery, stmt.Category, ReasonQueryOnlyReads)
}

// ForUpdate admits statements to the write path. Anything read-shaped is
// turned away, including WITH statements.
func ForUpdate(text string) (Statement, error) {
	stmt := New(text)
	switch stmt.Category {
	case Read, CommonTableExpression:
		return stmt, reject(OperationUpdate, stmt.Category, ReasonUpdateRejectsRead)
	case Unclassified:
		return stmt, reject(OperationUpdate, stmt.Category, ReasonEmptyStatement)
	}
	return stmt, nil
}

func ForCreateTable(text string) (Statement, error) {
	stmt := New(text)
	if stmt.Category != TableDefinition {
		return stmt, reject(OperationCreateTable, stmt.Category, ReasonCreateTableSchema)
	}
	return stmt, nil
}

func reject(op string, c Category, reason string) error {
	return &RejectedError{Operation: op, Category: c, Reason: reason}
}

// Describe is used in log lines.
func (s Statement) Describe() string {
	return fmt.Sprintf("%s statement (%d bytes)", s.Category, len(s.Text))
}
