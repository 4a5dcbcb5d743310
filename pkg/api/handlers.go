package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JayJamieson/sql-admin/pkg/db"
	"github.com/JayJamieson/sql-admin/pkg/models"
	"github.com/JayJamieson/sql-admin/pkg/statement"
	"github.com/labstack/echo/v4"
)

var _ ServerInterface = (*Server)(nil)

var ErrValidation = errors.New("validation failed")

// ValidationError is a request the server refuses before touching the
// database.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// ExecuteQuery implements ServerInterface.
func (s *Server) ExecuteQuery(ctx echo.Context) error {
	start := time.Now()

	var req models.QueryRequest
	if err := decodeBody(ctx, &req); err != nil {
		return s.fail(ctx, opQuery, start, err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return s.fail(ctx, opQuery, start, invalid("query is required"))
	}
	if !db.ValidShape(req.Shape) {
		return s.fail(ctx, opQuery, start, invalid("shape must be objects or array"))
	}

	resp, err := s.db.ExecuteRead(ctx.Request().Context(), req.Query, req.Shape)
	if err != nil {
		return s.fail(ctx, opQuery, start, err)
	}

	s.metrics.observe(opQuery, outcomeOK, start)
	return ctx.JSON(http.StatusOK, resp)
}

// ExecuteUpdate implements ServerInterface.
func (s *Server) ExecuteUpdate(ctx echo.Context) error {
	start := time.Now()

	var req models.QueryRequest
	if err := decodeBody(ctx, &req); err != nil {
		return s.fail(ctx, opUpdate, start, err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return s.fail(ctx, opUpdate, start, invalid("query is required"))
	}

	resp, err := s.db.ExecuteWrite(ctx.Request().Context(), req.Query)
	if err != nil {
		return s.fail(ctx, opUpdate, start, err)
	}

	s.metrics.observe(opUpdate, outcomeOK, start)
	return ctx.JSON(http.StatusOK, resp)
}

// CreateTable implements ServerInterface. tableName is informational; the
// table created is whatever the schema statement names.
func (s *Server) CreateTable(ctx echo.Context) error {
	start := time.Now()

	var req models.CreateTableRequest
	if err := decodeBody(ctx, &req); err != nil {
		return s.fail(ctx, opCreateTable, start, err)
	}
	if strings.TrimSpace(req.Schema) == "" {
		return s.fail(ctx, opCreateTable, start, invalid("schema is required"))
	}

	if err := s.db.CreateTable(ctx.Request().Context(), req.Schema); err != nil {
		return s.fail(ctx, opCreateTable, start, err)
	}

	s.metrics.observe(opCreateTable, outcomeOK, start)
	return ctx.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// DeleteTable implements ServerInterface.
func (s *Server) DeleteTable(ctx echo.Context) error {
	start := time.Now()

	var req models.TableNameRequest
	if err := decodeBody(ctx, &req); err != nil {
		return s.fail(ctx, opDropTable, start, err)
	}
	if req.TableName == "" {
		return s.fail(ctx, opDropTable, start, invalid("tableName is required"))
	}

	if err := s.db.DropTable(ctx.Request().Context(), req.TableName); err != nil {
		return s.fail(ctx, opDropTable, start, err)
	}

	s.metrics.observe(opDropTable, outcomeOK, start)
	return ctx.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// ListTables implements ServerInterface.
func (s *Server) ListTables(ctx echo.Context) error {
	start := time.Now()

	names, err := s.db.ListTableNames(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, opListTables, start, err)
	}

	tables := make([]models.TableName, 0, len(names))
	for _, name := range names {
		tables = append(tables, models.TableName{Name: name})
	}

	s.metrics.observe(opListTables, outcomeOK, start)
	return ctx.JSON(http.StatusOK, models.ListTablesResponse{Tables: tables})
}

// TableInfo implements ServerInterface. Without a tableName every table is
// described, columns only.
func (s *Server) TableInfo(ctx echo.Context) error {
	var req models.TableNameRequest
	if err := decodeBody(ctx, &req); err != nil {
		return s.fail(ctx, opDescribeTable, time.Now(), err)
	}

	if req.TableName != "" {
		return s.describeTable(ctx, req.TableName)
	}

	start := time.Now()

	tables, err := s.db.DescribeAllTables(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, opDescribeAll, start, err)
	}

	s.metrics.observe(opDescribeAll, outcomeOK, start)
	return ctx.JSON(http.StatusOK, models.DescribeAllResponse{Tables: tables})
}

// DescribeTable implements ServerInterface.
func (s *Server) DescribeTable(ctx echo.Context, tableName string) error {
	return s.describeTable(ctx, tableName)
}

func (s *Server) describeTable(ctx echo.Context, tableName string) error {
	start := time.Now()

	desc, err := s.db.DescribeTable(ctx.Request().Context(), tableName)
	if err != nil {
		return s.fail(ctx, opDescribeTable, start, err)
	}

	s.metrics.observe(opDescribeTable, outcomeOK, start)
	return ctx.JSON(http.StatusOK, models.TableInfoResponse{
		Columns: desc.Columns,
		Indexes: desc.Indexes,
	})
}

// GetHealth implements ServerInterface.
func (s *Server) GetHealth(ctx echo.Context) error {
	if err := s.db.Ping(ctx.Request().Context()); err != nil {
		return createErrorResponse(ctx, http.StatusServiceUnavailable, err.Error())
	}
	return ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Dialect: s.db.Dialect(),
	})
}

// decodeBody reads a JSON body whatever the Content-Type. An empty body
// decodes to the zero value.
func decodeBody(ctx echo.Context, v any) error {
	err := ctx.Echo().JSONSerializer.Deserialize(ctx, v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return invalid("invalid JSON request body")
}

// fail maps err onto a status code, records the outcome and writes the
// error body. Engine errors keep their original message.
func (s *Server) fail(ctx echo.Context, operation string, start time.Time, err error) error {
	status := http.StatusInternalServerError
	outcome := outcomeError

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, statement.ErrRejected):
		status = http.StatusBadRequest
		outcome = outcomeInvalid
	case errors.Is(err, db.ErrTableNotFound):
		status = http.StatusNotFound
		outcome = outcomeNotFound
	}

	s.metrics.observe(operation, outcome, start)

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("operation", operation).Msg("database error")
	} else {
		s.logger.Debug().Err(err).Str("operation", operation).Int("status", status).Msg("request refused")
	}

	return createErrorResponse(ctx, status, err.Error())
}

func createErrorResponse(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, models.ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Error:     message,
	})
}
