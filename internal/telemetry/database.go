package telemetry

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	spanKey      = "localfeat:db_span"
	spanStartKey = "localfeat:db_span_start"

	maxStatementLength = 500
)

// GORMTracingPlugin opens one span per statement, named db.<operation> <table>
func GORMTracingPlugin() gorm.Plugin {
	return &statementTracer{tracer: otel.Tracer("localfeat/gorm")}
}

type statementTracer struct {
	tracer trace.Tracer
}

func (p *statementTracer) Name() string {
	return "localfeat:statement_tracer"
}

type hook struct {
	operation string
	before    func(name string, fn func(*gorm.DB)) error
	after     func(name string, fn func(*gorm.DB)) error
}

func (p *statementTracer) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []hook{
		{"select",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"insert",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}

	for _, h := range hooks {
		op := h.operation
		if err := h.before("localfeat:before_"+op, func(tx *gorm.DB) { p.start(tx, op) }); err != nil {
			return fmt.Errorf("register before_%s: %w", op, err)
		}
		if err := h.after("localfeat:after_"+op, p.finish); err != nil {
			return fmt.Errorf("register after_%s: %w", op, err)
		}
	}
	return nil
}

func (p *statementTracer) start(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}

	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}

	_, span := p.tracer.Start(ctx, "db."+operation+" "+table,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", dialect(tx)),
			attribute.String("db.table", table),
			attribute.String("db.operation", operation),
		),
	)
	tx.InstanceSet(spanKey, span)
	tx.InstanceSet(spanStartKey, time.Now())
}

func (p *statementTracer) finish(tx *gorm.DB) {
	raw, ok := tx.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := raw.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if started, ok := tx.InstanceGet(spanStartKey); ok {
		if t, ok := started.(time.Time); ok {
			span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(t).Milliseconds()))
		}
	}
	if sql := tx.Statement.SQL.String(); sql != "" {
		if len(sql) > maxStatementLength {
			sql = sql[:maxStatementLength] + "..."
		}
		span.SetAttributes(attribute.String("db.statement", sql))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.RowsAffected))

	// not-found is an expected outcome for lookups
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
}

func dialect(tx *gorm.DB) string {
	if tx.Dialector == nil {
		return "unknown"
	}
	if name := tx.Dialector.Name(); name != "postgres" {
		return name
	}
	return "postgresql"
}
