package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables; never in production
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin registers otelgorm and annotates its spans with row
// counts and slow-query markers.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin; a zero threshold means 200ms.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// RegisterOtelGorm installs otelgorm on db. It is a no-op when disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	// Annotations must run before otelgorm's after hooks end the span, so
	// they are registered first and ordered ahead of them.
	cb := db.Callback()
	hooks := []struct {
		register gormRegister
		name     string
		fn       func(*gorm.DB)
	}{
		{cb.Create().Before("gorm:create"), "db_timing:before_create", markStart},
		{cb.Create().After("gorm:create").Before("otel:after:create"), "db_timing:after_create", p.annotate},
		{cb.Query().Before("gorm:query"), "db_timing:before_query", markStart},
		{cb.Query().After("gorm:query").Before("otel:after:query"), "db_timing:after_query", p.annotate},
		{cb.Update().Before("gorm:update"), "db_timing:before_update", markStart},
		{cb.Update().After("gorm:update").Before("otel:after:update"), "db_timing:after_update", p.annotate},
		{cb.Delete().Before("gorm:delete"), "db_timing:before_delete", markStart},
		{cb.Delete().After("gorm:delete").Before("otel:after:delete"), "db_timing:after_delete", p.annotate},
		{cb.Row().Before("gorm:row"), "db_timing:before_row", markStart},
		{cb.Row().After("gorm:row").Before("otel:after:row"), "db_timing:after_row", p.annotate},
		{cb.Raw().Before("gorm:raw"), "db_timing:before_raw", markStart},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), "db_timing:after_raw", p.annotate},
	}
	for _, h := range hooks {
		if err := h.register.Register(h.name, h.fn); err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
