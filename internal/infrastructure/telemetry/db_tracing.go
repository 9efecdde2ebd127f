package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures the GORM tracing plugin
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // keep query variables in spans; development only
	SlowQueryThresh time.Duration
	DBSystem        string
	// TracerProvider overrides the global provider, mostly for tests
	TracerProvider trace.TracerProvider
}

const queryStartKey = "telemetry:query_start"

// DBTracingPlugin registers otelgorm and a callback pair that marks slow and
// failed statements on the active span
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a DBTracingPlugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. It is a no-op when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := p.RegisterCallbacks(db); err != nil {
		return err
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

// RegisterCallbacks installs only the timing callbacks. Callbacks sharing an
// anchor run in registration order, so installing these before otelgorm keeps
// the statement span open when annotate runs.
func (p *DBTracingPlugin) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	register := func(op string, before, after interface {
		Register(name string, fn func(*gorm.DB)) error
	}) error {
		if err := before.Register("telemetry:before_"+op, startTimer); err != nil {
			return err
		}
		return after.Register("telemetry:after_"+op, p.annotate)
	}

	if err := register("create",
		cb.Create().Before("gorm:create"),
		cb.Create().After("gorm:create")); err != nil {
		return err
	}
	if err := register("query",
		cb.Query().Before("gorm:query"),
		cb.Query().After("gorm:query")); err != nil {
		return err
	}
	if err := register("update",
		cb.Update().Before("gorm:update"),
		cb.Update().After("gorm:update")); err != nil {
		return err
	}
	if err := register("delete",
		cb.Delete().Before("gorm:delete"),
		cb.Delete().After("gorm:delete")); err != nil {
		return err
	}
	if err := register("row",
		cb.Row().Before("gorm:row"),
		cb.Row().After("gorm:row")); err != nil {
		return err
	}
	return register("raw",
		cb.Raw().Before("gorm:raw"),
		cb.Raw().After("gorm:raw"))
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

// annotate adds table, row count, error status and the slow-query flag to
// the span carried by the statement context
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed >= p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
