package telemetry

import (
	"context"
	"errors"

	"github.com/drobe/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Providers groups the telemetry pipelines started by the server
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts every pipeline enabled in cfg. Pipelines that are switched
// off still return usable no-op values. On error, whatever was started is
// shut down again.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	base := ConfigFrom(cfg)
	p := &Providers{}
	var err error

	if p.Tracer, err = NewTracerProvider(ctx, base, logger); err != nil {
		return nil, err
	}

	metricsCfg := base
	metricsCfg.Enabled = base.Enabled && cfg.MetricsEnabled
	if p.Meter, err = NewMeterProvider(ctx, metricsCfg, 0, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	logsCfg := base
	logsCfg.Enabled = base.Enabled && cfg.LogsEnabled
	if p.Logs, err = NewLoggerProvider(ctx, logsCfg, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	if p.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.ProfilerEnabled,
		ServerAddress:   cfg.ProfilerAddress,
		ApplicationName: base.ServiceName,
	}, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Profiler.IsEnabled() {
		p.Tracer.EnableSpanProfiles()
	}
	return p, nil
}

// DBTracingConfigFrom derives the GORM tracing settings from cfg
func DBTracingConfigFrom(cfg config.TelemetryConfig) DBTracingConfig {
	return DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:      cfg.DBLogFullSQL,
		SlowQueryThresh: cfg.DBSlowQueryThresh,
	}
}

// Shutdown stops every started pipeline and joins their errors
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
