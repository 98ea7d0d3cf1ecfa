package mint

import (
	"github.com/viant/afs"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/service/ledger"
	"github.com/viant/mint/service/prompt"
	"github.com/viant/mint/service/raster"
	"github.com/viant/mint/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the mint service
type Option func(s *Service)

// WithConfig sets the configuration, DefaultConfig is used otherwise
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithFs sets the file system used for templates, outputs and the ledger
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLedgerStore replaces the file ledger store
func WithLedgerStore(store ledger.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRasterRunner replaces the gosh backed rasterizer runner
func WithRasterRunner(factory raster.RunnerFactory) Option {
	return func(s *Service) {
		s.runnerFactory = factory
	}
}

// WithPrompt sets the interactive prompt service
func WithPrompt(service *prompt.Service) Option {
	return func(s *Service) {
		s.prompt = service
	}
}

// WithExtensionServices registers additional action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
