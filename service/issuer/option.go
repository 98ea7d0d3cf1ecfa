package issuer

import (
	"github.com/viant/mint/service/stamp"
	"go.uber.org/zap"
)

// Option customises the issuer
type Option func(s *Service)

// WithSeries sets identifier prefix, placeholder, start sequence and denomination
func WithSeries(series Series) Option {
	return func(s *Service) {
		s.series = series
	}
}

// WithTemplates sets the templates stamped for every note
func WithTemplates(templates ...*stamp.Template) Option {
	return func(s *Service) {
		s.templates = templates
	}
}

// WithOutput sets the output location
func WithOutput(dest string, overwrite bool) Option {
	return func(s *Service) {
		s.dest = dest
		s.overwrite = overwrite
	}
}

// WithRaster sets the rasterization settings
func WithRaster(raster Raster) Option {
	return func(s *Service) {
		s.raster = raster
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
