package issuer

import (
	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/service/raster"
)

const (
	DefaultPlaceholder   = "SLS-XX0000000"
	DefaultStartSequence = 10000
	DefaultDenomination  = 10
)

// Series defines how identifiers are formed and valued
type Series struct {
	Prefix        string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Placeholder   string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	StartSequence int    `json:"startSequence,omitempty" yaml:"startSequence,omitempty"`
	Denomination  int    `json:"denomination,omitempty" yaml:"denomination,omitempty"`
}

// Init applies defaults
func (s *Series) Init() {
	if s.Prefix == "" {
		s.Prefix = serial.DefaultPrefix
	}
	if s.Placeholder == "" {
		s.Placeholder = DefaultPlaceholder
	}
	if s.StartSequence == 0 {
		s.StartSequence = DefaultStartSequence
	}
	if s.Denomination == 0 {
		s.Denomination = DefaultDenomination
	}
}

// Raster configures optional rasterization of stamped files
type Raster struct {
	Enabled   bool              `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Format    string            `json:"format,omitempty" yaml:"format,omitempty"`
	DPI       int               `json:"dpi,omitempty" yaml:"dpi,omitempty"`
	Command   string            `json:"command,omitempty" yaml:"command,omitempty"`
	Host      *raster.Host      `json:"host,omitempty" yaml:"host,omitempty"`
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	TimeoutMs int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

// Init applies defaults
func (r *Raster) Init() {
	if r.Format == "" {
		r.Format = raster.DefaultFormat
	}
	if r.DPI == 0 {
		r.DPI = raster.DefaultDPI
	}
	if r.Command == "" {
		r.Command = raster.DefaultCommand
	}
	if r.TimeoutMs == 0 {
		r.TimeoutMs = raster.DefaultTimeoutMs
	}
}

func (r *Raster) input(source string) *raster.Input {
	return &raster.Input{
		Source:    source,
		Format:    r.Format,
		DPI:       r.DPI,
		Command:   r.Command,
		Host:      r.Host,
		Env:       r.Env,
		TimeoutMs: r.TimeoutMs,
	}
}
